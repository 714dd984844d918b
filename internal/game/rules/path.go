package rules

import (
	"container/heap"
	"slices"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// StepAllowed reports whether u may cross the single edge from -> to on the
// terrain alone: the destination exists and is not Border, no blockade sits
// on the edge and the unit class may enter the tile. Straits let a unit land
// on a tile its class could not otherwise enter. Air ignores straits,
// blockades and terrain.
func (p *Planner) StepAllowed(u *core.Unit, from, to core.Coordinate) bool {
	tile := p.world.Board.At(to)
	if tile == nil || tile.IsBorder() {
		return false
	}
	if u.IsAir() {
		return true
	}
	if p.world.HasBlockade(from, to) {
		return false
	}
	if u.Class().CanEnter(tile.Terrain) {
		return true
	}
	return p.world.HasStrait(from, to)
}

// canTraverse adds the search-only rules to StepAllowed: fog in player mode
// and blocking by other surface units.
func (p *Planner) canTraverse(u *core.Unit, from, to core.Coordinate) bool {
	if !p.StepAllowed(u, from, to) {
		return false
	}
	if p.mode == ModePlayer && p.world.Board.At(to).IsHidden() {
		return false
	}
	if !u.IsAir() {
		if other := p.world.SurfaceUnitAt(to); other != nil && other != u {
			return false
		}
	}
	return true
}

// neighbors lists the cells one step from c: template move offsets plus strait
// partners for surface units.
func (p *Planner) neighbors(u *core.Unit, offsets []core.Coordinate, c core.Coordinate) []core.Coordinate {
	out := make([]core.Coordinate, 0, len(offsets)+1)
	for _, o := range offsets {
		out = append(out, c.Add(o))
	}
	if !u.IsAir() {
		out = append(out, p.world.StraitPartners(c)...)
	}
	return out
}

// Reach is the result of a reachability search.
type Reach struct {
	Origin core.Coordinate
	Budget int
	Cost   map[core.Coordinate]int
}

// Contains reports whether c is reachable. The origin itself is not.
func (r Reach) Contains(c core.Coordinate) bool {
	_, ok := r.Cost[c]
	return ok && c != r.Origin
}

// Tiles returns reachable cells in row-major order, excluding the origin.
func (r Reach) Tiles() []core.Coordinate {
	out := make([]core.Coordinate, 0, len(r.Cost))
	for c := range r.Cost {
		if c != r.Origin {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b core.Coordinate) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})
	return out
}

// Reachable returns the cells u can still add to its chain: a cost-bounded
// search from the chain's end with the movement left after the chain.
func (p *Planner) Reachable(u *core.Unit) Reach {
	chain := p.Chain(u)
	return p.ReachableFrom(u, ChainEnd(u, chain), p.Budget(u, chain))
}

// ReachableFrom searches from origin with the given budget.
func (p *Planner) ReachableFrom(u *core.Unit, origin core.Coordinate, budget int) Reach {
	r := Reach{Origin: origin, Budget: budget, Cost: map[core.Coordinate]int{}}
	if budget <= 0 {
		return r
	}
	offsets := u.Template().MoveOffsets()
	r.Cost[origin] = 0

	pq := &queue{}
	heap.Push(pq, &node{at: origin})
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*node)
		if cur.cost > r.Cost[cur.at] || cur.cost >= budget {
			continue
		}
		for _, next := range p.neighbors(u, offsets, cur.at) {
			cost := cur.cost + 1
			if cost > budget || !p.canTraverse(u, cur.at, next) {
				continue
			}
			if old, seen := r.Cost[next]; seen && old <= cost {
				continue
			}
			r.Cost[next] = cost
			heap.Push(pq, &node{at: next, cost: cost, priority: cost})
		}
	}
	return r
}

// FindPath returns the cheapest cell sequence from start to end, inclusive,
// or nil. Cells in avoid are impassable unless they are the destination.
func (p *Planner) FindPath(u *core.Unit, start, end core.Coordinate, avoid map[core.Coordinate]bool) []core.Coordinate {
	if start == end {
		return []core.Coordinate{start}
	}
	offsets := u.Template().MoveOffsets()
	h := p.heuristic(u, offsets, end)

	cameFrom := map[core.Coordinate]core.Coordinate{}
	gScore := map[core.Coordinate]int{start: 0}
	pq := &queue{}
	heap.Push(pq, &node{at: start, priority: h(start)})
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*node)
		if cur.at == end {
			return rebuild(cameFrom, start, end)
		}
		if cur.cost > gScore[cur.at] {
			continue
		}
		for _, next := range p.neighbors(u, offsets, cur.at) {
			if avoid[next] && next != end {
				continue
			}
			if !p.canTraverse(u, cur.at, next) {
				continue
			}
			cost := cur.cost + 1
			if old, seen := gScore[next]; seen && old <= cost {
				continue
			}
			gScore[next] = cost
			cameFrom[next] = cur.at
			heap.Push(pq, &node{at: next, cost: cost, priority: cost + h(next)})
		}
	}
	return nil
}

// heuristic is the Manhattan distance scaled by the longest single step, so
// it never overestimates even for templates that jump two cells. Straits can
// join arbitrary cells, so surface units on a map with straits fall back to
// plain Dijkstra.
func (p *Planner) heuristic(u *core.Unit, offsets []core.Coordinate, end core.Coordinate) func(core.Coordinate) int {
	if !u.IsAir() && len(p.world.Straits) > 0 {
		return func(core.Coordinate) int { return 0 }
	}
	step := 1
	for _, o := range offsets {
		step = max(step, o.DistanceTo(core.Coordinate{}))
	}
	return func(c core.Coordinate) int {
		return (c.DistanceTo(end) + step - 1) / step
	}
}

func rebuild(cameFrom map[core.Coordinate]core.Coordinate, start, end core.Coordinate) []core.Coordinate {
	path := []core.Coordinate{end}
	for cur := end; cur != start; {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

type node struct {
	at       core.Coordinate
	cost     int
	priority int
	seq      int
}

// queue is a min-heap on priority; insertion order breaks ties so searches
// are deterministic.
type queue struct {
	items []*node
	next  int
}

func (q *queue) Len() int { return len(q.items) }

func (q *queue) Less(i, j int) bool {
	if q.items[i].priority != q.items[j].priority {
		return q.items[i].priority < q.items[j].priority
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *queue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *queue) Push(x any) {
	n := x.(*node)
	n.seq = q.next
	q.next++
	q.items = append(q.items, n)
}

func (q *queue) Pop() any {
	old := q.items
	n := old[len(old)-1]
	q.items = old[:len(old)-1]
	return n
}
