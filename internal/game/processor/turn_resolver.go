package processor

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/combat"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/command"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/rules"
)

// Movement is the walk one unit performed. Path starts at the unit's old
// position and ends at its new one.
type Movement struct {
	UnitID  string
	Path    []core.Coordinate
	Partial bool
}

func (m Movement) From() core.Coordinate { return m.Path[0] }
func (m Movement) To() core.Coordinate   { return m.Path[len(m.Path)-1] }

// Capture is a change of tile ownership caused by a unit entering the tile.
type Capture struct {
	At       core.Coordinate
	Previous core.NationID
	Owner    core.NationID
}

// Outcome summarises one resolution.
type Outcome struct {
	Movements []Movement
	Loaded    []string
	Unloaded  []string
	Captures  []Capture
	Consumed  []string
}

// NoOp reports a resolution where no unit changed place.
func (o Outcome) NoOp() bool {
	return len(o.Movements) == 0 && len(o.Loaded) == 0 && len(o.Unloaded) == 0
}

// TurnResolver turns every queued chain into one composite action
type TurnResolver struct {
	planner          *rules.Planner
	combat           *combat.Resolver
	captureTerritory bool
	logger           zerolog.Logger
}

// NewTurnResolver creates a new turn resolver
func NewTurnResolver(p *rules.Planner, logger zerolog.Logger) *TurnResolver {
	return &TurnResolver{
		planner:          p,
		combat:           combat.NewResolver(p),
		captureTerritory: true,
		logger:           logger.With().Str("component", "TurnResolver").Logger(),
	}
}

// SetCaptureTerritory toggles ownership changes from movement.
func (r *TurnResolver) SetCaptureTerritory(on bool) { r.captureTerritory = on }

// CommenceAllMoves resolves all queued orders at once. Load/Unload orders
// run first, then every unit walks the Move prefix of its chain until a step
// is rejected. Nothing is changed in the world: the returned composite holds
// every edit and is nil when no unit changed place.
func (r *TurnResolver) CommenceAllMoves(ctx context.Context) (Outcome, *command.Composite, error) {
	w := r.planner.World()
	res := &resolution{
		captures: make(map[core.Coordinate]*Capture),
		consumed: make(map[string]bool),
	}

	// load/unload changes who stands where, so later decisions see it applied
	transfers := r.transferPass(w, res)
	rollback := func() {
		for i := len(transfers) - 1; i >= 0; i-- {
			transfers[i].Undo(w)
		}
	}

	moves, err := r.movementPass(ctx, w, res)
	rollback()
	if err != nil {
		return Outcome{}, nil, err
	}

	out := res.outcome
	if out.NoOp() {
		r.logger.Info().Msg("No valid moves to commence")
		return out, nil, nil
	}

	comp := command.NewComposite("commence all moves")
	for _, a := range transfers {
		comp.Add(a)
	}
	for _, a := range moves {
		comp.Add(a)
	}
	if paint := res.paint(w); paint != nil {
		comp.Add(paint)
		for _, c := range paint.Changes {
			out.Captures = append(out.Captures, *res.captures[c.At])
		}
	}
	for _, a := range res.arrows {
		comp.Add(command.NewDestroy(a))
		out.Consumed = append(out.Consumed, a.ID)
	}

	r.logger.Info().
		Int("moved", len(out.Movements)).
		Int("loaded", len(out.Loaded)).
		Int("unloaded", len(out.Unloaded)).
		Int("captured", len(out.Captures)).
		Int("consumed_arrows", len(out.Consumed)).
		Msg("Resolved turn")
	return out, comp, nil
}

type resolution struct {
	outcome  Outcome
	captures map[core.Coordinate]*Capture
	order    []core.Coordinate
	arrows   []*core.Arrow
	consumed map[string]bool
}

func (res *resolution) consume(a *core.Arrow) {
	if res.consumed[a.ID] {
		return
	}
	res.consumed[a.ID] = true
	res.arrows = append(res.arrows, a)
}

// capture records owner taking c. The first recorded previous owner and the
// last writer win.
func (res *resolution) capture(c core.Coordinate, previous, owner core.NationID) {
	if cp, ok := res.captures[c]; ok {
		cp.Owner = owner
		return
	}
	res.captures[c] = &Capture{At: c, Previous: previous, Owner: owner}
	res.order = append(res.order, c)
}

func (res *resolution) paint(w *core.World) *command.Paint {
	p := &command.Paint{Field: command.FieldOwner}
	for _, c := range res.order {
		cp := res.captures[c]
		if cp.Previous == cp.Owner {
			continue
		}
		tile := w.Board.At(c)
		p.Changes = append(p.Changes, command.TileChange{
			At:  c,
			Old: *tile,
			New: core.Tile{Owner: cp.Owner},
		})
	}
	if p.Empty() {
		return nil
	}
	return p
}

// transferPass applies every executable Load/Unload arrow to the world and
// returns the applied actions, arrow deletions excluded. Unloads go first and
// empty each hold in FIFO order.
func (r *TurnResolver) transferPass(w *core.World, res *resolution) []command.Action {
	var applied []command.Action
	do := func(a command.Action) {
		a.Execute(w)
		applied = append(applied, a)
	}

	var arrows []*core.Arrow
	for _, a := range w.Arrows {
		if a.Order == core.OrderLoadUnload {
			arrows = append(arrows, a)
		}
	}

	// unload queue per transporter, fixed before anything leaves the hold
	queues := make(map[*core.Unit][]*core.Unit)
	for _, a := range arrows {
		t := r.combat.OwnerOf(a)
		if t == nil || t.Pos != a.From || w.CarrierOf(t) != nil {
			continue
		}
		if _, ok := queues[t]; !ok {
			if !t.HasCargo() {
				continue
			}
			queues[t] = slices.Clone(t.Cargo)
		}
		if len(queues[t]) == 0 || w.Board.At(a.To) == nil {
			continue
		}
		cargo := queues[t][0]
		if w.SurfaceUnitAt(a.To) != nil && !cargo.IsAir() {
			continue
		}
		queues[t] = queues[t][1:]
		if !r.planner.StepAllowed(cargo, t.Pos, a.To) {
			r.logger.Debug().Str("unit", cargo.ID).Stringer("to", a.To).Msg("Unload target not passable")
			continue
		}
		do(command.NewCarry(cargo, t.Pos, a.To, t, nil))
		res.consume(a)
		res.outcome.Unloaded = append(res.outcome.Unloaded, cargo.ID)
		if cargo.Class() == core.ClassLand && w.FeatureAt(a.To) == nil {
			r.claimTile(w, res, cargo, a.To)
		}
	}

	for _, a := range arrows {
		if res.consumed[a.ID] {
			continue
		}
		u := r.combat.OwnerOf(a)
		if u == nil || u.Pos != a.From || w.CarrierOf(u) != nil || slices.Contains(res.outcome.Unloaded, u.ID) {
			continue
		}
		t := w.CarrierFor(u, a.To)
		if t == nil {
			continue
		}
		do(command.NewCarry(u, a.From, a.To, nil, t))
		res.consume(a)
		res.outcome.Loaded = append(res.outcome.Loaded, u.ID)
	}
	return applied
}

// walker is a unit with Move arrows at the head of its chain.
type walker struct {
	unit  *core.Unit
	moves []*core.Arrow
}

// movementPass walks every mover in ascending id order. A unit that ends up
// not moving becomes an obstacle and the pass is repeated, so no two units of
// the same layer share a final cell.
func (r *TurnResolver) movementPass(ctx context.Context, w *core.World, res *resolution) ([]command.Action, error) {
	var walkers []walker
	static := make(map[*core.Unit]bool)
	for _, u := range w.Units {
		moves := movePrefix(r.planner.Chain(u))
		if len(moves) == 0 || slices.Contains(res.outcome.Unloaded, u.ID) {
			static[u] = true
			continue
		}
		walkers = append(walkers, walker{unit: u, moves: moves})
	}
	slices.SortFunc(walkers, func(a, b walker) int { return strings.Compare(a.unit.ID, b.unit.ID) })

	var walks []Movement
	for {
		var err error
		walks, err = r.walkAll(ctx, w, walkers, static)
		if err != nil {
			return nil, err
		}
		stuck := blockedInPlace(walkers, walks)
		if len(stuck) == 0 {
			break
		}
		for _, u := range stuck {
			r.logger.Debug().Str("unit", u.ID).Msg("Unit held its cell, repeating movement pass")
			static[u] = true
		}
	}

	var actions []command.Action
	for i, wk := range walkers {
		for _, a := range wk.moves {
			res.consume(a)
		}
		m := walks[i]
		if len(m.Path) < 2 {
			continue
		}
		u := wk.unit
		res.outcome.Movements = append(res.outcome.Movements, m)
		actions = append(actions, command.NewMove(u, m.To()))
		for _, cargo := range u.Cargo {
			actions = append(actions, command.NewCarry(cargo, cargo.Pos, m.To(), u, u))
		}
		if u.Class() == core.ClassLand {
			for _, c := range m.Path {
				r.claimTile(w, res, u, c)
			}
		}
	}
	return actions, nil
}

// walkAll computes every walker's path given the units that stay put.
// walks[i] belongs to walkers[i]; a one-cell path means the unit did not move.
func (r *TurnResolver) walkAll(ctx context.Context, w *core.World, walkers []walker, static map[*core.Unit]bool) ([]Movement, error) {
	claims := map[bool]map[core.Coordinate]bool{false: {}, true: {}}
	for _, u := range w.Units {
		if static[u] {
			claims[u.IsAir()][u.Pos] = true
		}
	}

	walks := make([]Movement, len(walkers))
	for i, wk := range walkers {
		select {
		case <-ctx.Done():
			r.logger.Warn().Err(ctx.Err()).Msg("Turn resolution interrupted by context cancellation")
			return nil, ctx.Err()
		default:
		}

		u := wk.unit
		walks[i] = Movement{UnitID: u.ID, Path: []core.Coordinate{u.Pos}}
		if static[u] {
			continue
		}
		layer := claims[u.IsAir()]
		cur := u.Pos
		for _, a := range wk.moves {
			steps := r.stepsTo(u, cur, a.To, layer)
			if steps == nil {
				walks[i].Partial = true
				r.logger.Debug().Str("unit", u.ID).Stringer("from", cur).Stringer("to", a.To).Msg("Move step rejected")
				break
			}
			walks[i].Path = append(walks[i].Path, steps...)
			cur = a.To
		}
		layer[cur] = true
	}
	return walks, nil
}

// stepsTo returns the cells entered going from cur to next, or nil when the
// move is rejected. Single template steps and strait crossings are checked
// directly; longer arrows follow the shortest path around claimed cells.
func (r *TurnResolver) stepsTo(u *core.Unit, cur, next core.Coordinate, claimed map[core.Coordinate]bool) []core.Coordinate {
	if claimed[next] {
		return nil
	}
	if isSingleStep(r.planner.World(), u, cur, next) {
		if !r.planner.StepAllowed(u, cur, next) {
			return nil
		}
		return []core.Coordinate{next}
	}
	path := r.planner.FindPath(u, cur, next, claimed)
	if path == nil {
		return nil
	}
	return path[1:]
}

func isSingleStep(w *core.World, u *core.Unit, from, to core.Coordinate) bool {
	d := to.Sub(from)
	if slices.Contains(u.Template().MoveOffsets(), d) {
		return true
	}
	return !u.IsAir() && w.HasStrait(from, to)
}

// claimTile records u taking c unless c already belongs to an ally of u or
// is held by a unit u is not allied with.
func (r *TurnResolver) claimTile(w *core.World, res *resolution, u *core.Unit, c core.Coordinate) {
	if !r.captureTerritory {
		return
	}
	tile := w.Board.At(c)
	if tile == nil || tile.IsBorder() {
		return
	}
	if tile.IsOwned() && w.IsAllied(u.Nation, tile.Owner) {
		return
	}
	if other := w.SurfaceUnitAt(c); other != nil && other != u && !w.IsAllied(u.Nation, other.Nation) {
		return
	}
	res.capture(c, tile.Owner, u.Nation)
}

func movePrefix(chain []*core.Arrow) []*core.Arrow {
	for i, a := range chain {
		if a.Order != core.OrderMove {
			return chain[:i]
		}
	}
	return chain
}

// blockedInPlace returns walkers that did not move but whose cell another
// walker ended on.
func blockedInPlace(walkers []walker, walks []Movement) []*core.Unit {
	ends := make(map[bool]map[core.Coordinate]int)
	for i, m := range walks {
		if len(m.Path) < 2 {
			continue
		}
		air := walkers[i].unit.IsAir()
		if ends[air] == nil {
			ends[air] = make(map[core.Coordinate]int)
		}
		ends[air][m.To()]++
	}
	var out []*core.Unit
	for i, m := range walks {
		u := walkers[i].unit
		if len(m.Path) == 1 && ends[u.IsAir()][u.Pos] > 0 {
			out = append(out, u)
		}
	}
	return out
}
