// Package rules answers movement questions about a world: order chains,
// their cost, reachable cells, shortest paths and legal action targets.
package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
)

// Mode decides whether fog of war restricts movement.
type Mode int

const (
	// ModePlayer treats hidden tiles as impassable.
	ModePlayer Mode = iota
	// ModeEditor sees through fog.
	ModeEditor
)

func (m Mode) String() string {
	if m == ModeEditor {
		return "editor"
	}
	return "player"
}

// Planner computes chains, reachability and paths for units of one world.
// It holds no state besides its configuration and is cheap to recreate when
// the world is replaced.
type Planner struct {
	world           *core.World
	mode            Mode
	defaultLoadCost float64
	logger          zerolog.Logger
}

// NewPlanner creates a planner bound to w.
func NewPlanner(w *core.World, mode Mode, logger zerolog.Logger) *Planner {
	return &Planner{
		world:           w,
		mode:            mode,
		defaultLoadCost: core.DefaultLoadCost,
		logger:          logger.With().Str("component", "Planner").Logger(),
	}
}

func (p *Planner) World() *core.World { return p.world }
func (p *Planner) Mode() Mode         { return p.mode }
func (p *Planner) SetMode(m Mode)     { p.mode = m }

// SetDefaultLoadCost overrides the load cost used for transporter types that
// do not declare one.
func (p *Planner) SetDefaultLoadCost(c float64) {
	p.defaultLoadCost = c
}

// Speed returns the unit's effective speed stat. Modifier errors are logged
// and otherwise ignored.
func (p *Planner) Speed(u *core.Unit) float64 {
	return p.Stats(u).Float(core.StatSpeed)
}

// Stats returns effective stats and logs skipped modifiers.
func (p *Planner) Stats(u *core.Unit) core.Stats {
	s, skipped := p.world.EffectiveStats(u)
	for _, err := range skipped {
		p.logger.Warn().Err(err).Str("unit", u.ID).Str("type", u.Key()).Msg("Skipping tech modifier")
	}
	return s
}
