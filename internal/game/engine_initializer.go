package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/DiploStrat/internal/game/command"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/events"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/mapgen"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/rules"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/states"
)

// GameConfig describes how to build an engine session. When World is nil a
// map is generated from Map with Catalog.
type GameConfig struct {
	SessionID        string
	World            *core.World
	Map              mapgen.MapConfig
	Catalog          *core.Catalog
	Rng              *rand.Rand
	Logger           zerolog.Logger
	Viewer           core.NationID
	EditorMode       bool
	DefaultLoadCost  float64
	CaptureTerritory bool
	MaxUndo          int
	Fog              FogConfig
	EventBus         *events.EventBus
}

// DefaultGameConfig returns the standard rules for the given world.
func DefaultGameConfig(w *core.World, logger zerolog.Logger) GameConfig {
	return GameConfig{
		World:            w,
		Logger:           logger,
		DefaultLoadCost:  core.DefaultLoadCost,
		CaptureTerritory: true,
		Fog:              DefaultFogConfig(),
	}
}

// EngineInitializer handles the initialization of an engine session
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	return &EngineInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "GameEngine").Logger(),
	}
}

// Initialize creates an engine, derives its views and opens Planning
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	ei.setupDefaults()

	w := ei.config.World
	if w == nil {
		generated, err := ei.generateWorld()
		if err != nil {
			return nil, fmt.Errorf("map generation failed: %w", err)
		}
		w = generated
	}

	engine := ei.createEngine(w)
	engine.RecomputeNow()

	if err := ei.initializeStateMachine(engine); err != nil {
		return nil, fmt.Errorf("state machine initialization failed: %w", err)
	}

	ei.logger.Info().
		Str("session_id", engine.sessionID).
		Int("width", w.Board.W).
		Int("height", w.Board.H).
		Int("nations", len(w.Nations)).
		Int("units", len(w.Units)).
		Str("mode", engine.planner.Mode().String()).
		Msg("Engine created successfully")
	return engine, nil
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		ei.config.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if ei.config.SessionID == "" {
		ei.config.SessionID = uuid.NewString()
	}
	if ei.config.DefaultLoadCost <= 0 {
		ei.config.DefaultLoadCost = core.DefaultLoadCost
	}
	if ei.config.Catalog == nil {
		ei.config.Catalog = core.NewCatalog()
	}
	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBus(ei.config.Logger)
	}
}

func (ei *EngineInitializer) generateWorld() (*core.World, error) {
	generator := mapgen.NewGenerator(ei.config.Map, ei.config.Rng)
	return generator.GenerateWorld(ei.config.Catalog)
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine(w *core.World) *Engine {
	mode := rules.ModePlayer
	if ei.config.EditorMode {
		mode = rules.ModeEditor
	}

	sessionCtx := states.NewSessionContext(ei.config.SessionID, ei.logger)
	sessionCtx.Turn = w.Turn
	sessionCtx.Nations = len(w.Nations)

	engine := &Engine{
		sessionID:        ei.config.SessionID,
		viewer:           ei.config.Viewer,
		mode:             mode,
		defaultLoadCost:  ei.config.DefaultLoadCost,
		captureTerritory: ei.config.CaptureTerritory,
		fog:              ei.config.Fog,
		rng:              ei.config.Rng,
		logger:           ei.logger,
		log:              command.NewLog(ei.logger, ei.config.MaxUndo),
		eventBus:         ei.config.EventBus,
		stateMachine:     states.NewStateMachine(sessionCtx, ei.config.EventBus),
	}
	engine.bind(w)
	engine.turnProcessor = NewTurnProcessor(engine)
	return engine
}

// initializeStateMachine opens the first planning phase
func (ei *EngineInitializer) initializeStateMachine(engine *Engine) error {
	if err := engine.stateMachine.TransitionTo(states.PhasePlanning, "World ready"); err != nil {
		ei.logger.Error().Err(err).Msg("Failed to transition to Planning state")
		return err
	}
	return nil
}
