package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/DiploStrat/internal/catalog"
	"github.com/mitchelldurbincs/DiploStrat/internal/config"
	"github.com/mitchelldurbincs/DiploStrat/internal/game"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/core"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/events"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/DiploStrat/internal/game/mapgen"
	"github.com/mitchelldurbincs/DiploStrat/internal/snapshot"
	"github.com/mitchelldurbincs/DiploStrat/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay to merge (config.<env>.yaml)")
	turns := flag.Int("turns", -1, "Turns to simulate (-1 to use config default)")
	resume := flag.Bool("resume", false, "Continue from the latest save instead of generating a map")
	flag.Parse()

	// .env is optional; real environment variables still win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}

	cfg := config.Get()
	if *turns == -1 {
		*turns = cfg.Demo.Turns
	}
	if !*resume {
		*resume = cfg.Demo.Resume
	}

	setupLogging(cfg.Logging.Level, cfg.Logging.Format)

	if config.ConfigFilePath() != "" {
		config.WatchConfig(func() {
			zerolog.SetGlobalLevel(parseLevel(config.Get().Logging.Level))
			log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *turns, *resume); err != nil {
		log.Fatal().Err(err).Msg("Simulation failed")
	}
}

func run(ctx context.Context, cfg *config.Config, turns int, resume bool) error {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	var store *storage.Store
	if cfg.Storage.Enabled {
		store, err = storage.New(cfg.Storage.Path, log.Logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	var world *core.World
	if resume && store != nil {
		world, err = loadLatest(ctx, store, cfg.Storage.SaveName, cat)
		if err != nil {
			return err
		}
	}

	seed := cfg.Map.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	bus := events.NewEventBus(log.Logger)
	bus.Subscribe(subscribers.NewLoggerSubscriber("cli", log.Logger, zerolog.DebugLevel))

	engine, err := game.NewEngine(ctx, game.GameConfig{
		World:            world,
		Map:              mapConfig(cfg),
		Catalog:          cat,
		Rng:              rng,
		Logger:           log.Logger,
		Viewer:           core.NationID(cfg.Engine.Viewer),
		EditorMode:       cfg.Engine.EditorMode,
		DefaultLoadCost:  cfg.Engine.DefaultLoadCost,
		CaptureTerritory: cfg.Engine.CaptureTerritory,
		MaxUndo:          cfg.Engine.MaxUndo,
		Fog:              fogConfig(cfg),
		EventBus:         bus,
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	nations := engine.World().NationIDs()
	if engine.Viewer() == "" && len(nations) > 0 {
		if err := engine.SetViewer(nations[0]); err != nil {
			return err
		}
	}

	fmt.Printf("Seed: %d  Session: %s\n", seed, engine.SessionID())
	fmt.Printf("Initial board (turn %d, viewer %s):\n%s\n", engine.Turn(), engine.Viewer(), engine.Board())

	for i := 0; i < turns; i++ {
		if err := ctx.Err(); err != nil {
			log.Warn().Err(err).Msg("Simulation interrupted")
			break
		}

		queued := 0
		for _, n := range nations {
			accepted, err := game.GenerateRandomOrders(engine, n, rng)
			if err != nil {
				return fmt.Errorf("orders for %s: %w", n, err)
			}
			queued += accepted
		}

		resolvedTurn := engine.Turn()
		outcome, err := engine.CommenceAllMoves(ctx)
		if err != nil {
			return err
		}
		if err := engine.NextTurn(); err != nil {
			return err
		}

		fmt.Printf("Turn %d: %d orders, %d moves, %d captures\n",
			resolvedTurn, queued, len(outcome.Movements), len(outcome.Captures))

		if store != nil {
			save, err := store.SaveSnapshot(ctx, cfg.Storage.SaveName, engine.World())
			if err != nil {
				return err
			}
			if err := store.RecordTurn(ctx, save.ID, resolvedTurn, outcome); err != nil {
				return err
			}
		}
	}

	fmt.Printf("\nFinal board (turn %d):\n%s\n", engine.Turn(), engine.Board())
	for _, row := range engine.Leaderboard() {
		fmt.Printf("%-8s manpower %d/%d  strength %d  techs %d\n",
			row.Nation, row.ManpowerUsed, row.ManpowerTotal, row.Strength, row.Techs)
	}
	return nil
}

// loadLatest returns nil without error when nothing was saved under name yet.
func loadLatest(ctx context.Context, store *storage.Store, name string, cat *core.Catalog) (*core.World, error) {
	save, snap, err := store.LatestSnapshot(ctx, name)
	if errors.Is(err, storage.ErrSaveNotFound) {
		log.Info().Str("name", name).Msg("No save to resume, generating a new map")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	world, err := snapshot.NewDecoder(cat, log.Logger).Decode(snap)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w", save.ID, err)
	}
	log.Info().Str("save_id", save.ID).Int("turn", save.Turn).Msg("Resuming saved world")
	return world, nil
}

func mapConfig(cfg *config.Config) mapgen.MapConfig {
	m := mapgen.DefaultMapConfig(cfg.Map.Width, cfg.Map.Height, cfg.Map.Nations)
	m.Border = cfg.Map.Border
	m.WaterRatio = cfg.Map.WaterRatio
	m.FeatureRatio = cfg.Map.FeatureRatio
	m.MinCapitalSpacing = cfg.Map.MinCapitalSpacing
	m.MinVeinLength = cfg.Map.MountainVeins.MinLength
	if cfg.Map.MountainVeins.Count > 0 {
		m.NumMountainVeins = cfg.Map.MountainVeins.Count
	}
	if len(cfg.Map.StartingUnits) > 0 {
		m.StartingUnits = cfg.Map.StartingUnits
	}
	return m
}

func fogConfig(cfg *config.Config) game.FogConfig {
	return game.FogConfig{
		Enabled:        cfg.Fog.Enabled,
		OwnedRadius:    cfg.Fog.OwnedRadius,
		UnitRadius:     cfg.Fog.UnitRadius,
		FeatureRadius:  cfg.Fog.FeatureRadius,
		VisionFeatures: cfg.Fog.VisionFeatures,
	}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func setupLogging(level, format string) {
	zerolog.SetGlobalLevel(parseLevel(level))

	if format == "json" || os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
