// Command inkwell-sim plays bot-vs-bot games and reports the results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/config"
	"github.com/inkwell-tcg/inkwell-engine/internal/game"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/bot"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	games      = flag.Int("games", 0, "number of games to play (overrides config)")
	version    = "dev" // set via ldflags during build
)

const (
	seat1 = "player1"
	seat2 = "player2"
)

type seat struct {
	id      string
	deck    []catalog.Definition
	profile bot.Profile
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *games > 0 {
		cfg.Game.Games = *games
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting inkwell simulator",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.Int("games", cfg.Game.Games),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cat, err := loadCatalog(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}
	seats, err := loadSeats(cfg, cat)
	if err != nil {
		logger.Fatal("failed to load decks", zap.Error(err))
	}

	var recorder *game.ReplayRecorder
	if cfg.Replay.Dir != "" {
		recorder = game.NewReplayRecorder(logger, cfg.Replay.Dir)
		logger.Info("replay recording enabled", zap.String("directory", cfg.Replay.Dir))
	}

	summary := newSummary()
	for i := 0; i < cfg.Game.Games; i++ {
		if ctx.Err() != nil {
			logger.Info("simulation interrupted", zap.Int("played", i))
			break
		}
		seed := cfg.Game.Seed + int64(i)
		res, err := playGame(ctx, cfg, seats, seed, recorder, logger)
		if err != nil {
			summary.failed++
			logger.Error("game failed", zap.Int64("seed", seed), zap.Error(err))
			continue
		}
		summary.add(res)
	}
	summary.print(os.Stdout)
}

func loadCatalog(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*catalog.Catalog, error) {
	if cfg.DatabaseURL != "" {
		src, err := catalog.NewPostgresSource(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		cat, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("catalog loaded from database", zap.Int("cards", cat.Len()))
		return cat, nil
	}

	cat, err := catalog.LoadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.Path, err)
	}
	logger.Info("catalog loaded from file", zap.String("path", cfg.Path), zap.Int("cards", cat.Len()))
	return cat, nil
}

func loadSeats(cfg *config.Config, cat *catalog.Catalog) ([]seat, error) {
	deckFile, err := catalog.LoadDeckFile(cfg.Decks.Path)
	if err != nil {
		return nil, fmt.Errorf("load deck file %s: %w", cfg.Decks.Path, err)
	}

	seatCfgs := []struct {
		id, deck, profile string
		n                 int
	}{
		{seat1, cfg.Decks.Player1, cfg.Bots.Player1, 1},
		{seat2, cfg.Decks.Player2, cfg.Bots.Player2, 2},
	}
	seats := make([]seat, 0, len(seatCfgs))
	for _, sc := range seatCfgs {
		list, err := deckFile.Deck(sc.deck, sc.n)
		if err != nil {
			return nil, err
		}
		defs, err := cat.ResolveDeck(list.Cards)
		if err != nil {
			return nil, fmt.Errorf("deck %s: %w", list.Name, err)
		}
		profile, err := bot.LookupProfile(sc.profile)
		if err != nil {
			return nil, err
		}
		seats = append(seats, seat{id: sc.id, deck: defs, profile: profile})
	}
	return seats, nil
}

func playGame(ctx context.Context, cfg *config.Config, seats []seat, seed int64, recorder *game.ReplayRecorder, logger *zap.Logger) (gameResult, error) {
	engine := game.New(logger, game.Options{
		GameID:      fmt.Sprintf("sim-%d", seed),
		LoreGoal:    cfg.Game.LoreGoal,
		OpeningHand: cfg.Game.OpeningHand,
		Seed:        seed,
	})
	driver := bot.NewDriver(engine, logger, bot.Limits{
		MaxActionsPerTurn: cfg.Game.MaxActionsPerTurn,
		MaxTurns:          cfg.Game.MaxTurns,
	})
	for i, s := range seats {
		if _, err := driver.Seat(s.id, s.deck, s.profile, seed*10+int64(i)); err != nil {
			return gameResult{}, err
		}
	}

	var gameID string
	if recorder != nil {
		gameID = recorder.Attach(engine).GameID
	}

	res, err := driver.PlayGame(ctx)
	if recorder != nil {
		if saveErr := recorder.SaveReplay(gameID); saveErr != nil {
			logger.Warn("failed to save replay", zap.String("game_id", gameID), zap.Error(saveErr))
		}
	}
	if err != nil && !errors.Is(err, bot.ErrTurnCeiling) {
		return gameResult{}, err
	}

	out := gameResult{Result: res, stats: make(map[string]statsLine)}
	for _, s := range seats {
		p, _ := engine.Game().Player(s.id)
		st := engine.Stats(s.id)
		out.stats[s.id] = statsLine{lore: p.Lore, quests: st.Quests, challenges: st.Challenges, played: st.CardsPlayed}
	}
	return out, nil
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
