package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the simulator configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Decks   DecksConfig   `mapstructure:"decks"`
	Bots    BotsConfig    `mapstructure:"bots"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

// LoggingConfig controls the zap logger built by the binaries.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds rules parameters and safety ceilings.
type GameConfig struct {
	LoreGoal          int   `mapstructure:"lore_goal"`
	OpeningHand       int   `mapstructure:"opening_hand"`
	Seed              int64 `mapstructure:"seed"`
	MaxActionsPerTurn int   `mapstructure:"max_actions_per_turn"`
	MaxTurns          int   `mapstructure:"max_turns"`
	Games             int   `mapstructure:"games"`
}

// CatalogConfig points at the card catalog. DatabaseURL wins over Path when set.
type CatalogConfig struct {
	Path        string `mapstructure:"path"`
	DatabaseURL string `mapstructure:"database_url"`
}

// DecksConfig names the deck file and the decks each seat plays.
type DecksConfig struct {
	Path    string `mapstructure:"path"`
	Player1 string `mapstructure:"player1"`
	Player2 string `mapstructure:"player2"`
}

// BotsConfig names the policy profile each seat plays with.
type BotsConfig struct {
	Player1 string `mapstructure:"player1"`
	Player2 string `mapstructure:"player2"`
}

// ReplayConfig enables saving replays. An empty Dir disables it.
type ReplayConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from path (optional) and INKWELL_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("INKWELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.lore_goal", 20)
	v.SetDefault("game.opening_hand", 7)
	v.SetDefault("game.seed", 1)
	v.SetDefault("game.max_actions_per_turn", 60)
	v.SetDefault("game.max_turns", 200)
	v.SetDefault("game.games", 1)
	v.SetDefault("catalog.path", "data/cards.json")
	v.SetDefault("catalog.database_url", "")
	v.SetDefault("decks.path", "data/decks.yaml")
	v.SetDefault("decks.player1", "")
	v.SetDefault("decks.player2", "")
	v.SetDefault("bots.player1", "balanced")
	v.SetDefault("bots.player2", "balanced")
	v.SetDefault("replay.dir", "")
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Game.LoreGoal <= 0 {
		return fmt.Errorf("game.lore_goal must be positive, got %d", c.Game.LoreGoal)
	}
	if c.Game.OpeningHand < 0 {
		return fmt.Errorf("game.opening_hand must not be negative, got %d", c.Game.OpeningHand)
	}
	if c.Game.MaxActionsPerTurn <= 0 {
		return fmt.Errorf("game.max_actions_per_turn must be positive, got %d", c.Game.MaxActionsPerTurn)
	}
	if c.Game.MaxTurns <= 0 {
		return fmt.Errorf("game.max_turns must be positive, got %d", c.Game.MaxTurns)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
