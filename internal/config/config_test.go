package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Game.LoreGoal)
	assert.Equal(t, 7, cfg.Game.OpeningHand)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "balanced", cfg.Bots.Player1)
	assert.Equal(t, "balanced", cfg.Bots.Player2)
	assert.Empty(t, cfg.Replay.Dir)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
  format: json
game:
  lore_goal: 15
  seed: 42
decks:
  player1: Amber Steel
`), 0o600))

	t.Setenv("INKWELL_GAME_MAX_TURNS", "50")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 15, cfg.Game.LoreGoal)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 50, cfg.Game.MaxTurns)
	assert.Equal(t, "Amber Steel", cfg.Decks.Player1)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  lore_goal: 0\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lore_goal")
}
