package game

import (
	"compress/gzip"
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

const replayVersion = 1

// ReplayEntry is one accepted action and the state checksum after it.
type ReplayEntry struct {
	Action   Action
	Checksum string
}

// Replay records the actions of one game. Together with the seed and the
// decks it reproduces the game exactly.
type Replay struct {
	GameID  string
	Seed    int64
	Entries []ReplayEntry
	mu      sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(gameID string, seed int64) *Replay {
	return &Replay{GameID: gameID, Seed: seed}
}

// Record appends action with the checksum of g.
func (r *Replay) Record(action Action, g *state.Game) {
	sum, err := g.Checksum()
	if err != nil {
		sum = ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, ReplayEntry{Action: action, Checksum: sum})
}

// Len returns the number of recorded actions.
func (r *Replay) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Entries)
}

// Actions returns a copy of the recorded actions.
func (r *Replay) Actions() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Action, len(r.Entries))
	for i, entry := range r.Entries {
		out[i] = entry.Action
	}
	return out
}

// Entry returns the entry at index.
func (r *Replay) Entry(index int) (ReplayEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.Entries) {
		return ReplayEntry{}, false
	}
	return r.Entries[index], true
}

// Verify feeds the recorded actions to a freshly started engine built from
// the same seed and decks, and checks every checksum.
func (r *Replay) Verify(ctx context.Context, e *Engine) error {
	r.mu.RLock()
	entries := append([]ReplayEntry(nil), r.Entries...)
	r.mu.RUnlock()

	for i, entry := range entries {
		if err := e.Process(ctx, entry.Action); err != nil {
			return fmt.Errorf("replay action %d (%s): %w", i, entry.Action, err)
		}
		sum, err := e.Game().Checksum()
		if err != nil {
			return fmt.Errorf("replay action %d: %w", i, err)
		}
		if sum != entry.Checksum {
			return fmt.Errorf("replay diverged at action %d (%s): checksum %s, recorded %s", i, entry.Action, sum, entry.Checksum)
		}
	}
	return nil
}

// replayMetadata heads a saved replay file.
type replayMetadata struct {
	GameID     string
	Seed       int64
	Timestamp  time.Time
	Version    int
	EntryCount int
}

func replayPath(directory, gameID string) string {
	return filepath.Join(directory, fmt.Sprintf("%s.replay", gameID))
}

// SaveToFile writes the replay to <directory>/<game id>.replay as gzipped gob.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(replayPath(directory, r.GameID))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()
	encoder := gob.NewEncoder(gzipWriter)

	metadata := replayMetadata{
		GameID:     r.GameID,
		Seed:       r.Seed,
		Timestamp:  time.Now(),
		Version:    replayVersion,
		EntryCount: len(r.Entries),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range r.Entries {
		if err := encoder.Encode(&r.Entries[i]); err != nil {
			return fmt.Errorf("failed to encode entry %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()
	decoder := gob.NewDecoder(gzipReader)

	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewReplay(metadata.GameID, metadata.Seed)
	for i := 0; i < metadata.EntryCount; i++ {
		var entry ReplayEntry
		if err := decoder.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode entry %d: %w", i, err)
		}
		replay.Entries = append(replay.Entries, entry)
	}
	return replay, nil
}

// ReplayRecorder keeps the replays of games that are still running and
// writes them out when they finish.
type ReplayRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*Replay
	saveDir string
}

// NewReplayRecorder creates a recorder saving into saveDir.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{
		logger:  logger,
		replays: make(map[string]*Replay),
		saveDir: saveDir,
	}
}

// Attach starts recording the engine's game.
func (rr *ReplayRecorder) Attach(e *Engine) *Replay {
	replay := NewReplay(e.opts.GameID, e.opts.Seed)
	e.Record(replay)

	rr.mu.Lock()
	rr.replays[replay.GameID] = replay
	rr.mu.Unlock()

	rr.logger.Debug("started replay recording", zap.String("game_id", replay.GameID))
	return replay
}

// GetReplay returns the replay of a running game.
func (rr *ReplayRecorder) GetReplay(gameID string) (*Replay, bool) {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	replay, ok := rr.replays[gameID]
	return replay, ok
}

// SaveReplay writes a replay to disk and forgets it.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[gameID]
	if !ok {
		rr.mu.Unlock()
		return fmt.Errorf("no replay found for game %s", gameID)
	}
	delete(rr.replays, gameID)
	rr.mu.Unlock()

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	rr.logger.Info("saved replay to disk",
		zap.String("game_id", gameID),
		zap.Int("actions", replay.Len()),
		zap.String("directory", rr.saveDir),
	)
	return nil
}

// LoadReplay reads a saved replay.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	return LoadReplayFromFile(rr.saveDir, gameID)
}
