package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game"
	"github.com/inkwell-tcg/inkwell-engine/internal/gamelog"
)

var (
	// ErrActionCeiling is returned when a bot keeps acting past the per-turn
	// ceiling and cannot be made to pass.
	ErrActionCeiling = errors.New("bot action ceiling reached")
	// ErrTurnCeiling is returned when a game runs past the turn ceiling.
	ErrTurnCeiling = errors.New("game turn ceiling reached")
)

const (
	defaultMaxActionsPerTurn = 100
	defaultMaxTurns          = 200
)

// Limits bound a bot-driven game.
type Limits struct {
	MaxActionsPerTurn int
	MaxTurns          int
}

func (l Limits) withDefaults() Limits {
	if l.MaxActionsPerTurn <= 0 {
		l.MaxActionsPerTurn = defaultMaxActionsPerTurn
	}
	if l.MaxTurns <= 0 {
		l.MaxTurns = defaultMaxTurns
	}
	return l
}

// Result summarizes a finished game.
type Result struct {
	Winner  string
	Turns   int
	Actions int
}

// Driver plays every seat of an engine with a policy.
type Driver struct {
	engine   *game.Engine
	logger   gamelog.Logger
	limits   Limits
	policies map[string]*Policy
}

// NewDriver creates a driver for engine. A nil logger discards output.
func NewDriver(engine *game.Engine, logger *zap.Logger, limits Limits) *Driver {
	return &Driver{
		engine:   engine,
		logger:   gamelog.New(logger),
		limits:   limits.withDefaults(),
		policies: make(map[string]*Policy),
	}
}

// Seat adds a bot player with deck to the engine.
func (d *Driver) Seat(playerID string, deck []catalog.Definition, profile Profile, seed int64) (*Policy, error) {
	p := NewPolicy(d.engine, profile, seed)
	if err := d.engine.AddPlayer(game.Seat{
		PlayerID: playerID,
		Name:     playerID,
		Deck:     deck,
		Handler:  p.Handler(),
	}); err != nil {
		return nil, fmt.Errorf("seat bot %s: %w", playerID, err)
	}
	d.policies[playerID] = p
	return p, nil
}

// TakeTurn lets the active player's policy act until it passes or the game
// ends. Past the action ceiling the driver passes on the bot's behalf.
func (d *Driver) TakeTurn(ctx context.Context) (int, error) {
	g := d.engine.Game()
	player := g.ActivePlayer()
	policy, ok := d.policies[player]
	if !ok {
		return 0, fmt.Errorf("no bot seated for %s", player)
	}

	for n := 0; ; n++ {
		if d.engine.GameOver() {
			return n, nil
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if n >= d.limits.MaxActionsPerTurn {
			d.logger.Warn("bot hit action ceiling, forcing pass",
				zap.String("player", player),
				zap.Int("actions", n),
			)
			if err := d.engine.Process(ctx, game.PassTurn(player)); err != nil {
				return n, fmt.Errorf("%w: %s after %d actions: %v", ErrActionCeiling, player, n, err)
			}
			return n + 1, nil
		}

		action := policy.DecideAction(player)
		if err := d.engine.Process(ctx, action); err != nil {
			return n, fmt.Errorf("bot %s: %w", player, err)
		}
		if action.Type == game.ActionPassTurn {
			return n + 1, nil
		}
	}
}

// PlayGame starts the game and plays it to the end.
func (d *Driver) PlayGame(ctx context.Context) (Result, error) {
	if !d.engine.Started() {
		if err := d.engine.Start(ctx); err != nil {
			return Result{}, err
		}
	}

	var res Result
	for turns := 0; !d.engine.GameOver(); turns++ {
		if turns >= d.limits.MaxTurns {
			res.Turns = d.engine.TurnsPlayed()
			return res, fmt.Errorf("%w after %d turns", ErrTurnCeiling, turns)
		}
		n, err := d.TakeTurn(ctx)
		res.Actions += n
		if err != nil {
			res.Turns = d.engine.TurnsPlayed()
			return res, err
		}
	}

	res.Winner = d.engine.Winner()
	res.Turns = d.engine.TurnsPlayed()
	d.logger.Info("bot game finished",
		zap.String("winner", res.Winner),
		zap.Int("turns", res.Turns),
		zap.Int("actions", res.Actions),
	)
	return res, nil
}
