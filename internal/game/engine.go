// Package game is the turn engine: it owns one game's state, validates and
// applies player actions, runs the turn structure and resolves abilities.
//
// The engine is single-threaded. Exactly one caller drives it at a time and
// it only ever suspends while waiting on a player choice.
package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/compiler"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/effects"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/watchers"
	"github.com/inkwell-tcg/inkwell-engine/internal/gamelog"
)

// maxResolutions bounds how many queued triggers one action may resolve.
const maxResolutions = 500

// Options configures a game.
type Options struct {
	GameID      string
	LoreGoal    int
	OpeningHand int
	Seed        int64
	// SkipMulligan deals opening hands without asking players to mulligan.
	SkipMulligan bool
}

func (o Options) withDefaults() Options {
	if o.GameID == "" {
		o.GameID = uuid.NewString()
	}
	if o.LoreGoal <= 0 {
		o.LoreGoal = 20
	}
	if o.OpeningHand < 0 {
		o.OpeningHand = 0
	}
	return o
}

// Seat describes one player joining a game.
type Seat struct {
	PlayerID string
	Name     string
	// Deck lists the definitions in deck order before shuffling.
	Deck    []catalog.Definition
	Handler choice.Handler
}

// Engine runs one game.
type Engine struct {
	logger gamelog.Logger
	opts   Options

	game     *state.Game
	effects  *effects.System
	bus      *rules.EventBus
	watchers *rules.WatcherRegistry
	triggers *rules.TriggerManager
	queue    *rules.TriggerQueue
	legality *rules.LegalityChecker
	broker   *choice.Broker
	compiler *compiler.Compiler
	rng      *rand.Rand

	played *watchers.CardsPlayedWatcher
	stats  *watchers.GameStatsWatcher
	replay *Replay

	started   bool
	resolving bool
}

// New creates an engine. A nil logger discards all output.
func New(logger *zap.Logger, opts Options) *Engine {
	opts = opts.withDefaults()
	log := gamelog.New(logger).With(zap.String("game_id", opts.GameID))

	g := state.NewGame(opts.GameID)
	e := &Engine{
		logger:   log,
		opts:     opts,
		game:     g,
		bus:      rules.NewEventBus(),
		watchers: rules.NewWatcherRegistry(),
		triggers: rules.NewTriggerManager(),
		queue:    rules.NewTriggerQueue(),
		legality: rules.NewLegalityChecker(g),
		broker:   choice.NewBroker(log),
		compiler: compiler.New(log),
		rng:      rand.New(rand.NewSource(opts.Seed)),
		played:   watchers.NewCardsPlayedWatcher(),
		stats:    watchers.NewGameStatsWatcher(),
	}
	e.effects = effects.NewSystem(g, e.played)

	e.watchers.Add(e.played)
	e.watchers.Add(watchers.NewCharactersBanishedWatcher())
	e.watchers.Add(watchers.NewCardsDrawnWatcher())
	e.watchers.Add(e.stats)

	e.bus.Subscribe(e.onEvent)
	return e
}

// AddPlayer seats a player, creates their deck and registers their choice handler.
func (e *Engine) AddPlayer(seat Seat) error {
	if e.started {
		return ErrAlreadyStarted
	}
	if seat.Handler == nil {
		return fmt.Errorf("add player %s: no choice handler", seat.PlayerID)
	}
	p, err := e.game.AddPlayer(seat.PlayerID, seat.Name, e.opts.LoreGoal)
	if err != nil {
		return err
	}
	if err := e.broker.Register(p.ID, seat.Handler); err != nil {
		return err
	}

	compiled := make(map[string][]ability.Definition)
	for _, def := range seat.Deck {
		card, err := e.game.CreateCard(def, p.ID)
		if err != nil {
			return err
		}
		defs, ok := compiled[def.ID]
		if !ok {
			defs = e.compiler.Compile(def)
			compiled[def.ID] = defs
		}
		card.Abilities = defs
		if err := e.game.AddToZone(card.ID, state.ZoneDeck, state.PositionBottom); err != nil {
			return err
		}
	}

	e.logger.Info("player seated",
		zap.String("player", p.ID),
		zap.Int("deck_size", len(p.Deck)),
	)
	return nil
}

// Game returns the state store. Callers must treat it as read-only.
func (e *Engine) Game() *state.Game { return e.game }

// Effects returns the ability system for modified-value queries.
func (e *Engine) Effects() *effects.System { return e.effects }

// Events returns the event bus so observers can subscribe.
func (e *Engine) Events() *rules.EventBus { return e.bus }

// Broker returns the choice broker.
func (e *Engine) Broker() *choice.Broker { return e.broker }

// Stats returns the running totals of a player.
func (e *Engine) Stats(playerID string) watchers.PlayerStats { return e.stats.Stats(playerID) }

// TurnsPlayed is the number of turns started so far.
func (e *Engine) TurnsPlayed() int { return e.stats.Turns() }

// Winner returns the winner's id, or "" while the game runs.
func (e *Engine) Winner() string { return e.game.Winner }

// GameOver reports whether a winner has been recorded.
func (e *Engine) GameOver() bool { return e.game.GameOver() }

// Started reports whether Start completed.
func (e *Engine) Started() bool { return e.started }

// Record attaches a replay that receives every accepted action.
func (e *Engine) Record(r *Replay) { e.replay = r }

// Process validates action and applies it. An illegal action returns a
// *ValidationError and changes nothing.
func (e *Engine) Process(ctx context.Context, action Action) error {
	if !e.started {
		return ErrNotStarted
	}
	if res := e.Validate(action); !res.Legal {
		e.logger.Warn("action rejected",
			zap.String("player", action.PlayerID),
			zap.String("action", action.String()),
			zap.String("reason", string(res.Reason)),
			zap.String("message", res.Message),
		)
		return &ValidationError{Action: action, Result: res}
	}

	e.logger.Action("action", zap.String("player", action.PlayerID), zap.String("action", action.String()))

	var err error
	switch action.Type {
	case ActionInkCard:
		err = e.inkCard(action)
	case ActionPlayCard:
		err = e.playCard(ctx, action)
	case ActionQuest:
		err = e.quest(ctx, action)
	case ActionChallenge:
		err = e.challenge(ctx, action)
	case ActionUseAbility:
		err = e.useAbility(ctx, action)
	case ActionMove:
		err = e.move(action)
	case ActionPassTurn:
		err = e.passTurn(ctx)
	}
	if err != nil {
		e.logger.Error("action failed",
			zap.String("player", action.PlayerID),
			zap.String("action", action.String()),
			zap.Error(err),
		)
		return fmt.Errorf("apply %s: %w", action.Type, err)
	}

	if action.Type != ActionPassTurn {
		e.resolveTriggers(ctx)
	}
	e.checkWinner()

	if e.replay != nil {
		e.replay.Record(action, e.game)
	}
	return nil
}

// publish stamps and delivers an event.
func (e *Engine) publish(evt rules.Event) {
	evt.ID = uuid.NewString()
	evt.Turn = e.game.Now().Turn
	e.bus.Publish(evt)
}

// onEvent feeds watchers first so trigger conditions see this event in the
// per-turn history, then queues the triggers it fires.
func (e *Engine) onEvent(evt rules.Event) {
	e.watchers.Notify(evt)
	if pending := e.triggers.Handle(evt); len(pending) > 0 {
		e.queue.Push(pending...)
		e.logger.Debug("triggers queued",
			zap.String("event", string(evt.Type)),
			zap.Int("count", len(pending)),
			zap.Int("queue", e.queue.Len()),
		)
	}
}

// card returns a registered card or an invariant error.
func (e *Engine) card(id string) (*state.Card, error) {
	c, ok := e.game.Card(id)
	if !ok {
		return nil, &state.InvariantError{Op: "lookup", CardID: id, Detail: "not registered"}
	}
	return c, nil
}

func (e *Engine) player(id string) (*state.Player, error) {
	p, ok := e.game.Player(id)
	if !ok {
		return nil, fmt.Errorf("player %s: %w", id, state.ErrUnknownPlayer)
	}
	return p, nil
}
