package game

import (
	"context"

	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/watchers"
)

// triggerBinding maps a trigger condition onto the event that fires it.
type triggerBinding struct {
	event rules.EventType
	match func(evt rules.Event, c *state.Card) bool
}

func isTarget(evt rules.Event, c *state.Card) bool { return evt.TargetID == c.ID }
func isSource(evt rules.Event, c *state.Card) bool { return evt.SourceID == c.ID }

var triggerBindings = map[ability.Trigger]triggerBinding{
	ability.TriggerOnPlay:       {rules.EventCardPlayed, isTarget},
	ability.TriggerOnQuest:      {rules.EventQuested, isTarget},
	ability.TriggerOnChallenge:  {rules.EventChallengeDeclared, isSource},
	ability.TriggerOnChallenged: {rules.EventChallengeDeclared, isTarget},
	ability.TriggerOnBanished:   {rules.EventBanished, isTarget},
	ability.TriggerOnMove:       {rules.EventMovedToLocation, isTarget},
	ability.TriggerOnBanishedInChallenge: {rules.EventBanished, func(evt rules.Event, c *state.Card) bool {
		return evt.Flag && evt.TargetID == c.ID
	}},
	ability.TriggerOnBanishInChallenge: {rules.EventBanished, func(evt rules.Event, c *state.Card) bool {
		return evt.Flag && evt.SourceID == c.ID
	}},
	// Start of turn abilities fire when the Set step is announced.
	ability.TriggerStartOfTurn: {rules.EventStepChanged, func(evt rules.Event, c *state.Card) bool {
		return evt.Data == rules.StepSet.String() && evt.PlayerID == c.Owner
	}},
	ability.TriggerEndOfTurn: {rules.EventTurnEnding, func(evt rules.Event, c *state.Card) bool {
		return evt.PlayerID == c.Owner
	}},
	ability.TriggerOnSongPlayed: {rules.EventCardPlayed, func(evt rules.Event, c *state.Card) bool {
		return evt.PlayerID == c.Owner && evt.Metadata[watchers.MetaSong] == "true"
	}},
	ability.TriggerOnCharacterPlayed: {rules.EventCardPlayed, func(evt rules.Event, c *state.Card) bool {
		return evt.PlayerID == c.Owner && evt.TargetID != c.ID && evt.Data == string(catalog.TypeCharacter)
	}},
}

// registerTriggers subscribes the triggered abilities of a card that entered play.
func (e *Engine) registerTriggers(c *state.Card) {
	for _, def := range c.AbilitiesOfKind(ability.KindTriggered) {
		binding, ok := triggerBindings[def.Trigger]
		if !ok {
			e.logger.Warn("unsupported trigger", zap.String("card", c.ID), zap.String("trigger", string(def.Trigger)))
			continue
		}
		card, conds := c, def.Conditions
		e.triggers.Register(rules.AbilityTrigger{
			AbilityID:  def.ID,
			SourceID:   c.ID,
			Controller: c.Owner,
			EventType:  binding.event,
			Condition: func(evt rules.Event) bool {
				return binding.match(evt, card) && e.effects.ConditionsMet(conds, card, card.Owner)
			},
		})
	}
}

// resolveTriggers drains the trigger queue in FIFO order. Triggers queued
// while one resolves join the back of the queue.
func (e *Engine) resolveTriggers(ctx context.Context) {
	if e.resolving {
		return
	}
	e.resolving = true
	defer func() { e.resolving = false }()

	for n := 0; !e.queue.IsEmpty(); n++ {
		if n >= maxResolutions {
			e.logger.Error("trigger resolution limit reached", zap.Int("dropped", e.queue.Len()))
			for !e.queue.IsEmpty() {
				_, _ = e.queue.Pop()
			}
			return
		}
		item, err := e.queue.Pop()
		if err != nil {
			return
		}
		if res := e.legality.CheckPendingTrigger(item); !res.Legal {
			e.logger.Debug("trigger skipped",
				zap.String("ability", item.AbilityID),
				zap.String("reason", string(res.Reason)),
			)
			continue
		}
		source, ok := e.game.Card(item.SourceID)
		if !ok {
			continue
		}
		def, ok := source.Ability(item.AbilityID)
		if !ok {
			continue
		}
		evt := item.Event
		e.resolveAbility(ctx, source, def, item.Controller, &evt)
		e.checkLethal()
		e.checkWinner()
	}
}
