package game

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/inkwell-tcg/inkwell-engine/internal/catalog"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/choice"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/rules"
	"github.com/inkwell-tcg/inkwell-engine/internal/game/state"
)

const (
	alice = "alice"
	bob   = "bob"
)

// testHarness drives an engine with scripted choice answers.
type testHarness struct {
	t      *testing.T
	ctx    context.Context
	engine *Engine

	// answers overrides the default answer of a player.
	answers map[string]func(choice.Request) choice.Response
	asked   []choice.Request
	events  []rules.Event
}

type harnessSetup struct {
	opts     Options
	decks    map[string][]catalog.Definition
	handlers map[string]choice.Handler
}

type harnessOption func(*harnessSetup)

func withOpeningHand(n int) harnessOption {
	return func(s *harnessSetup) { s.opts.OpeningHand = n }
}

func withDeck(player string, deck []catalog.Definition) harnessOption {
	return func(s *harnessSetup) { s.decks[player] = deck }
}

func withMulligan() harnessOption {
	return func(s *harnessSetup) { s.opts.SkipMulligan = false }
}

func withLoreGoal(n int) harnessOption {
	return func(s *harnessSetup) { s.opts.LoreGoal = n }
}

// withHandler seats player with h instead of the scripted answers.
func withHandler(player string, h choice.Handler) harnessOption {
	return func(s *harnessSetup) { s.handlers[player] = h }
}

// newHarness seats alice and bob with filler decks and starts the game.
// Alice goes first and is in her Main step when it returns.
func newHarness(t *testing.T, opts ...harnessOption) *testHarness {
	t.Helper()
	h := newUnstartedHarness(t, opts...)
	require.NoError(t, h.engine.Start(h.ctx))
	return h
}

func newUnstartedHarness(t *testing.T, opts ...harnessOption) *testHarness {
	t.Helper()
	h := &testHarness{
		t:       t,
		ctx:     context.Background(),
		answers: make(map[string]func(choice.Request) choice.Response),
	}

	setup := harnessSetup{
		opts:     Options{GameID: "test-game", Seed: 7, SkipMulligan: true},
		decks:    map[string][]catalog.Definition{alice: fillerDeck(20), bob: fillerDeck(20)},
		handlers: make(map[string]choice.Handler),
	}
	for _, opt := range opts {
		opt(&setup)
	}

	h.engine = New(zaptest.NewLogger(t), setup.opts)
	h.engine.Events().Subscribe(func(evt rules.Event) { h.events = append(h.events, evt) })
	for _, id := range []string{alice, bob} {
		handler, ok := setup.handlers[id]
		if !ok {
			handler = h.handler(id)
		}
		require.NoError(t, h.engine.AddPlayer(Seat{PlayerID: id, Name: id, Deck: setup.decks[id], Handler: handler}))
	}
	return h
}

func (h *testHarness) handler(playerID string) choice.Handler {
	return choice.HandlerFunc(func(_ context.Context, req choice.Request) (choice.Response, error) {
		h.asked = append(h.asked, req)
		if answer := h.answers[playerID]; answer != nil {
			return answer(req), nil
		}
		return defaultAnswer(req), nil
	})
}

// defaultAnswer says yes, keeps the opening hand and picks the first valid options.
func defaultAnswer(req choice.Request) choice.Response {
	switch req.Kind {
	case choice.KindMay:
		return choice.Select(req, choice.OptionYes)
	case choice.KindMulligan:
		return choice.Decline(req)
	}
	n := req.RequiredCount()
	if n == 0 && req.Max > 0 {
		n = 1
	}
	var ids []string
	for _, o := range req.ValidOptions() {
		if len(ids) == n {
			break
		}
		ids = append(ids, o.ID)
	}
	return choice.Select(req, ids...)
}

// pick answers target requests with the given ids.
func pick(ids ...string) func(choice.Request) choice.Response {
	return func(req choice.Request) choice.Response {
		if req.Kind == choice.KindMay {
			return choice.Select(req, choice.OptionYes)
		}
		return choice.Select(req, ids...)
	}
}

func filler() catalog.Definition {
	return catalog.Definition{
		ID: "filler", Name: "Filler", Type: catalog.TypeCharacter,
		Cost: 9, Inkable: true, Strength: 1, Willpower: 1, Lore: 1,
	}
}

func fillerDeck(n int) []catalog.Definition {
	deck := make([]catalog.Definition, n)
	for i := range deck {
		deck[i] = filler()
	}
	return deck
}

func slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

func character(name string, cost, strength, willpower, lore int, text ...string) catalog.Definition {
	return catalog.Definition{
		ID: slug(name), Name: name, Type: catalog.TypeCharacter, Cost: cost, Inkable: true,
		Strength: strength, Willpower: willpower, Lore: lore, TextSections: text,
	}
}

func action(name string, cost int, text ...string) catalog.Definition {
	return catalog.Definition{
		ID: slug(name), Name: name, Type: catalog.TypeAction, Cost: cost, Inkable: true, TextSections: text,
	}
}

func song(name string, cost int, text ...string) catalog.Definition {
	def := action(name, cost, text...)
	def.Subtypes = []string{"Song"}
	return def
}

func item(name string, text ...string) catalog.Definition {
	return catalog.Definition{
		ID: slug(name), Name: name, Type: catalog.TypeItem, Cost: 2, Inkable: true, TextSections: text,
	}
}

func location(name string, cost, willpower, lore, moveCost int, text ...string) catalog.Definition {
	return catalog.Definition{
		ID: slug(name), Name: name, Type: catalog.TypeLocation, Cost: cost, Inkable: true,
		Willpower: willpower, Lore: lore, MoveCost: moveCost, TextSections: text,
	}
}

// place creates a card directly in zone, bypassing costs.
func (h *testHarness) place(owner string, def catalog.Definition, zone state.Zone) *state.Card {
	h.t.Helper()
	c, err := h.engine.game.CreateCard(def, owner)
	require.NoError(h.t, err)
	c.Abilities = h.engine.compiler.Compile(def)
	require.NoError(h.t, h.engine.game.AddToZone(c.ID, zone, state.PositionTop))
	if zone == state.ZonePlay {
		h.engine.registerTriggers(c)
	}
	return c
}

// inPlay puts a ready, dry card into play.
func (h *testHarness) inPlay(owner string, def catalog.Definition) *state.Card {
	return h.place(owner, def, state.ZonePlay)
}

func (h *testHarness) exerted(owner string, def catalog.Definition) *state.Card {
	c := h.inPlay(owner, def)
	c.Exerted = true
	return c
}

func (h *testHarness) inHand(owner string, def catalog.Definition) *state.Card {
	return h.place(owner, def, state.ZoneHand)
}

func (h *testHarness) giveInk(owner string, n int) {
	for i := 0; i < n; i++ {
		h.place(owner, filler(), state.ZoneInkwell)
	}
}

func (h *testHarness) player(id string) *state.Player {
	p, ok := h.engine.game.Player(id)
	require.True(h.t, ok, "player %s", id)
	return p
}

func (h *testHarness) do(a Action) {
	h.t.Helper()
	require.NoError(h.t, h.engine.Process(h.ctx, a), "action %s", a)
}

// reject asserts that a is refused for reason and changes nothing.
func (h *testHarness) reject(a Action, reason rules.Reason) {
	h.t.Helper()
	before, err := h.engine.game.Checksum()
	require.NoError(h.t, err)

	err = h.engine.Process(h.ctx, a)
	got, ok := IsValidation(err)
	require.True(h.t, ok, "expected validation error for %s, got %v", a, err)
	assert.Equal(h.t, reason, got, "action %s", a)

	after, err := h.engine.game.Checksum()
	require.NoError(h.t, err)
	assert.Equal(h.t, before, after, "rejected action changed the game")
}

// passTo passes turns until playerID is active.
func (h *testHarness) passTo(playerID string) {
	h.t.Helper()
	for i := 0; i < 4 && h.engine.game.ActivePlayer() != playerID; i++ {
		h.do(PassTurn(h.engine.game.ActivePlayer()))
	}
	require.Equal(h.t, playerID, h.engine.game.ActivePlayer())
}

func (h *testHarness) eventsOf(t rules.EventType) []rules.Event {
	var out []rules.Event
	for _, evt := range h.events {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

func (h *testHarness) requestsOf(kind choice.Kind) []choice.Request {
	var out []choice.Request
	for _, req := range h.asked {
		if req.Kind == kind {
			out = append(out, req)
		}
	}
	return out
}
