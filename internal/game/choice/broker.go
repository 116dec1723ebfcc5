package choice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell-tcg/inkwell-engine/internal/gamelog"
)

// Canceler is implemented by handlers that hold requests and must drop them
// when the engine stops waiting.
type Canceler interface {
	Cancel(requestID string, err error) error
}

// Broker routes requests to the handler registered for each player and
// enforces one outstanding request per player.
type Broker struct {
	handlers    map[string]Handler
	outstanding map[string]string // playerID -> request id
	logger      gamelog.Logger
}

// NewBroker creates a broker. A nil logger discards diagnostics.
func NewBroker(logger gamelog.Logger) *Broker {
	if logger == nil {
		logger = gamelog.Nop()
	}
	return &Broker{
		handlers:    make(map[string]Handler),
		outstanding: make(map[string]string),
		logger:      logger,
	}
}

// Register installs the handler for playerID. A player has exactly one handler.
func (b *Broker) Register(playerID string, h Handler) error {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" || h == nil {
		return fmt.Errorf("register handler: player id and handler are required")
	}
	if _, exists := b.handlers[playerID]; exists {
		return fmt.Errorf("register handler for %s: %w", playerID, ErrHandlerExists)
	}
	b.handlers[playerID] = h
	return nil
}

// Unregister removes the handler for playerID.
func (b *Broker) Unregister(playerID string) {
	delete(b.handlers, playerID)
}

// HasHandler reports whether playerID has a handler.
func (b *Broker) HasHandler(playerID string) bool {
	_, ok := b.handlers[playerID]
	return ok
}

// Outstanding returns the id of the request playerID has not answered yet.
func (b *Broker) Outstanding(playerID string) (string, bool) {
	id, ok := b.outstanding[playerID]
	return id, ok
}

// Request asks the player's handler and waits for the answer.
//
// A request with no valid option completes at once as declined with
// NoValidOptions set, and logs a diagnostic. An explicit decline logs nothing.
// An invalid response from a synchronous handler is logged; optional
// requests are then declined and mandatory ones fall back to the first valid
// options. AsyncHandler rejects invalid responses at Submit instead.
func (b *Broker) Request(ctx context.Context, req Request) (Outcome, error) {
	h, ok := b.handlers[req.PlayerID]
	if !ok {
		return Outcome{}, fmt.Errorf("request for %s: %w", req.PlayerID, ErrNoHandler)
	}
	if pendingID, busy := b.outstanding[req.PlayerID]; busy {
		b.logger.Error("choice requested while another is outstanding",
			zap.String("player", req.PlayerID),
			zap.String("outstanding", pendingID),
			zap.String("prompt", req.Prompt),
		)
		return Outcome{}, fmt.Errorf("request for %s while %s is outstanding: %w", req.PlayerID, pendingID, ErrProtocolViolation)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	if req.Max < req.Min {
		req.Max = req.Min
	}

	if !req.HasValidOption() {
		b.logger.Debug("choice has no valid options",
			zap.String("player", req.PlayerID),
			zap.String("kind", string(req.Kind)),
			zap.String("prompt", req.Prompt),
			zap.String("source", req.Source.CardID),
		)
		return Outcome{Declined: true, NoValidOptions: true}, nil
	}

	b.outstanding[req.PlayerID] = req.ID
	defer delete(b.outstanding, req.PlayerID)

	resp, err := h.HandleChoice(ctx, req).Await(ctx)
	if err != nil {
		if c, ok := h.(Canceler); ok {
			_ = c.Cancel(req.ID, err)
		}
		return Outcome{}, fmt.Errorf("await choice %s: %w", req.ID, err)
	}

	if err := Validate(req, resp); err != nil {
		b.logger.Error("invalid choice response",
			zap.String("player", req.PlayerID),
			zap.String("request", req.ID),
			zap.Strings("selected", resp.Selected),
			zap.Error(err),
		)
		return fallback(req), nil
	}
	if resp.Declined {
		return Outcome{Declined: true}, nil
	}
	return Outcome{Selected: append([]string(nil), resp.Selected...)}, nil
}

func fallback(req Request) Outcome {
	if req.Optional {
		return Outcome{Declined: true}
	}
	var selected []string
	for _, o := range req.ValidOptions() {
		if len(selected) == req.RequiredCount() {
			break
		}
		selected = append(selected, o.ID)
	}
	return Outcome{Selected: selected}
}
