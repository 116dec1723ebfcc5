// Package choice carries player decisions into the engine.
//
// The engine builds a Request, hands it to the handler registered for the
// deciding player and waits on the returned Future. Bots answer at once;
// interactive handlers resolve the Future later through Submit. Either way the
// engine suspends at the same point.
package choice

import (
	"fmt"
	"time"
)

// Kind classifies a request.
type Kind string

const (
	// KindTarget picks cards or players for an effect.
	KindTarget Kind = "target"
	// KindMay is a yes/no for an optional effect.
	KindMay Kind = "may"
	// KindDiscard picks cards from hand to discard.
	KindDiscard Kind = "discard"
	// KindMulligan picks cards from the opening hand to put back.
	KindMulligan Kind = "mulligan"
)

// Option ids used by KindMay requests.
const (
	OptionYes = "yes"
	OptionNo  = "no"
)

// Hint tells a decider how an effect treats what it picks.
type Hint string

const (
	HintNeutral    Hint = ""
	HintHarmful    Hint = "harmful"
	HintBeneficial Hint = "beneficial"
)

// Option is one selectable entry.
type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	CardID string `json:"cardId,omitempty"`
}

// Source attributes a request to the card and ability that raised it.
type Source struct {
	CardID    string `json:"cardId,omitempty"`
	AbilityID string `json:"abilityId,omitempty"`
	Text      string `json:"text,omitempty"`
}

// Request asks one player to pick between Min and Max valid options.
type Request struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	Kind      Kind      `json:"kind"`
	Prompt    string    `json:"prompt"`
	Options   []Option  `json:"options"`
	Min       int       `json:"min"`
	Max       int       `json:"max"`
	Optional  bool      `json:"optional"`
	Hint      Hint      `json:"hint,omitempty"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidOptions returns the options that may be selected.
func (r Request) ValidOptions() []Option {
	var out []Option
	for _, o := range r.Options {
		if o.Valid {
			out = append(out, o)
		}
	}
	return out
}

// HasValidOption reports whether at least one option may be selected.
func (r Request) HasValidOption() bool {
	for _, o := range r.Options {
		if o.Valid {
			return true
		}
	}
	return false
}

// RequiredCount is the number of selections a non-declined response must
// make at least: Min, capped by the number of valid options.
func (r Request) RequiredCount() int {
	n := len(r.ValidOptions())
	if r.Min < n {
		return r.Min
	}
	return n
}

// Option finds an option by id.
func (r Request) Option(id string) (Option, bool) {
	for _, o := range r.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Response answers a request.
type Response struct {
	RequestID string    `json:"requestId"`
	Selected  []string  `json:"selected"`
	Declined  bool      `json:"declined"`
	Timestamp time.Time `json:"timestamp"`
}

// Select builds a response choosing ids.
func Select(req Request, ids ...string) Response {
	return Response{RequestID: req.ID, Selected: ids, Timestamp: time.Now()}
}

// Decline builds a response declining req.
func Decline(req Request) Response {
	return Response{RequestID: req.ID, Declined: true, Timestamp: time.Now()}
}

// Validate checks a response against its request.
func Validate(req Request, resp Response) error {
	if resp.RequestID != req.ID {
		return fmt.Errorf("%w: response for %q answers request %q", ErrInvalidResponse, resp.RequestID, req.ID)
	}
	if resp.Declined {
		if !req.Optional {
			return fmt.Errorf("%w: request %s cannot be declined", ErrInvalidResponse, req.ID)
		}
		if len(resp.Selected) > 0 {
			return fmt.Errorf("%w: declined response selects options", ErrInvalidResponse)
		}
		return nil
	}
	count := len(resp.Selected)
	if count < req.RequiredCount() {
		return fmt.Errorf("%w: need at least %d selections, got %d", ErrInvalidResponse, req.RequiredCount(), count)
	}
	if count > req.Max {
		return fmt.Errorf("%w: need at most %d selections, got %d", ErrInvalidResponse, req.Max, count)
	}
	seen := make(map[string]bool, count)
	for _, id := range resp.Selected {
		if seen[id] {
			return fmt.Errorf("%w: option %s selected twice", ErrInvalidResponse, id)
		}
		seen[id] = true
		opt, ok := req.Option(id)
		if !ok {
			return fmt.Errorf("%w: unknown option %s", ErrInvalidResponse, id)
		}
		if !opt.Valid {
			return fmt.Errorf("%w: option %s is not selectable: %s", ErrInvalidResponse, id, opt.Reason)
		}
	}
	return nil
}

// Outcome is what the engine acts on after a request completes.
type Outcome struct {
	Selected []string
	// Declined is set when the player declined or nothing could be chosen.
	Declined bool
	// NoValidOptions is set when the request had nothing selectable.
	NoValidOptions bool
}

// Skipped reports whether the engine should skip the mutation.
func (o Outcome) Skipped() bool {
	return o.Declined || len(o.Selected) == 0
}

// Accepted reports whether a KindMay request was answered yes.
func (o Outcome) Accepted() bool {
	return !o.Declined && len(o.Selected) == 1 && o.Selected[0] == OptionYes
}
