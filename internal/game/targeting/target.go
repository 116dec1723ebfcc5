package targeting

import (
	"fmt"
	"strings"

	"github.com/inkwell-tcg/inkwell-engine/internal/game/ability"
)

// TargetType represents the type of target an effect can have.
type TargetType string

const (
	// TargetTypeCard targets card instances
	TargetTypeCard TargetType = "CARD"
	// TargetTypePlayer targets players
	TargetTypePlayer TargetType = "PLAYER"
)

// TargetRequirement defines what targets an effect requires.
type TargetRequirement struct {
	// Type specifies what kind of target is required
	Type TargetType
	// MinTargets is the minimum number of targets required
	MinTargets int
	// MaxTargets is the maximum number of targets allowed
	MaxTargets int
	// Optional indicates the whole selection may be declined
	Optional bool
	// Description is a human-readable description of the target requirement
	Description string
}

// RequirementFor derives the requirement of a chosen selector.
func RequirementFor(sel ability.Selector, optional bool) TargetRequirement {
	req := TargetRequirement{
		Type:        TargetTypeCard,
		MinTargets:  sel.MinChoices(),
		MaxTargets:  sel.MaxChoices(),
		Optional:    optional,
		Description: Describe(sel),
	}
	if sel.TargetsPlayers() {
		req.Type = TargetTypePlayer
	}
	return req
}

// Describe renders a selector as a short prompt fragment, e.g. "up to 2 opposing characters".
func Describe(sel ability.Selector) string {
	var parts []string
	if sel.UpTo {
		parts = append(parts, "up to")
	}
	if n := sel.MaxChoices(); n > 1 {
		parts = append(parts, fmt.Sprint(n))
	}
	switch sel.Owner {
	case ability.OwnerYou:
		parts = append(parts, "your")
	case ability.OwnerOpponent:
		parts = append(parts, "opposing")
	}
	if sel.Filter.Damaged {
		parts = append(parts, "damaged")
	}
	if sel.Filter.Exerted {
		parts = append(parts, "exerted")
	}
	noun := "card"
	if sel.CardType != "" {
		noun = strings.ToLower(string(sel.CardType))
	}
	if sel.MaxChoices() > 1 {
		noun += "s"
	}
	parts = append(parts, noun)
	switch sel.Zone {
	case ability.ZoneHand:
		parts = append(parts, "in hand")
	case ability.ZoneDiscard:
		parts = append(parts, "in discard")
	}
	return strings.Join(parts, " ")
}

// TargetSelection represents a player's target selection for an effect.
type TargetSelection struct {
	// Targets is a list of target IDs (card IDs or player IDs)
	Targets []string
	// Requirement is the requirement this selection satisfies
	Requirement TargetRequirement
}

// IsComplete checks if the target selection meets the requirement.
func (ts *TargetSelection) IsComplete() bool {
	return ts.Validate() == nil
}

// Validate checks the selection's cardinality and rejects duplicates.
func (ts *TargetSelection) Validate() error {
	if ts == nil {
		return fmt.Errorf("target selection is nil")
	}
	count := len(ts.Targets)
	if count < ts.Requirement.MinTargets {
		return fmt.Errorf("not enough targets: need at least %d, got %d", ts.Requirement.MinTargets, count)
	}
	if count > ts.Requirement.MaxTargets {
		return fmt.Errorf("too many targets: need at most %d, got %d", ts.Requirement.MaxTargets, count)
	}
	seen := make(map[string]bool, count)
	for _, id := range ts.Targets {
		if seen[id] {
			return fmt.Errorf("duplicate target %s", id)
		}
		seen[id] = true
	}
	return nil
}

// FormatTargets formats target IDs into a single string for log fields and event data.
func FormatTargets(targets []string) string {
	if len(targets) == 0 {
		return ""
	}
	return strings.Join(targets, ",")
}

// ParseTargets parses target IDs from a formatted string.
func ParseTargets(formatted string) []string {
	if formatted == "" {
		return []string{}
	}
	return strings.Split(formatted, ",")
}
