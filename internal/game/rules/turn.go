package rules

import (
	"fmt"
	"strings"
)

// Phase represents the broad phases of a turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhaseMain
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseBeginning: "BEGINNING",
	PhaseMain:      "MAIN",
	PhaseEnd:       "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepReady Step = iota
	StepSet
	StepDraw
	StepMain
	StepEnd
)

var stepNames = map[Step]string{
	StepReady: "READY",
	StepSet:   "SET",
	StepDraw:  "DRAW",
	StepMain:  "MAIN",
	StepEnd:   "END",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

type turnEntry struct {
	phase Phase
	step  Step
}

var turnSequence = []turnEntry{
	{PhaseBeginning, StepReady},
	{PhaseBeginning, StepSet},
	{PhaseBeginning, StepDraw},
	{PhaseMain, StepMain},
	{PhaseEnd, StepEnd},
}

// Clock is a point in the game: a turn number and a step within it.
type Clock struct {
	Turn int
	Step Step
}

// Before reports whether c is strictly earlier than other.
func (c Clock) Before(other Clock) bool {
	if c.Turn != other.Turn {
		return c.Turn < other.Turn
	}
	return c.Step < other.Step
}

// IsZero reports whether the clock is unset.
func (c Clock) IsZero() bool {
	return c.Turn == 0 && c.Step == 0
}

func (c Clock) String() string {
	return fmt.Sprintf("T%d/%s", c.Turn, c.Step)
}

// StartOfTurn is the clock at the Ready step of turn.
func StartOfTurn(turn int) Clock {
	return Clock{Turn: turn, Step: StepReady}
}

// TurnManager tracks the active player and turn progression.
type TurnManager struct {
	orderIndex   int
	turnNumber   int
	activePlayer string
}

// NewTurnManager creates a new turn manager initialized at turn 1, ready step.
func NewTurnManager(activePlayer string) *TurnManager {
	return &TurnManager{
		orderIndex:   0,
		turnNumber:   1,
		activePlayer: strings.TrimSpace(activePlayer),
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return turnSequence[tm.orderIndex].phase
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return turnSequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() string {
	return tm.activePlayer
}

// Now returns the current clock.
func (tm *TurnManager) Now() Clock {
	return Clock{Turn: tm.turnNumber, Step: tm.CurrentStep()}
}

// AdvanceStep advances to the next step in the turn structure.
// When the end of the structure is reached, the turn number is incremented
// and the active player is rotated to nextActivePlayer if provided.
func (tm *TurnManager) AdvanceStep(nextActivePlayer string) (Phase, Step) {
	tm.orderIndex++
	if tm.orderIndex >= len(turnSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		if next := strings.TrimSpace(nextActivePlayer); next != "" {
			tm.activePlayer = next
		}
	}
	return tm.CurrentPhase(), tm.CurrentStep()
}

// AdvanceTo moves forward within the current turn until step is reached.
// It does nothing if the turn is already at or past step.
func (tm *TurnManager) AdvanceTo(step Step) {
	for tm.CurrentStep() < step && tm.orderIndex < len(turnSequence)-1 {
		tm.orderIndex++
	}
}
