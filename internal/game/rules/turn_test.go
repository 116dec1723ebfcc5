package rules

import "testing"

func TestTurnManagerSequence(t *testing.T) {
	tm := NewTurnManager("Alice")

	expected := []struct {
		phase Phase
		step  Step
	}{
		{PhaseBeginning, StepReady},
		{PhaseBeginning, StepSet},
		{PhaseBeginning, StepDraw},
		{PhaseMain, StepMain},
		{PhaseEnd, StepEnd},
	}

	for i, exp := range expected {
		if tm.CurrentPhase() != exp.phase {
			t.Fatalf("step %d: expected phase %s, got %s", i, exp.phase, tm.CurrentPhase())
		}
		if tm.CurrentStep() != exp.step {
			t.Fatalf("step %d: expected step %s, got %s", i, exp.step, tm.CurrentStep())
		}
		if i < len(expected)-1 {
			tm.AdvanceStep("")
		}
	}
}

func TestTurnManagerAdvanceWrapsTurn(t *testing.T) {
	tm := NewTurnManager("Alice")

	for i := 0; i < 4; i++ {
		tm.AdvanceStep("")
		if tm.TurnNumber() != 1 {
			t.Fatalf("expected to remain on turn 1, got turn %d at step %d", tm.TurnNumber(), i)
		}
		if tm.ActivePlayer() != "Alice" {
			t.Fatalf("expected active player to remain Alice during turn, got %s", tm.ActivePlayer())
		}
	}

	phase, step := tm.AdvanceStep("Bob")
	if tm.TurnNumber() != 2 {
		t.Fatalf("expected turn number 2 after wrap, got %d", tm.TurnNumber())
	}
	if tm.ActivePlayer() != "Bob" {
		t.Fatalf("expected active player Bob after wrap, got %s", tm.ActivePlayer())
	}
	if phase != PhaseBeginning || step != StepReady {
		t.Fatalf("expected new turn to start at BEGINNING/READY, got %s/%s", phase, step)
	}
}

func TestTurnManagerAdvanceTo(t *testing.T) {
	tm := NewTurnManager("Alice")
	tm.AdvanceTo(StepMain)
	if tm.CurrentStep() != StepMain || tm.TurnNumber() != 1 {
		t.Fatalf("expected MAIN on turn 1, got %s on turn %d", tm.CurrentStep(), tm.TurnNumber())
	}
	tm.AdvanceTo(StepSet)
	if tm.CurrentStep() != StepMain {
		t.Fatalf("AdvanceTo must not move backwards, got %s", tm.CurrentStep())
	}
}

func TestClockOrdering(t *testing.T) {
	a := Clock{Turn: 2, Step: StepEnd}
	b := Clock{Turn: 3, Step: StepReady}
	c := Clock{Turn: 3, Step: StepMain}

	if !a.Before(b) || !b.Before(c) || !a.Before(c) {
		t.Fatalf("expected %s < %s < %s", a, b, c)
	}
	if c.Before(b) || b.Before(b) {
		t.Fatalf("Before must be strict")
	}
	if StartOfTurn(4) != (Clock{Turn: 4, Step: StepReady}) {
		t.Fatalf("unexpected start of turn clock %s", StartOfTurn(4))
	}
	if !(Clock{}).IsZero() {
		t.Fatalf("zero clock must report IsZero")
	}
}
