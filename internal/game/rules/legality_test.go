package rules

import (
	"testing"
)

type fakeGameState struct {
	cards    map[string]bool
	players  map[string]bool
	gameOver bool
}

func (f *fakeGameState) CardExists(cardID string) bool  { return f.cards[cardID] }
func (f *fakeGameState) HasPlayer(playerID string) bool { return f.players[playerID] }
func (f *fakeGameState) GameOver() bool                 { return f.gameOver }

func TestLegalityCheckerPendingTrigger(t *testing.T) {
	state := &fakeGameState{
		cards:   map[string]bool{"c1": true},
		players: map[string]bool{"p1": true},
	}
	checker := NewLegalityChecker(state)

	result := checker.CheckPendingTrigger(PendingTrigger{ID: "t1", SourceID: "c1", Controller: "p1"})
	if !result.Legal {
		t.Fatalf("expected legal trigger, got %+v", result)
	}

	result = checker.CheckPendingTrigger(PendingTrigger{ID: "t2", SourceID: "gone", Controller: "p1"})
	if result.Legal || result.Reason != ReasonSourceGone {
		t.Fatalf("expected source_gone, got %+v", result)
	}
	if result.Details["source_id"] != "gone" {
		t.Fatalf("expected source_id detail, got %v", result.Details)
	}

	result = checker.CheckPendingTrigger(PendingTrigger{ID: "t3", SourceID: "c1", Controller: "p9"})
	if result.Legal || result.Reason != ReasonUnknownPlayer {
		t.Fatalf("expected unknown_player, got %+v", result)
	}

	state.gameOver = true
	result = checker.CheckPendingTrigger(PendingTrigger{ID: "t4", SourceID: "c1", Controller: "p1"})
	if result.Legal || result.Reason != ReasonGameOver {
		t.Fatalf("expected game_over, got %+v", result)
	}
}

func TestIllegalFormatsMessage(t *testing.T) {
	result := Illegal(ReasonInsufficientInk, "need %d ink, have %d", 4, 2)
	if result.Legal {
		t.Fatal("Illegal must not be legal")
	}
	if result.Message != "need 4 ink, have 2" {
		t.Fatalf("unexpected message %q", result.Message)
	}
	if !Legal().Legal {
		t.Fatal("Legal must be legal")
	}
}

func TestNilCheckerIsPermissive(t *testing.T) {
	var checker *LegalityChecker
	if !checker.CheckPendingTrigger(PendingTrigger{ID: "x"}).Legal {
		t.Fatal("nil checker should pass everything")
	}
}
