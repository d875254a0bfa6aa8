package model

import "testing"

func TestSlotID_Opponent(t *testing.T) {
	if SlotPlayer1.Opponent() != SlotPlayer2 {
		t.Error("Expected player2 to oppose player1")
	}
	if SlotPlayer2.Opponent() != SlotPlayer1 {
		t.Error("Expected player1 to oppose player2")
	}
}

func TestGame_Slot(t *testing.T) {
	g := &Game{}
	g.Slot(SlotPlayer1).Username = "alice"
	g.Slot(SlotPlayer2).Username = "bob"

	if g.Player1.Username != "alice" {
		t.Errorf("Expected alice in player1, got %q", g.Player1.Username)
	}
	if g.Player2.Username != "bob" {
		t.Errorf("Expected bob in player2, got %q", g.Player2.Username)
	}
}

func TestGame_SlotOf(t *testing.T) {
	g := &Game{
		Player1: Slot{Username: "alice"},
		Player2: Slot{Username: "bob"},
	}

	tests := []struct {
		username string
		want     SlotID
		found    bool
	}{
		{"alice", SlotPlayer1, true},
		{"bob", SlotPlayer2, true},
		{"carol", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, found := g.SlotOf(tt.username)
		if got != tt.want || found != tt.found {
			t.Errorf("SlotOf(%q) = (%q, %v), want (%q, %v)", tt.username, got, found, tt.want, tt.found)
		}
	}
}

func TestGame_BothClaimedAndReady(t *testing.T) {
	g := &Game{}
	if g.BothClaimed() {
		t.Error("Empty game should not report both claimed")
	}

	g.Player1.Username = "alice"
	if g.BothClaimed() {
		t.Error("One seat should not report both claimed")
	}

	g.Player2.Username = "bob"
	if !g.BothClaimed() {
		t.Error("Two seats should report both claimed")
	}

	if g.BothReady() {
		t.Error("Unready seats should not report both ready")
	}
	g.Player1.Ready = true
	g.Player2.Ready = true
	if !g.BothReady() {
		t.Error("Ready seats should report both ready")
	}
}
