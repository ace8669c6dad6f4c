package engine

import (
	"testing"

	"bitbucket.org/zurichess/board"
)

func TestSEEEqualTrade(t *testing.T) {
	// Bxe6 wins a knight but loses the bishop to the queen: net zero.
	pos := mustPosition(t, "6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1")
	move := findMove(t, pos, "c4e6")

	if score := see(pos, move); score != 0 {
		t.Errorf("see = %d, want 0", score)
	}
}

func TestSEEEnPassantCapture(t *testing.T) {
	pos := mustPosition(t, "8/8/8/3pP3/8/8/8/6K1 w - d6 0 1")
	move := findMove(t, pos, "e5d6")

	if score := see(pos, move); score != seePieceValue[board.Pawn] {
		t.Errorf("see = %d, want %d", score, seePieceValue[board.Pawn])
	}
}

func TestSEELosingCapture(t *testing.T) {
	// Qxd5 grabs a pawn but the e6 pawn recaptures the queen.
	pos := mustPosition(t, "4k3/8/4p3/3p4/8/8/8/3QK3 w - - 0 1")
	move := findMove(t, pos, "d1d5")

	want := seePieceValue[board.Pawn] - seePieceValue[board.Queen]
	if score := see(pos, move); score != want {
		t.Errorf("see = %d, want %d", score, want)
	}
}

func TestSEEDefendedPawnGrab(t *testing.T) {
	// Rxd5 wins a pawn but the rook on d8 takes back and nothing
	// recaptures, so White trades the rook for a pawn.
	pos := mustPosition(t, "3rk3/8/8/3p4/8/8/8/3R1K2 w - - 0 1")
	move := findMove(t, pos, "d1d5")

	want := seePieceValue[board.Pawn] - seePieceValue[board.Rook]
	if score := see(pos, move); score != want {
		t.Errorf("see = %d, want %d", score, want)
	}
}

func TestSEEQuietMoveSafety(t *testing.T) {
	pos := mustPosition(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")

	safe := findMove(t, pos, "d1d2")
	if score := see(pos, safe); score != 0 {
		t.Errorf("quiet move to an unattacked square: see = %d, want 0", score)
	}

	hang := mustPosition(t, "3rk3/8/8/8/8/8/8/2Q1K3 w - - 0 1")
	hanging := findMove(t, hang, "c1d2")
	if score := see(hang, hanging); score >= 0 {
		t.Errorf("queen stepping onto a rook's file: see = %d, want < 0", score)
	}
}
