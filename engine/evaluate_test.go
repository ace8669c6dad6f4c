package engine

import (
	"strings"
	"testing"

	"bitbucket.org/zurichess/board"
)

func evaluateFull(t *testing.T, fen string) int32 {
	t.Helper()
	var e Evaluator
	return e.Evaluate(mustPosition(t, fen), -MaxMateScore, MaxMateScore)
}

// mirrorFEN flips the board vertically, swaps the colors of every piece,
// the side to move, the castling rights and the en-passant rank.
func mirrorFEN(t *testing.T, fen string) string {
	t.Helper()
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		t.Fatalf("bad FEN %q", fen)
	}

	ranks := strings.Split(fields[0], "/")
	mirrored := make([]string, 0, len(ranks))
	for i := len(ranks) - 1; i >= 0; i-- {
		mirrored = append(mirrored, swapCase(ranks[i]))
	}

	side := "w"
	if fields[1] == "w" {
		side = "b"
	}

	castle := "-"
	if fields[2] != "-" {
		flipped := swapCase(fields[2])
		var sb strings.Builder
		for _, r := range "KQkq" {
			if strings.ContainsRune(flipped, r) {
				sb.WriteRune(r)
			}
		}
		castle = sb.String()
	}

	ep := fields[3]
	if ep != "-" {
		ep = string([]byte{ep[0], '1' + '8' - ep[1]})
	}

	out := []string{strings.Join(mirrored, "/"), side, castle, ep}
	out = append(out, fields[4:]...)
	return strings.Join(out, " ")
}

func swapCase(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			sb.WriteRune(r - 'a' + 'A')
		case 'A' <= r && r <= 'Z':
			sb.WriteRune(r - 'A' + 'a')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func TestEvaluateBareKingsIsZero(t *testing.T) {
	if v := evaluateFull(t, "8/8/8/8/8/8/8/4K2k w - - 0 1"); v != 0 {
		t.Errorf("bare kings evaluate = %d, want 0", v)
	}
}

func TestEvaluateStartPositionIsTempoOnly(t *testing.T) {
	v := evaluateFull(t, board.FENStartPos)
	limit := 2 * int32(SideToMove.Mg())
	if v <= 0 || v > limit {
		t.Errorf("start position evaluate = %d, want in (0, %d]", v, limit)
	}
}

func TestEvaluateSinglePawnIsPositive(t *testing.T) {
	if v := evaluateFull(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"); v <= 0 {
		t.Errorf("king and pawn vs king evaluate = %d, want > 0", v)
	}
}

func TestEvaluateColorSymmetry(t *testing.T) {
	fens := []string{
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1",
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
		"8/8/8/3k4/3P4/3K4/8/8 w - - 0 1",
		"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		// the bishop pair bonus is applied only during the white pass, which
		// this asymmetric position exercises in both directions
		"4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1",
		"2b1kb2/8/8/8/8/8/8/4K3 w - - 0 1",
		"r3k2r/p4ppp/8/8/3Q4/8/P4PPP/R3K2R w KQkq - 0 1",
	}
	for _, fen := range fens {
		v := evaluateFull(t, fen)
		m := evaluateFull(t, mirrorFEN(t, fen))
		if v != -m {
			t.Errorf("fen %q: evaluate = %d, mirrored = %d, want exact negation", fen, v, m)
		}
	}
}

func TestEvaluateLazyBoundSign(t *testing.T) {
	// White to move but a queen down: the lazy cutoff fires against a
	// zero-width window and must still report the white-relative value.
	pos := mustPosition(t, "3qk3/8/8/8/8/8/8/4K3 w - - 0 1")
	var e Evaluator
	v := e.Evaluate(pos, 0, 0)
	if v >= -700 {
		t.Errorf("lazy evaluation = %d, want strongly negative white-relative score", v)
	}
}

func TestEvaluateInsufficientMaterialScaling(t *testing.T) {
	// A bare extra knight cannot win; the score collapses towards zero.
	v := evaluateFull(t, "4k3/8/8/8/8/8/8/2N1K3 w - - 0 1")
	if v < -60 || v > 60 {
		t.Errorf("king and knight vs king evaluate = %d, want |v| <= 60", v)
	}
}

func TestEvaluateMatchesAfterMakeUnmake(t *testing.T) {
	fens := []string{
		board.FENStartPos,
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1",
		"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		"8/8/8/3k4/3P4/3K4/8/8 w - - 0 1",
	}
	var e Evaluator
	for _, fen := range fens {
		pos := mustPosition(t, fen)
		before := e.Evaluate(pos, -MaxMateScore, MaxMateScore)
		zobrist := pos.Zobrist()

		var moves []board.Move
		pos.GenerateMoves(board.Violent|board.Quiet, &moves)
		for _, m := range moves {
			pos.DoMove(m)
			pos.UndoMove()

			if pos.Zobrist() != zobrist {
				t.Fatalf("fen %q move %v: zobrist changed after make/unmake", fen, m)
			}
			if after := e.Evaluate(pos, -MaxMateScore, MaxMateScore); after != before {
				t.Fatalf("fen %q move %v: evaluate %d != %d after make/unmake", fen, m, after, before)
			}
		}
	}
}

func TestWeightBlobRoundTrip(t *testing.T) {
	path := t.TempDir() + "/weights.json"
	if err := SaveWeights(path); err != nil {
		t.Fatalf("SaveWeights: %v", err)
	}

	orig := SideToMove
	SideToMove = M(99, 99)
	if err := LoadWeights(path); err != nil {
		t.Fatalf("LoadWeights: %v", err)
	}
	if SideToMove != orig {
		t.Errorf("side to move weight = (%d, %d), want restored (%d, %d)",
			SideToMove.Mg(), SideToMove.Eg(), orig.Mg(), orig.Eg())
	}
}
