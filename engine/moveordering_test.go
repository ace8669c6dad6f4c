package engine

import (
	"testing"

	"bitbucket.org/zurichess/board"
)

func findMove(t *testing.T, pos *board.Position, uci string) board.Move {
	t.Helper()
	m, err := pos.UCIToMove(uci)
	if err != nil {
		t.Fatalf("move %q: %v", uci, err)
	}
	return m
}

func drainOrderer(mo *moveOrderer) []board.Move {
	var out []board.Move
	for mo.hasNext() {
		out = append(out, mo.next())
	}
	return out
}

func TestOrderingHashMoveFirst(t *testing.T) {
	pos := mustPosition(t, "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1")
	hashMove := findMove(t, pos, "a2a3")

	var moves []board.Move
	pos.GenerateMoves(board.Violent|board.Quiet, &moves)

	var sd SearchData
	var mo moveOrderer
	mo.setMovesPVSearch(pos, moves, nil, hashMove, &sd)

	ordered := drainOrderer(&mo)
	if len(ordered) == 0 || ordered[0] != hashMove {
		t.Fatalf("hash move not first, got %v", ordered[0])
	}

	// Captures must come before every quiet move.
	seenQuiet := false
	for _, m := range ordered[1:] {
		if m.Capture() != board.NoPiece {
			if seenQuiet {
				t.Fatalf("capture %v ordered after a quiet move", m)
			}
		} else {
			seenQuiet = true
		}
	}
}

func TestOrderingMVVLVA(t *testing.T) {
	// Both the c4 pawn and the d1 queen can take the queen on d5; the pawn
	// is the less valuable attacker and must go first.
	pos := mustPosition(t, "4k3/8/8/3q4/2P5/8/8/3QK3 w - - 0 1")

	var moves []board.Move
	pos.GenerateMoves(board.Violent, &moves)

	var mo moveOrderer
	mo.setMovesQSearch(moves, nil)
	ordered := drainOrderer(&mo)

	if len(ordered) < 2 {
		t.Fatalf("expected at least two captures, got %d", len(ordered))
	}
	if ordered[0] != findMove(t, pos, "c4d5") {
		t.Errorf("pawn takes queen must be first, got %v", ordered[0])
	}
}

func TestOrderingHistoryRanksQuiets(t *testing.T) {
	pos := mustPosition(t, board.FENStartPos)
	goodQuiet := findMove(t, pos, "g1f3")

	var sd SearchData
	sd.addHistoryScore(pos.Us(), goodQuiet, 8)

	var moves []board.Move
	pos.GenerateMoves(board.Violent|board.Quiet, &moves)

	var mo moveOrderer
	mo.setMovesPVSearch(pos, moves, nil, board.NullMove, &sd)
	ordered := drainOrderer(&mo)

	if ordered[0] != goodQuiet {
		t.Errorf("quiet move with best history should lead, got %v", ordered[0])
	}
}

func TestOrderingDeterministicTies(t *testing.T) {
	pos := mustPosition(t, board.FENStartPos)

	run := func() []board.Move {
		var moves []board.Move
		pos.GenerateMoves(board.Violent|board.Quiet, &moves)
		var sd SearchData
		var mo moveOrderer
		mo.setMovesPVSearch(pos, moves, nil, board.NullMove, &sd)
		return drainOrderer(&mo)
	}

	first := run()
	second := run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ordering is not deterministic at index %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestHistoryStaysBounded(t *testing.T) {
	var sd SearchData
	m := board.MakeMove(board.Normal, board.SquareE2, board.SquareE4, board.NoPiece, board.WhitePawn)

	for i := 0; i < 10000; i++ {
		sd.addHistoryScore(board.White, m, 12)
	}
	if v := sd.historyScore(board.White, m); v < -historyMax || v > historyMax {
		t.Errorf("history score %d escaped bounds after repeated bonuses", v)
	}

	for i := 0; i < 10000; i++ {
		sd.subtractHistoryScore(board.White, m, 12)
	}
	if v := sd.historyScore(board.White, m); v < -historyMax || v > historyMax {
		t.Errorf("history score %d escaped bounds after repeated penalties", v)
	}

	sd.clear()
	if v := sd.historyScore(board.White, m); v != 0 {
		t.Errorf("history score %d after clear", v)
	}
}
