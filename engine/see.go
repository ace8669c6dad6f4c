package engine

import (
	"bitbucket.org/zurichess/board"
)

var seePieceValue = [board.FigureArraySize]int32{
	board.Pawn:   100,
	board.Knight: 300,
	board.Bishop: 300,
	board.Rook:   500,
	board.Queen:  900,
	board.King:   5000,
}

// attackersTo returns every piece of side that attacks sq given the
// occupancy occ. Sliders are probed against occ so that captures removed
// from occ reveal the x-ray attackers behind them.
func attackersTo(pos *board.Position, sq board.Square, side board.Color, occ board.Bitboard) board.Bitboard {
	sqBB := sq.Bitboard()

	var attackers board.Bitboard
	attackers |= (pawnEast(side.Opposite(), sqBB) | pawnWest(side.Opposite(), sqBB)) &
		pos.ByPiece(side, board.Pawn)
	attackers |= board.KnightMobility(sq) & pos.ByPiece(side, board.Knight)
	attackers |= board.KingMobility(sq) & pos.ByPiece(side, board.King)
	attackers |= board.BishopMobility(sq, occ) & pos.ByPiece2(side, board.Bishop, board.Queen)
	attackers |= board.RookMobility(sq, occ) & pos.ByPiece2(side, board.Rook, board.Queen)
	return attackers & occ
}

// leastAttacker picks side's least valuable attacker of sq under occ.
func leastAttacker(pos *board.Position, sq board.Square, side board.Color, occ board.Bitboard) (board.Bitboard, board.Figure) {
	attackers := attackersTo(pos, sq, side, occ)
	if attackers == 0 {
		return 0, board.NoFigure
	}
	for fig := board.Pawn; fig <= board.King; fig++ {
		if subset := attackers & pos.ByPiece(side, fig); subset != 0 {
			return subset.LSB(), fig
		}
	}
	return 0, board.NoFigure
}

// see runs the static exchange evaluation for a move: the material balance
// on the target square assuming both sides keep recapturing with their least
// valuable attacker, ignoring pins and threats elsewhere. Quiet moves start
// from a zero gain, so see >= 0 means the move does not simply hang the
// piece.
func see(pos *board.Position, m board.Move) int32 {
	var gain [32]int32
	depth := 0

	to := m.To()
	occ := occupied(pos)
	fromBB := m.From().Bitboard()
	attacker := m.Piece().Figure()
	side := pos.Them()

	gain[0] = seePieceValue[m.Capture().Figure()]

	for fromBB != 0 {
		depth++
		gain[depth] = seePieceValue[attacker] - gain[depth-1]

		// Both follow-ups lose material, no need to look further.
		if max(-gain[depth-1], gain[depth]) < 0 {
			break
		}

		occ &^= fromBB
		fromBB, attacker = leastAttacker(pos, to, side, occ)
		side = side.Opposite()
	}

	for depth--; depth > 0; depth-- {
		gain[depth-1] = -max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}
