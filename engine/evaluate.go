package engine

import (
	"bitbucket.org/zurichess/board"
)

// Evaluator scores quiescent positions. It owns a private scratchpad that is
// zeroed on every full evaluation; apart from that it is pure with respect
// to the position.
type Evaluator struct {
	phase float32
	data  evalData
}

var evalFigures = [4]board.Figure{board.Knight, board.Bishop, board.Rook, board.Queen}

// Evaluate returns the position's score in centipawns from White's point of
// view; callers negate for Black to move. alpha and beta are the caller's
// side-to-move-relative window: when the blended material score already
// falls far outside it, the value is returned without the feature pass.
func (e *Evaluator) Evaluate(pos *board.Position, alpha, beta int32) int32 {
	material := materialScore(pos)
	e.phase = gamePhase(pos)
	phase := e.phase

	res := int32(float32(material.Mg())*(1-phase)) + int32(float32(material.Eg())*phase)

	lazyScore := res * pos.Us().Multiplier()
	if lazyScore < alpha-lazyEvalAlphaBound {
		return res
	}
	if lazyScore > beta+lazyEvalBetaBound {
		return res
	}

	e.data = evalData{}
	whiteKing := pos.ByPiece(board.White, board.King).AsSquare()
	blackKing := pos.ByPiece(board.Black, board.King).AsSquare()
	e.data.kingSquare[board.White] = whiteKing
	e.data.kingSquare[board.Black] = blackKing
	e.data.kingZone[board.White] = board.KingMobility(whiteKing)
	e.data.kingZone[board.Black] = board.KingMobility(blackKing)

	featureScore := e.computePawns(pos)
	for _, fig := range evalFigures {
		featureScore += e.computePieces(pos, board.White, fig) - e.computePieces(pos, board.Black, fig)
	}
	featureScore += e.computeKings(pos, board.White) - e.computeKings(pos, board.Black)

	castle := pos.CastlingAbility()
	featureScore += CastlingRights * EvalScore(
		b2i(castle&board.WhiteOO != 0)+b2i(castle&board.WhiteOOO != 0)-
			b2i(castle&board.BlackOO != 0)-b2i(castle&board.BlackOOO != 0))
	featureScore += SideToMove * EvalScore(pos.Us().Multiplier())

	hangingScore := e.computeHangingPieces(pos)
	pinnedScore := e.computePinnedPieces(pos, board.White) - e.computePinnedPieces(pos, board.Black)
	passedScore := e.computePassedPawns(pos, board.White) - e.computePassedPawns(pos, board.Black)
	threatScore := e.data.threats[board.White] - e.data.threats[board.Black]
	kingSafetyScore := e.computeKingSafety(board.White) - e.computeKingSafety(board.Black)

	totalScore := pinnedScore +
		hangingScore +
		featureScore +
		passedScore +
		threatScore +
		kingSafetyScore +
		material

	// The middlegame half blends linearly; the endgame half shrinks as the
	// stronger side runs out of pawns.
	res = int32(float32(totalScore.Mg()) * (1 - phase))
	eg := int32(totalScore.Eg())
	winner := board.Black
	if eg > 0 {
		winner = board.White
	}
	winnerPawns := pos.ByPiece(winner, board.Pawn).Count()
	eg = eg * (120 - (8-winnerPawns)*(8-winnerPawns)) / 100
	res += int32(float32(eg) * phase)

	side := board.Black
	if res > 0 {
		side = board.White
	}
	if !hasMatingMaterial(pos, side) {
		res /= 10
	}
	return res
}

// hasMatingMaterial reports whether side can still win: a queen, rook or
// pawn, or at least two minors one of which is a bishop.
func hasMatingMaterial(pos *board.Position, side board.Color) bool {
	if pos.ByPiece2(side, board.Queen, board.Rook) != 0 || pos.ByPiece(side, board.Pawn) != 0 {
		return true
	}
	minors := pos.ByPiece2(side, board.Bishop, board.Knight)
	return minors.Count() > 1 && pos.ByPiece(side, board.Bishop) != 0
}
