package engine

import (
	"bitbucket.org/zurichess/board"
)

// computeKings adds the king's own attack set to the scratchpad and scores
// the pawn shield and the proximity of enemy pieces.
func (e *Evaluator) computeKings(pos *board.Position, us board.Color) EvalScore {
	var res EvalScore

	them := us.Opposite()
	kingAttacks := board.KingMobility(e.data.kingSquare[us])

	e.data.attacks[us][board.King] = kingAttacks
	e.data.allAttacks[us] |= kingAttacks

	res += KingPawnShield * EvalScore((kingAttacks & pos.ByPiece(us, board.Pawn)).Count())
	res += KingCloseOpponent * EvalScore((kingAttacks & pos.ByColor[them]).Count())

	return res
}

// computeKingSafety converts the attack tally accumulated by the piece
// evaluators into a danger score from the defender's perspective.
func (e *Evaluator) computeKingSafety(us board.Color) EvalScore {
	count := min(e.data.ksAttackCount[us], len(kingSafetyAttackScale)-1)
	danger := e.data.ksAttackValue[us] * kingSafetyAttackScale[count] / 100
	return M(int16(-danger), 0)
}

// computeHangingPieces penalizes pieces not covered by any own attack,
// white minus black.
func (e *Evaluator) computeHangingPieces(pos *board.Position) EvalScore {
	whiteNotAttacked := ^e.data.allAttacks[board.White]
	blackNotAttacked := ^e.data.allAttacks[board.Black]

	var res EvalScore
	for fig := board.Pawn; fig <= board.Queen; fig++ {
		res += hangingEval[fig-board.Pawn] * EvalScore(
			(pos.ByPiece(board.White, fig)&whiteNotAttacked).Count()-
				(pos.ByPiece(board.Black, fig)&blackNotAttacked).Count())
	}
	return res
}

// computePinnedPieces probes the rook and bishop rays from our king over the
// opponent's occupancy. Any ray hitting an enemy slider of matching kind with
// exactly one own piece in between marks that piece as pinned.
func (e *Evaluator) computePinnedPieces(pos *board.Position, us board.Color) EvalScore {
	var result EvalScore

	them := us.Opposite()
	opponentOcc := pos.ByColor[them]
	ourOcc := pos.ByColor[us]
	kingSq := e.data.kingSquare[us]

	rookAttacks := board.RookMobility(kingSq, opponentOcc) & pos.ByPiece2(them, board.Rook, board.Queen)
	bishopAttacks := board.BishopMobility(kingSq, opponentOcc) & pos.ByPiece2(them, board.Bishop, board.Queen)

	for potentialPinners := rookAttacks | bishopAttacks; potentialPinners != 0; {
		pinnerSq := potentialPinners.Pop()

		blockers := inBetween[kingSq][pinnerSq] & ourOcc
		if blockers == 0 || blockers&(blockers-1) != 0 {
			continue
		}

		pinnedFig := pos.Get(blockers.AsSquare()).Figure()
		pinnerFig := pos.Get(pinnerSq).Figure()

		result += pinnedEval[int(pinnedFig-board.Pawn)*3+int(pinnerFig-board.Bishop)]
	}

	return result
}
