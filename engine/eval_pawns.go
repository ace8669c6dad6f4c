package engine

import (
	"bitbucket.org/zurichess/board"
)

// computePawns scores the pawn structure, white minus black, and fills the
// pawn-related scratchpad fields every later evaluator depends on: pawn
// attack maps, mobility squares, semi-open and open files and pawn threats.
func (e *Evaluator) computePawns(pos *board.Position) EvalScore {
	var res EvalScore

	whiteTeam := pos.ByColor[board.White]
	blackTeam := pos.ByColor[board.Black]

	whitePawns := pos.ByPiece(board.White, board.Pawn)
	blackPawns := pos.ByPiece(board.Black, board.Pawn)

	// Doubled pawns, first without the rearmost pawn of each file, then
	// widened to cover the whole file group.
	whiteDoubledFront := board.NorthSpan(whitePawns) & whitePawns
	blackDoubledFront := board.SouthSpan(blackPawns) & blackPawns

	whiteDoubledPawns := whiteDoubledFront | (board.SouthSpan(whiteDoubledFront) & whitePawns)
	blackDoubledPawns := blackDoubledFront | (board.NorthSpan(blackDoubledFront) & blackPawns)

	whiteIsolatedPawns := whitePawns &^ board.Fill(board.West(whitePawns)|board.East(whitePawns))
	blackIsolatedPawns := blackPawns &^ board.Fill(board.West(blackPawns)|board.East(blackPawns))

	whiteBlockedPawns := board.North(whitePawns) & (whiteTeam | blackTeam)
	blackBlockedPawns := board.South(blackPawns) & (whiteTeam | blackTeam)

	whiteConnectedPawns := whitePawns & (board.East(whitePawns) | board.West(whitePawns)) &
		(board.BbRank4 | board.BbRank5 | board.BbRank6 | board.BbRank7)
	blackConnectedPawns := blackPawns & (board.East(blackPawns) | board.West(blackPawns)) &
		(board.BbRank5 | board.BbRank4 | board.BbRank3 | board.BbRank2)

	e.data.semiOpen[board.White] = ^board.Fill(blackPawns)
	e.data.semiOpen[board.Black] = ^board.Fill(whitePawns)
	e.data.openFiles = e.data.semiOpen[board.White] & e.data.semiOpen[board.Black]

	whitePawnEastCover := pawnEast(board.White, whitePawns) & whitePawns
	whitePawnWestCover := pawnWest(board.White, whitePawns) & whitePawns
	blackPawnEastCover := pawnEast(board.Black, blackPawns) & blackPawns
	blackPawnWestCover := pawnWest(board.Black, blackPawns) & blackPawns

	e.data.pawnEastAttacks[board.White] = pawnEast(board.White, whitePawns)
	e.data.pawnEastAttacks[board.Black] = pawnEast(board.Black, blackPawns)
	e.data.pawnWestAttacks[board.White] = pawnWest(board.White, whitePawns)
	e.data.pawnWestAttacks[board.Black] = pawnWest(board.Black, blackPawns)

	e.data.attacks[board.White][board.Pawn] = e.data.pawnEastAttacks[board.White] | e.data.pawnWestAttacks[board.White]
	e.data.attacks[board.Black][board.Pawn] = e.data.pawnEastAttacks[board.Black] | e.data.pawnWestAttacks[board.Black]
	e.data.allAttacks[board.White] |= e.data.attacks[board.White][board.Pawn]
	e.data.allAttacks[board.Black] |= e.data.attacks[board.Black][board.Pawn]

	e.data.mobilitySquares[board.White] = ^whiteTeam &^ e.data.attacks[board.Black][board.Pawn]
	e.data.mobilitySquares[board.Black] = ^blackTeam &^ e.data.attacks[board.White][board.Pawn]

	whiteMinors := pos.ByPiece2(board.White, board.Knight, board.Bishop)
	blackMinors := pos.ByPiece2(board.Black, board.Knight, board.Bishop)
	e.data.threats[board.White] = PawnAttackMinor * EvalScore((e.data.attacks[board.White][board.Pawn] & blackMinors).Count())
	e.data.threats[board.Black] = PawnAttackMinor * EvalScore((e.data.attacks[board.Black][board.Pawn] & whiteMinors).Count())

	e.data.threats[board.White] += PawnAttackRook * EvalScore((e.data.attacks[board.White][board.Pawn] & pos.ByPiece(board.Black, board.Rook)).Count())
	e.data.threats[board.Black] += PawnAttackRook * EvalScore((e.data.attacks[board.Black][board.Pawn] & pos.ByPiece(board.White, board.Rook)).Count())

	e.data.threats[board.White] += PawnAttackQueen * EvalScore((e.data.attacks[board.White][board.Pawn] & pos.ByPiece(board.Black, board.Queen)).Count())
	e.data.threats[board.Black] += PawnAttackQueen * EvalScore((e.data.attacks[board.Black][board.Pawn] & pos.ByPiece(board.White, board.Queen)).Count())

	res += PawnDoubledAndIsolated * EvalScore(
		(whiteIsolatedPawns&whiteDoubledPawns).Count()-
			(blackIsolatedPawns&blackDoubledPawns).Count())
	res += PawnDoubled * EvalScore(
		(whiteDoubledPawns&^whiteIsolatedPawns).Count()-
			(blackDoubledPawns&^blackIsolatedPawns).Count())
	res += PawnIsolated * EvalScore(
		(whiteIsolatedPawns&^whiteDoubledPawns).Count()-
			(blackIsolatedPawns&^blackDoubledPawns).Count())
	res += PawnStructure * EvalScore(
		whitePawnEastCover.Count()+whitePawnWestCover.Count()-
			blackPawnEastCover.Count()-blackPawnWestCover.Count())
	res += PawnOpen * EvalScore(
		(whitePawns&^e.data.attacks[board.White][board.Pawn]&^board.SouthFill(blackPawns)).Count()-
			(blackPawns&^e.data.attacks[board.Black][board.Pawn]&^board.NorthFill(whitePawns)).Count())
	res += PawnBackward * EvalScore(
		(board.SouthFill(^attackFrontSpans(board.White, whitePawns)&e.data.attacks[board.Black][board.Pawn])&whitePawns).Count()-
			(board.NorthFill(^attackFrontSpans(board.Black, blackPawns)&e.data.attacks[board.White][board.Pawn])&blackPawns).Count())
	res += PawnBlocked * EvalScore(
		whiteBlockedPawns.Count()-blackBlockedPawns.Count())
	res += PawnConnected * EvalScore(
		whiteConnectedPawns.Count()-blackConnectedPawns.Count())
	res += MinorBehindPawn * EvalScore(
		(board.North(pos.ByPiece2(board.White, board.Knight, board.Bishop))&pos.ByFigure[board.Pawn]).Count()-
			(board.South(pos.ByPiece2(board.Black, board.Knight, board.Bishop))&pos.ByFigure[board.Pawn]).Count())

	return res
}

// computePassedPawns scores passed and candidate passed pawns for one color.
// The pawn scratchpad must already be filled.
func (e *Evaluator) computePassedPawns(pos *board.Position, us board.Color) EvalScore {
	var h EvalScore

	them := us.Opposite()
	pawns := pos.ByPiece(us, board.Pawn)
	oppPawns := pos.ByPiece(them, board.Pawn)
	kingSq := e.data.kingSquare[us]
	oppKingSq := e.data.kingSquare[them]

	for bb := pawns; bb != 0; {
		sq := bb.Pop()
		r := relativeRank(us, sq)
		f := sq.File()
		sqBB := sq.Bitboard()
		advBB := board.Forward(us, sqBB)
		adv := advBB.AsSquare()

		passerMask := passedPawnMask[us][sq]
		passed := passerMask&oppPawns == 0

		if passed {
			promBB := board.FileBb(f) & board.RankBb(board.HomeRank(them))
			promColor := board.BbBlackSquares
			if promBB&board.BbWhiteSquares != 0 {
				promColor = board.BbWhiteSquares
			}

			h += passerRank[r] + PawnPassedEdgeDistance*EvalScore(min(f, 7-f))

			// doubled passer
			h += PawnPassedAndDoubled * EvalScore((advBB & pawns).Count())

			// piece in front of the pawn
			h += PawnPassedAndBlocked * EvalScore((advBB & pos.ByColor[them]).Count())

			// can the promotion square be covered
			h += PawnPassedCoveredPromo * EvalScore(
				(pos.ByPiece(us, board.Bishop)&promColor).Count()+
					pos.ByPiece(us, board.Queen).Count()-
					(pos.ByPiece(them, board.Bishop)&promColor).Count()-
					pos.ByPiece(them, board.Queen).Count())

			// friendly pawn on the attack-rear span of the chain
			h += PawnPassedHelper * EvalScore((pawns & attackRearSpans(us, pawns)).Count())

			// defended by an own pawn
			h += PawnPassedAndDefended * EvalScore(
				(sqBB&e.data.pawnWestAttacks[us]).Count()+
					(sqBB&e.data.pawnEastAttacks[us]).Count())

			// square rule: the enemy king cannot catch the pawn
			tempo := 0
			if pos.Us() != us {
				tempo = 1
			}
			if 7-r+tempo < manhattanDistance(promBB.AsSquare(), oppKingSq) {
				h += PawnPassedSquareRule
			}

			// https://www.chessprogramming.org/King_Pawn_Tropism
			// the advance square matters more than the pawn itself
			h += PawnPassedKingTropism * EvalScore(clamp(
				chebyshevDistance(oppKingSq, adv)-chebyshevDistance(kingSq, adv), -4, 4))
		}

		if !passed && sqBB&e.data.semiOpen[us] != 0 {
			antiPassers := passerMask & oppPawns
			// levers are enemy pawns in active tension with this pawn
			// https://www.chessprogramming.org/Pawn_Levers_(Bitboards)
			levers := oppPawns & (pawnEast(us, sqBB) | pawnWest(us, sqBB))
			// levers that would apply once the pawn advances
			forwardLevers := oppPawns & (pawnEast(us, advBB) | pawnWest(us, advBB))
			helpers := (board.East(sqBB) | board.West(sqBB)) & pawns

			// all blockers are current levers, pushing resolves them
			push := antiPassers^levers == 0
			// all blockers are forward levers and we have enough support
			helped := antiPassers^forwardLevers == 0 &&
				helpers.Count() >= forwardLevers.Count()

			if push || helped {
				h += candidatePasser[r]
			}
		}
	}
	return h
}
