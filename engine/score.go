package engine

import (
	"math/bits"

	"bitbucket.org/zurichess/board"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxPly = 128

	MaxMateScore int32 = 20000
	MinMateScore int32 = MaxMateScore - MaxPly
	DrawScore    int32 = 0
)

// EvalScore packs a middlegame and an endgame value into a single int32.
// The endgame half lives in the upper 16 bits; a negative middlegame half
// borrows from it, which Eg() undoes by adding 0x8000 before shifting.
// Because of that encoding, plain +, - and scalar * act componentwise.
type EvalScore int32

// M builds a packed score from its middlegame and endgame components.
func M(mg, eg int16) EvalScore {
	return EvalScore(int32(eg)<<16 + int32(mg))
}

// Mg extracts the middlegame component.
func (s EvalScore) Mg() int16 {
	return int16(uint16(uint32(s)))
}

// Eg extracts the endgame component.
func (s EvalScore) Eg() int16 {
	return int16(uint32(int32(s)+0x8000) >> 16)
}

// Blend interpolates the packed score against a game phase in [0, 1],
// truncating each component toward zero the way the evaluator sums them.
// Phase 0 is the opening, phase 1 a pawn endgame.
func (s EvalScore) Blend(phase float32) int32 {
	if phase < 0 {
		phase = 0
	}
	if phase > 1 {
		phase = 1
	}
	return int32(float32(s.Mg())*(1-phase)) + int32(float32(s.Eg())*phase)
}

// Game phase weights. Each non-pawn piece on the board subtracts its weight
// from 24, so full material gives 0 and the count rises towards 24 as
// non-pawn material leaves the board.
var phaseValues = [board.FigureArraySize]int{
	board.Knight: 1,
	board.Bishop: 1,
	board.Rook:   2,
	board.Queen:  4,
}

const totalPhase = 24

// gamePhase returns the phase scalar in [0, 1] for the position.
func gamePhase(pos *board.Position) float32 {
	p := totalPhase
	p -= bits.OnesCount64(uint64(pos.ByFigure[board.Knight])) * phaseValues[board.Knight]
	p -= bits.OnesCount64(uint64(pos.ByFigure[board.Bishop])) * phaseValues[board.Bishop]
	p -= bits.OnesCount64(uint64(pos.ByFigure[board.Rook])) * phaseValues[board.Rook]
	p -= bits.OnesCount64(uint64(pos.ByFigure[board.Queen])) * phaseValues[board.Queen]

	phase := float32(p) / totalPhase
	if phase > 1 {
		phase = 1
	}
	if phase < 0 {
		phase = 0
	}
	return phase
}

// materialScore sums the packed piece values, white minus black.
func materialScore(pos *board.Position) EvalScore {
	var s EvalScore
	for fig := board.Pawn; fig <= board.Queen; fig++ {
		diff := pos.ByPiece(board.White, fig).Count() - pos.ByPiece(board.Black, fig).Count()
		s += pieceValue[fig] * EvalScore(diff)
	}
	return s
}
