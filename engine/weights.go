package engine

import (
	"encoding/json"
	"os"

	"bitbucket.org/zurichess/board"
)

// All tuned evaluation parameters live here as declarative data so a full
// set can be swapped in from a JSON blob without touching the evaluators.

// =============================================================================
// FEATURE WEIGHTS
// =============================================================================
var (
	SideToMove              = M(14, 14)
	PawnStructure           = M(8, 2)
	PawnPassedAndDoubled    = M(-12, -36)
	PawnPassedAndBlocked    = M(1, -36)
	PawnPassedCoveredPromo  = M(-1, 8)
	PawnPassedHelper        = M(2, 4)
	PawnPassedAndDefended   = M(11, 0)
	PawnPassedSquareRule    = M(4, 15)
	PawnPassedEdgeDistance  = M(-4, -4)
	PawnPassedKingTropism   = M(-2, 13)
	PawnIsolated            = M(0, -7)
	PawnDoubled             = M(-6, -7)
	PawnDoubledAndIsolated  = M(-5, -21)
	PawnBackward            = M(-9, -2)
	PawnOpen                = M(-9, -10)
	PawnBlocked             = M(-4, -9)
	PawnConnected           = M(8, 8)
	KnightOutpost           = M(22, 19)
	KnightDistanceEnemyKing = M(-4, -1)
	RookOpenFile            = M(23, -1)
	RookHalfOpenFile        = M(1, -9)
	RookKingLine            = M(8, 6)
	BishopDoubled           = M(13, 74)
	BishopFianchetto        = M(23, 29)
	BishopStunted           = M(-6, -10)
	BishopPieceSameSquareE  = M(3, 3)
	QueenDistanceEnemyKing  = M(-20, -12)
	KingCloseOpponent       = M(-13, 14)
	KingPawnShield          = M(26, 8)
	CastlingRights          = M(16, 1)
	MinorBehindPawn         = M(5, 19)
	SafeQueenCheck          = M(5, 27)
	SafeRookCheck           = M(11, 4)
	SafeBishopCheck         = M(5, 4)
	SafeKnightCheck         = M(11, 4)
	PawnAttackMinor         = M(38, 65)
	PawnAttackRook          = M(39, 26)
	PawnAttackQueen         = M(30, 28)
	MinorAttackRook         = M(33, 25)
	MinorAttackQueen        = M(24, 37)
	RookAttackQueen         = M(31, 16)
)

// evalFeatures names every scalar feature weight for blob (de)serialization.
var evalFeatures = map[string]*EvalScore{
	"side_to_move":               &SideToMove,
	"pawn_structure":             &PawnStructure,
	"pawn_passed_and_doubled":    &PawnPassedAndDoubled,
	"pawn_passed_and_blocked":    &PawnPassedAndBlocked,
	"pawn_passed_covered_promo":  &PawnPassedCoveredPromo,
	"pawn_passed_helper":         &PawnPassedHelper,
	"pawn_passed_and_defended":   &PawnPassedAndDefended,
	"pawn_passed_square_rule":    &PawnPassedSquareRule,
	"pawn_passed_edge_distance":  &PawnPassedEdgeDistance,
	"pawn_passed_king_tropism":   &PawnPassedKingTropism,
	"pawn_isolated":              &PawnIsolated,
	"pawn_doubled":               &PawnDoubled,
	"pawn_doubled_and_isolated":  &PawnDoubledAndIsolated,
	"pawn_backward":              &PawnBackward,
	"pawn_open":                  &PawnOpen,
	"pawn_blocked":               &PawnBlocked,
	"pawn_connected":             &PawnConnected,
	"knight_outpost":             &KnightOutpost,
	"knight_distance_enemy_king": &KnightDistanceEnemyKing,
	"rook_open_file":             &RookOpenFile,
	"rook_half_open_file":        &RookHalfOpenFile,
	"rook_king_line":             &RookKingLine,
	"bishop_doubled":             &BishopDoubled,
	"bishop_fianchetto":          &BishopFianchetto,
	"bishop_stunted":             &BishopStunted,
	"bishop_piece_same_square_e": &BishopPieceSameSquareE,
	"queen_distance_enemy_king":  &QueenDistanceEnemyKing,
	"king_close_opponent":        &KingCloseOpponent,
	"king_pawn_shield":           &KingPawnShield,
	"castling_rights":            &CastlingRights,
	"minor_behind_pawn":          &MinorBehindPawn,
	"safe_queen_check":           &SafeQueenCheck,
	"safe_rook_check":            &SafeRookCheck,
	"safe_bishop_check":          &SafeBishopCheck,
	"safe_knight_check":          &SafeKnightCheck,
	"pawn_attack_minor":          &PawnAttackMinor,
	"pawn_attack_rook":           &PawnAttackRook,
	"pawn_attack_queen":          &PawnAttackQueen,
	"minor_attack_rook":          &MinorAttackRook,
	"minor_attack_queen":         &MinorAttackQueen,
	"rook_attack_queen":          &RookAttackQueen,
}

// =============================================================================
// TABLES
// =============================================================================

var mobilityKnight = [9]EvalScore{
	M(-76, 12), M(-66, 57), M(-61, 83), M(-57, 97), M(-53, 107),
	M(-49, 116), M(-43, 117), M(-34, 112), M(-21, 96),
}

var mobilityBishop = [14]EvalScore{
	M(-21, -10), M(-12, 46), M(-5, 73), M(-1, 89), M(3, 102),
	M(6, 112), M(7, 119), M(6, 123), M(7, 126), M(10, 124),
	M(16, 119), M(31, 111), M(40, 120), M(63, 91),
}

var mobilityRook = [15]EvalScore{
	M(-76, 79), M(-70, 116), M(-67, 148), M(-66, 172), M(-65, 186),
	M(-60, 193), M(-54, 199), M(-47, 202), M(-43, 207), M(-38, 213),
	M(-34, 217), M(-30, 220), M(-20, 218), M(9, 200), M(63, 169),
}

var mobilityQueen = [28]EvalScore{
	M(-195, 141), M(-179, 143), M(-167, 243), M(-164, 309), M(-162, 344),
	M(-161, 368), M(-160, 389), M(-158, 402), M(-157, 413), M(-154, 419),
	M(-152, 424), M(-150, 427), M(-149, 429), M(-148, 432), M(-148, 434),
	M(-149, 434), M(-149, 433), M(-149, 431), M(-147, 427), M(-139, 417),
	M(-131, 404), M(-128, 395), M(-131, 387), M(-114, 371), M(-174, 396),
	M(-57, 310), M(-89, 355), M(-197, 446),
}

// mobilities maps a figure to its mobility table.
var mobilities = [board.FigureArraySize][]EvalScore{
	board.Knight: mobilityKnight[:],
	board.Bishop: mobilityBishop[:],
	board.Rook:   mobilityRook[:],
	board.Queen:  mobilityQueen[:],
}

// hangingEval is indexed by figure-1 for pawn..queen.
var hangingEval = [5]EvalScore{
	M(-3, -1), M(-3, -1), M(-5, -6), M(-4, -4), M(-3, -6),
}

// pinnedEval is indexed by pinned*3 + pinner where pinned is the color
// agnostic figure-1 (pawn..queen) and pinner is figure-bishop (bishop..queen).
var pinnedEval = [15]EvalScore{
	M(3, -3), M(-6, 8), M(-6, 51), M(-18, -54), M(-14, -15),
	M(-17, 47), M(-2, -9), M(-20, -14), M(-13, 35), M(-10, -10),
	M(8, -10), M(-13, 39), M(12, -19), M(-4, -31), M(-16, 53),
}

// passerRank is indexed by the pawn's rank from its own side's view.
var passerRank = [8]EvalScore{
	M(0, 0), M(-13, 5), M(-22, 19), M(-15, 55),
	M(11, 92), M(31, 152), M(10, 61), M(0, 0),
}

var candidatePasser = [8]EvalScore{
	M(0, 0), M(-21, 6), M(-6, 13), M(-3, 23),
	M(3, 71), M(4, 65), M(0, 0), M(0, 0),
}

// Bishop bonus keyed by the number of own (resp. enemy) pawns sitting on
// the bishop's square color.
var bishopPawnSameColorOwn = [9]EvalScore{
	M(-49, 39), M(-55, 41), M(-54, 28),
	M(-56, 19), M(-58, 10), M(-62, -1),
	M(-64, -17), M(-63, -31), M(-70, -69),
}

var bishopPawnSameColorEnemy = [9]EvalScore{
	M(-38, 30), M(-55, 42), M(-59, 35),
	M(-63, 30), M(-66, 22), M(-69, 11),
	M(-70, -3), M(-68, -13), M(-76, -21),
}

var kingSafetyAttackWeights = [board.FigureArraySize]int{
	board.Knight: 22, board.Bishop: 12, board.Rook: 46, board.Queen: 58,
}

var kingSafetyAttackScale = [8]int{0, 0, 36, 66, 91, 105, 1453, 99}

// Lazy evaluation margins. When the blended material score already sits far
// outside the search window the deep feature pass is skipped.
var (
	lazyEvalAlphaBound int32 = 803
	lazyEvalBetaBound  int32 = 392
)

// Piece base values.
var pieceValue = [board.FigureArraySize]EvalScore{
	board.Pawn:   M(88, 111),
	board.Knight: M(316, 305),
	board.Bishop: M(331, 333),
	board.Rook:   M(494, 535),
	board.Queen:  M(993, 963),
}

// =============================================================================
// WEIGHT BLOB
// =============================================================================

type weightPair [2]int16

func (p weightPair) score() EvalScore { return M(p[0], p[1]) }

func pair(s EvalScore) weightPair { return weightPair{s.Mg(), s.Eg()} }

// WeightBlob is the serialized form of the full parameter set.
type WeightBlob struct {
	Features              map[string]weightPair `json:"features"`
	PieceValue            [7]weightPair         `json:"piece_value"`
	MobilityKnight        [9]weightPair         `json:"mobility_knight"`
	MobilityBishop        [14]weightPair        `json:"mobility_bishop"`
	MobilityRook          [15]weightPair        `json:"mobility_rook"`
	MobilityQueen         [28]weightPair        `json:"mobility_queen"`
	HangingPiece          [5]weightPair         `json:"hanging_piece"`
	PinnedPiece           [15]weightPair        `json:"pinned_piece"`
	PasserRank            [8]weightPair         `json:"passer_rank"`
	CandidatePasser       [8]weightPair         `json:"candidate_passer"`
	BishopPawnColorOwn    [9]weightPair         `json:"bishop_pawn_color_own"`
	BishopPawnColorEnemy  [9]weightPair         `json:"bishop_pawn_color_enemy"`
	KingSafetyWeights     [7]int                `json:"king_safety_weights"`
	KingSafetyScale       [8]int                `json:"king_safety_scale"`
	LazyAlphaBound        int32                 `json:"lazy_alpha_bound"`
	LazyBetaBound         int32                 `json:"lazy_beta_bound"`
}

func currentWeights() WeightBlob {
	blob := WeightBlob{
		Features:        make(map[string]weightPair, len(evalFeatures)),
		KingSafetyScale: kingSafetyAttackScale,
		LazyAlphaBound:  lazyEvalAlphaBound,
		LazyBetaBound:   lazyEvalBetaBound,
	}
	for name, w := range evalFeatures {
		blob.Features[name] = pair(*w)
	}
	for fig := 0; fig < 7; fig++ {
		blob.PieceValue[fig] = pair(pieceValue[fig])
		blob.KingSafetyWeights[fig] = kingSafetyAttackWeights[fig]
	}
	fill := func(dst []weightPair, src []EvalScore) {
		for i, s := range src {
			dst[i] = pair(s)
		}
	}
	fill(blob.MobilityKnight[:], mobilityKnight[:])
	fill(blob.MobilityBishop[:], mobilityBishop[:])
	fill(blob.MobilityRook[:], mobilityRook[:])
	fill(blob.MobilityQueen[:], mobilityQueen[:])
	fill(blob.HangingPiece[:], hangingEval[:])
	fill(blob.PinnedPiece[:], pinnedEval[:])
	fill(blob.PasserRank[:], passerRank[:])
	fill(blob.CandidatePasser[:], candidatePasser[:])
	fill(blob.BishopPawnColorOwn[:], bishopPawnSameColorOwn[:])
	fill(blob.BishopPawnColorEnemy[:], bishopPawnSameColorEnemy[:])
	return blob
}

func applyWeights(blob WeightBlob) {
	for name, p := range blob.Features {
		if w, ok := evalFeatures[name]; ok {
			*w = p.score()
		}
	}
	for fig := 0; fig < 7; fig++ {
		pieceValue[fig] = blob.PieceValue[fig].score()
		kingSafetyAttackWeights[fig] = blob.KingSafetyWeights[fig]
	}
	fill := func(dst []EvalScore, src []weightPair) {
		for i, p := range src {
			dst[i] = p.score()
		}
	}
	fill(mobilityKnight[:], blob.MobilityKnight[:])
	fill(mobilityBishop[:], blob.MobilityBishop[:])
	fill(mobilityRook[:], blob.MobilityRook[:])
	fill(mobilityQueen[:], blob.MobilityQueen[:])
	fill(hangingEval[:], blob.HangingPiece[:])
	fill(pinnedEval[:], blob.PinnedPiece[:])
	fill(passerRank[:], blob.PasserRank[:])
	fill(candidatePasser[:], blob.CandidatePasser[:])
	fill(bishopPawnSameColorOwn[:], blob.BishopPawnColorOwn[:])
	fill(bishopPawnSameColorEnemy[:], blob.BishopPawnColorEnemy[:])
	kingSafetyAttackScale = blob.KingSafetyScale
	lazyEvalAlphaBound = blob.LazyAlphaBound
	lazyEvalBetaBound = blob.LazyBetaBound
}

// SaveWeights writes the active parameter set to path as JSON.
func SaveWeights(path string) error {
	b, err := json.MarshalIndent(currentWeights(), "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadWeights replaces the active parameter set from a JSON blob.
func LoadWeights(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	blob := currentWeights()
	if err := json.Unmarshal(b, &blob); err != nil {
		return err
	}
	applyWeights(blob)
	return nil
}
