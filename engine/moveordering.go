package engine

import (
	"bitbucket.org/zurichess/board"
)

// Most Valuable Victim - Least Valuable Aggressor; used to score captures.
var mvvLva = [board.FigureArraySize][board.FigureArraySize]int32{
	board.Pawn:   {0, 14, 13, 12, 11, 10, 9},
	board.Knight: {0, 24, 23, 22, 21, 20, 19},
	board.Bishop: {0, 34, 33, 32, 31, 30, 29},
	board.Rook:   {0, 44, 43, 42, 41, 40, 39},
	board.Queen:  {0, 54, 53, 52, 51, 50, 49},
}

/*
	Move ordering offsets.
	- The hash move goes first: it guided us here last iteration, or it is the
	  refutation the table already knows about.
	- Promotions and captures come next, captures ranked by MVV-LVA.
	- Quiet moves ride on their history score, which stays inside
	  [-historyMax, historyMax] and therefore always below the capture band.
*/
const (
	hashMoveOffset   int32 = 27000
	promotionOffset  int32 = 20000
	captureOffset    int32 = 15000
)

const historyMax int32 = 10000

// SearchData carries the search-wide quiet-move history, indexed by side
// and (from, to) square.
type SearchData struct {
	history [board.ColorArraySize][64][64]int32
}

func (sd *SearchData) historyScore(us board.Color, m board.Move) int32 {
	return sd.history[us][m.From()][m.To()]
}

// addHistoryScore rewards a quiet move that produced a beta cutoff. When a
// counter hits the cap the side's whole table is aged by halving, as often
// as needed, which keeps every value inside the declared bounds.
func (sd *SearchData) addHistoryScore(us board.Color, m board.Move, depth int) {
	sd.history[us][m.From()][m.To()] += int32(depth * depth)
	for sd.history[us][m.From()][m.To()] >= historyMax {
		sd.ageHistory(us)
	}
}

// subtractHistoryScore penalizes a quiet move that failed to improve alpha.
func (sd *SearchData) subtractHistoryScore(us board.Color, m board.Move, depth int) {
	v := sd.history[us][m.From()][m.To()] - int32(depth*depth)
	if v < -historyMax {
		v = -historyMax
	}
	sd.history[us][m.From()][m.To()] = v
}

func (sd *SearchData) ageHistory(us board.Color) {
	for from := 0; from < 64; from++ {
		for to := 0; to < 64; to++ {
			sd.history[us][from][to] /= 2
		}
	}
}

func (sd *SearchData) clear() {
	*sd = SearchData{}
}

// moveOrderer yields the moves of one node in priority order. It works in
// place over the per-ply buffers owned by the search stack.
type moveOrderer struct {
	moves  []board.Move
	scores []int32
	idx    int
}

// setMovesPVSearch scores a pseudo-legal move list for the main search:
// hash move, then promotions and captures, then quiets by history.
func (mo *moveOrderer) setMovesPVSearch(pos *board.Position, moves []board.Move, scores []int32, hashMove board.Move, sd *SearchData) {
	us := pos.Us()
	scores = scores[:0]
	for _, m := range moves {
		var score int32
		switch {
		case m == hashMove && hashMove != board.NullMove:
			score = hashMoveOffset
		case m.MoveType() == board.Promotion:
			score = promotionOffset + int32(pieceValue[m.Promotion().Figure()].Eg())
		case m.Capture() != board.NoPiece:
			score = captureOffset + mvvLva[m.Capture().Figure()][m.Piece().Figure()]
		default:
			score = sd.historyScore(us, m)
		}
		scores = append(scores, score)
	}
	mo.moves = moves
	mo.scores = scores
	mo.idx = 0
}

// setMovesQSearch scores a non-quiet move list: captures by MVV-LVA,
// promotions above them.
func (mo *moveOrderer) setMovesQSearch(moves []board.Move, scores []int32) {
	scores = scores[:0]
	for _, m := range moves {
		var score int32
		if m.MoveType() == board.Promotion {
			score = promotionOffset + int32(pieceValue[m.Promotion().Figure()].Eg())
		} else {
			score = mvvLva[m.Capture().Figure()][m.Piece().Figure()]
		}
		scores = append(scores, score)
	}
	mo.moves = moves
	mo.scores = scores
	mo.idx = 0
}

func (mo *moveOrderer) hasNext() bool {
	return mo.idx < len(mo.moves)
}

// next selection-sorts the best remaining move to the front and returns it.
// Equal scores go to the lower move encoding, so ties break
// deterministically by move encoding.
func (mo *moveOrderer) next() board.Move {
	best := mo.idx
	for i := mo.idx + 1; i < len(mo.moves); i++ {
		if mo.scores[i] > mo.scores[best] ||
			(mo.scores[i] == mo.scores[best] && mo.moves[i] < mo.moves[best]) {
			best = i
		}
	}
	mo.moves[mo.idx], mo.moves[best] = mo.moves[best], mo.moves[mo.idx]
	mo.scores[mo.idx], mo.scores[best] = mo.scores[best], mo.scores[mo.idx]

	m := mo.moves[mo.idx]
	mo.idx++
	return m
}
