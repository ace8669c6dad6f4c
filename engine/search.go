package engine

import (
	"math"
	"sync/atomic"
	"time"

	"bitbucket.org/zurichess/board"
)

// lmrReductions[d][m] holds the late-move reduction for remaining depth d
// and move index m. Entries with either index at 0 stay 0.
var lmrReductions [256][256]int

func init() {
	for d := 1; d < 256; d++ {
		for m := 1; m < 256; m++ {
			lmrReductions[d][m] = int(1 + math.Log(float64(d))*math.Log(float64(m))*0.5)
		}
	}
}

// SearchInfo is handed to the info emitter after every root improvement.
// Rendering the UCI line is the host's job.
type SearchInfo struct {
	Depth     int
	SelDepth  int
	Score     int32
	MateIn    int
	IsMate    bool
	Nodes     uint64
	Nps       uint64
	TimeMs    int64
	HashFull  int
	PV        []board.Move
}

// searchFrame is the per-ply move buffer, allocated once and reused.
type searchFrame struct {
	moves  []board.Move
	scores []int32
}

// Engine bundles all mutable search state: the transposition table, the
// history heuristic, the evaluator scratchpad, per-ply move buffers and the
// time controls. It must not be shared between concurrent searches; the
// only field another goroutine may touch is the stop flag.
type Engine struct {
	tt     *TransTable
	sd     SearchData
	eval   Evaluator
	frames [MaxPly]searchFrame

	nodes    uint64
	selDepth int

	startTime time.Time
	maxTime   int64
	stopped   bool
	forceStop atomic.Bool

	infoHandler func(SearchInfo)
}

// NewEngine allocates the transposition table and the per-ply move lists.
func NewEngine(hashMB int) *Engine {
	e := &Engine{tt: NewTransTable(hashMB)}
	for i := range e.frames {
		e.frames[i].moves = make([]board.Move, 0, 256)
		e.frames[i].scores = make([]int32, 0, 256)
	}
	return e
}

// NewGame clears the transposition table and the history scores.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.sd.clear()
}

// SetHash reallocates the transposition table. Must not be called while a
// search is running.
func (e *Engine) SetHash(mb int) {
	e.tt.Resize(mb)
}

// Stop requests early termination; the next time poll fails.
func (e *Engine) Stop() {
	e.forceStop.Store(true)
}

// SetInfoHandler installs the callback receiving root search updates.
func (e *Engine) SetInfoHandler(handler func(SearchInfo)) {
	e.infoHandler = handler
}

// EvalDebug runs a one-shot evaluation and reports the white-relative score
// together with the game phase.
func (e *Engine) EvalDebug(pos *board.Position) (int32, float32) {
	score := e.eval.Evaluate(pos, -MaxMateScore, MaxMateScore)
	return score, e.eval.phase
}

func (e *Engine) elapsedMs() int64 {
	return time.Since(e.startTime).Milliseconds()
}

// isTimeLeft reports whether the search may continue. The stop flag is a
// one-way false-to-true transition, so a plain atomic load per poll is
// enough; the wall clock is consulted every poll as well.
func (e *Engine) isTimeLeft() bool {
	if e.stopped || e.forceStop.Load() {
		e.stopped = true
		return false
	}
	if e.elapsedMs()+1 >= e.maxTime {
		e.stopped = true
		return false
	}
	return true
}

// BestMove runs the iterative deepening search and blocks until the depth
// or time budget is exhausted. The transposition table persists between
// calls; only NewGame and SetHash reset it.
func (e *Engine) BestMove(pos *board.Position, maxDepth int, maxTimeMs int64) board.Move {
	if maxDepth > MaxPly {
		maxDepth = MaxPly
	}
	if maxTimeMs <= 0 {
		maxTimeMs = math.MaxInt64 / 2
	}

	e.maxTime = maxTimeMs
	e.forceStop.Store(false)
	e.stopped = false
	e.nodes = 0
	e.selDepth = 0
	e.startTime = time.Now()

	for d := 1; d <= maxDepth; d++ {
		e.pvSearch(pos, -MaxMateScore, MaxMateScore, d, 0, false)
		if !e.isTimeLeft() {
			break
		}
	}

	if en, ok := e.tt.Probe(pos.Zobrist()); ok && en.Move != board.NullMove {
		return en.Move
	}

	// The root entry can fall out of the table; any legal move beats none.
	return e.firstLegalMove(pos)
}

func (e *Engine) firstLegalMove(pos *board.Position) board.Move {
	var moves []board.Move
	pos.GenerateMoves(board.Violent|board.Quiet, &moves)
	for _, m := range moves {
		pos.DoMove(m)
		legal := !pos.IsChecked(pos.Them())
		pos.UndoMove()
		if legal {
			return m
		}
	}
	return board.NullMove
}

// isDraw reports fifty-move, insufficient-material and repetition draws.
// The first repetition already counts: searching on cannot change the
// outcome of the repeated position.
func isDraw(pos *board.Position) bool {
	return pos.FiftyMoveRule() ||
		pos.InsufficientMaterial() ||
		pos.ThreeFoldRepetition() >= 2
}

// pvSearch is the main alpha-beta search for both full and zero-width
// windows. It is fail-hard for searched moves and table cutoffs: those
// results stay inside [alpha, beta]. Draw, stalemate and mate scores and the
// mate-distance bound are returned unclamped and can lie outside the window.
func (e *Engine) pvSearch(pos *board.Position, alpha, beta int32, depth, ply int, expectedCut bool) int32 {
	e.nodes++

	if !e.isTimeLeft() {
		return beta
	}

	if ply > 0 && isDraw(pos) {
		return DrawScore
	}

	if ply > e.selDepth {
		e.selDepth = ply
	}

	if depth <= 0 || ply >= MaxPly {
		return e.qSearch(pos, alpha, beta, ply)
	}

	zobrist := pos.Zobrist()
	pv := beta-alpha != 1
	originalAlpha := alpha
	highestScore := -MaxMateScore
	score := -MaxMateScore
	bestMove := board.NullMove
	hashMove := board.NullMove

	en, hit := e.tt.Probe(zobrist)
	if hit {
		hashMove = en.Move
		if ttScore, ok := e.tt.cutoff(en, depth, alpha, beta); ok {
			return ttScore
		}
	}

	frame := &e.frames[ply]
	frame.moves = frame.moves[:0]
	pos.GenerateMoves(board.Violent|board.Quiet, &frame.moves)

	inCheck := pos.IsChecked(pos.Us())

	// Null move pruning: hand the opponent a free move and prune when the
	// reduced search still fails high.
	if !pv && !inCheck {
		pos.DoMove(board.NullMove)
		score = -e.pvSearch(pos, -beta, 1-beta, depth-3, ply+1, false)
		pos.UndoMove()
		if score >= beta {
			return beta
		}
	}

	// Internal iterative deepening: a PV node without a hash move first
	// runs a shallower search just to populate the table.
	if depth >= 6 && pv && hashMove == board.NullMove {
		e.pvSearch(pos, alpha, beta, depth-2, ply, false)
		if en, hit = e.tt.Probe(zobrist); hit {
			hashMove = en.Move
		}
	}

	// Mate distance pruning.
	matingValue := MaxMateScore - int32(ply)
	if matingValue < beta {
		beta = matingValue
		if alpha >= matingValue {
			return matingValue
		}
	}
	matingValue = -MaxMateScore + int32(ply)
	if matingValue > alpha {
		alpha = matingValue
		if beta <= matingValue {
			return matingValue
		}
	}

	var orderer moveOrderer
	orderer.setMovesPVSearch(pos, frame.moves, frame.scores, hashMove, &e.sd)

	legalMoves := 0

	for orderer.hasNext() {
		m := orderer.next()

		givesCheck := pos.GivesCheck(m)

		extension := 0
		if givesCheck && see(pos, m) >= 0 {
			extension = 1
		}

		pos.DoMove(m)
		if pos.IsChecked(pos.Them()) {
			pos.UndoMove()
			continue
		}

		lmr := 0
		if !pv && legalMoves != 0 && !givesCheck && depth >= 2 && m.IsQuiet() {
			lmr = lmrReductions[min(depth, 255)][min(legalMoves, 255)]
		}

		if legalMoves == 0 && pv {
			score = -e.pvSearch(pos, -beta, -alpha, depth-1+extension, ply+1, false)
		} else {
			score = -e.pvSearch(pos, -alpha-1, -alpha, depth-1-lmr+extension, ply+1, false)
			if lmr > 0 && score > alpha {
				score = -e.pvSearch(pos, -alpha-1, -alpha, depth-1+extension, ply+1, false)
			}
			if score > alpha && score < beta {
				score = -e.pvSearch(pos, -beta, -alpha, depth-1+extension, ply+1, false)
			}
		}

		pos.UndoMove()

		if score >= beta {
			e.tt.Store(zobrist, beta, m, CutNode, depth)
			if m.IsQuiet() {
				e.sd.addHistoryScore(pos.Us(), m, depth)
			}
			return beta
		}

		if score > highestScore {
			highestScore = score
			bestMove = m
		}
		if score > alpha {
			if ply == 0 {
				// Store before emitting so the PV walk sees this move.
				e.tt.Store(zobrist, score, bestMove, PVNode, depth)
				e.emitInfo(pos, depth, score)
			}
			alpha = score
			bestMove = m
		} else if m.IsQuiet() {
			e.sd.subtractHistoryScore(pos.Us(), m, depth)
		}

		legalMoves++
	}

	// No legal moves is either stalemate or checkmate.
	if legalMoves == 0 {
		if !inCheck {
			return DrawScore
		}
		return -MaxMateScore + int32(ply)
	}

	if alpha > originalAlpha {
		e.tt.Store(zobrist, alpha, bestMove, PVNode, depth)
	} else {
		e.tt.Store(zobrist, highestScore, bestMove, AllNode, depth)
	}

	return alpha
}

// qSearch extends the search through captures and promotions until the
// position is quiet enough to trust the static evaluation.
func (e *Engine) qSearch(pos *board.Position, alpha, beta int32, ply int) int32 {
	e.nodes++

	standPat := e.eval.Evaluate(pos, alpha, beta) * pos.Us().Multiplier()

	if standPat >= beta {
		return beta
	}
	if alpha < standPat {
		alpha = standPat
	}

	if ply >= MaxPly {
		return alpha
	}

	frame := &e.frames[ply]
	frame.moves = frame.moves[:0]
	pos.GenerateMoves(board.Violent, &frame.moves)

	var orderer moveOrderer
	orderer.setMovesQSearch(frame.moves, frame.scores)

	for orderer.hasNext() {
		m := orderer.next()

		pos.DoMove(m)
		if pos.IsChecked(pos.Them()) {
			pos.UndoMove()
			continue
		}

		score := -e.qSearch(pos, -beta, -alpha, ply+1)

		pos.UndoMove()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// extractPV walks the transposition table from pos, verifying that each
// stored move is pseudo-legal and legal before stepping into it. The walk is
// depth limited to dodge cycles.
func (e *Engine) extractPV(pos *board.Position, depth int) []board.Move {
	if depth <= 0 {
		return nil
	}
	en, ok := e.tt.Probe(pos.Zobrist())
	if !ok || en.Move == board.NullMove {
		return nil
	}
	m := en.Move
	if !pos.IsPseudoLegal(m) {
		return nil
	}
	pos.DoMove(m)
	if pos.IsChecked(pos.Them()) {
		pos.UndoMove()
		return nil
	}
	pv := append([]board.Move{m}, e.extractPV(pos, depth-1)...)
	pos.UndoMove()
	return pv
}

// emitInfo reports a root improvement through the info callback.
func (e *Engine) emitInfo(pos *board.Position, depth int, score int32) {
	if e.infoHandler == nil {
		return
	}

	elapsed := e.elapsedMs()
	info := SearchInfo{
		Depth:    depth,
		SelDepth: e.selDepth,
		Score:    score,
		Nodes:    e.nodes,
		Nps:      e.nodes * 1000 / uint64(elapsed+1),
		TimeMs:   elapsed,
		HashFull: e.tt.Usage(),
		PV:       e.extractPV(pos, max(e.selDepth, 1)),
	}
	if abs32(score) > MinMateScore {
		info.IsMate = true
		info.MateIn = int((MaxMateScore - abs32(score) + 1) / 2)
		if score < 0 {
			info.MateIn = -info.MateIn
		}
	}
	e.infoHandler(info)
}
