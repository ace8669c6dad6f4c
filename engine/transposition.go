package engine

import (
	"unsafe"

	"bitbucket.org/zurichess/board"
)

// Node type tags for stored entries.
const (
	PVNode uint8 = iota
	CutNode
	AllNode
)

// TTEntry is one slot of the transposition table.
type TTEntry struct {
	Key   uint64
	Move  board.Move
	Score int16
	Depth uint8
	Kind  uint8
}

// TransTable is a fixed-size Zobrist-keyed cache. The entry count is a power
// of two so the key maps to a slot with a single mask; replacement is
// always-replace, which keeps behavior deterministic for identical insertion
// orders.
type TransTable struct {
	entries []TTEntry
	mask    uint64
	used    uint64
}

// NewTransTable allocates a table of roughly mb megabytes, rounded down to a
// power-of-two entry count.
func NewTransTable(mb int) *TransTable {
	tt := &TransTable{}
	tt.Resize(mb)
	return tt
}

// Resize frees the previous entries and reallocates for the new size.
func (tt *TransTable) Resize(mb int) {
	if mb < 1 {
		mb = 1
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	budget := uint64(mb) << 20

	capacity := uint64(1)
	for capacity*2*entrySize <= budget {
		capacity *= 2
	}

	tt.entries = make([]TTEntry, capacity)
	tt.mask = capacity - 1
	tt.used = 0
}

// Clear zeroes the table.
func (tt *TransTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
	tt.used = 0
}

// Probe returns the entry stored for key, if any.
func (tt *TransTable) Probe(key uint64) (TTEntry, bool) {
	en := tt.entries[key&tt.mask]
	if en.Key == key {
		return en, true
	}
	return TTEntry{}, false
}

// Store writes an entry for key, overwriting whatever lived in its slot.
func (tt *TransTable) Store(key uint64, score int32, move board.Move, kind uint8, depth int) {
	en := &tt.entries[key&tt.mask]
	if en.Key == 0 {
		tt.used++
	}
	en.Key = key
	en.Move = move
	en.Score = int16(clamp(score, -MaxMateScore, MaxMateScore))
	en.Depth = uint8(clamp(depth, 0, 255))
	en.Kind = kind
}

// Usage returns the fraction of the table in use, in permille.
func (tt *TransTable) Usage() int {
	if len(tt.entries) == 0 {
		return 0
	}
	return int(tt.used * 1000 / uint64(len(tt.entries)))
}

// cutoff applies the bound-style probe semantics: an entry may only prune
// when its stored depth covers the remaining depth, and then PV entries
// return their score when it beats alpha, CUT entries fail high against
// beta, ALL entries fail low against alpha.
func (tt *TransTable) cutoff(en TTEntry, depth int, alpha, beta int32) (int32, bool) {
	if int(en.Depth) < depth {
		return 0, false
	}
	score := int32(en.Score)
	switch en.Kind {
	case PVNode:
		if score >= alpha {
			// Clip to the window so callers stay fail-hard.
			return min(score, beta), true
		}
	case CutNode:
		if score >= beta {
			return beta, true
		}
	case AllNode:
		if score <= alpha {
			return alpha, true
		}
	}
	return 0, false
}
