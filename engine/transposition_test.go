package engine

import (
	"testing"

	"bitbucket.org/zurichess/board"
)

func TestTransTableCapacityIsPowerOfTwo(t *testing.T) {
	for _, mb := range []int{1, 2, 7, 16, 64} {
		tt := NewTransTable(mb)
		n := len(tt.entries)
		if n == 0 || n&(n-1) != 0 {
			t.Errorf("%d MB table has %d entries, want a power of two", mb, n)
		}
	}
}

func TestTransTableRoundTrip(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(0x9d39247e33776d41)
	move := board.Move(0x1234)

	tt.Store(key, 123, move, PVNode, 7)

	en, ok := tt.Probe(key)
	if !ok {
		t.Fatalf("stored entry not found")
	}
	if en.Score != 123 || en.Move != move || en.Kind != PVNode || en.Depth != 7 {
		t.Errorf("entry = %+v", en)
	}

	if _, ok := tt.Probe(key ^ 1); ok {
		t.Errorf("probe with a different key must miss")
	}
}

func TestTransTableAlwaysReplace(t *testing.T) {
	tt := NewTransTable(1)
	key := uint64(0xdeadbeefcafebabe)

	tt.Store(key, 50, board.Move(1), CutNode, 9)
	tt.Store(key, -20, board.Move(2), AllNode, 2)

	en, ok := tt.Probe(key)
	if !ok || en.Score != -20 || en.Move != board.Move(2) || en.Depth != 2 || en.Kind != AllNode {
		t.Errorf("replacement did not overwrite: %+v", en)
	}
}

func TestTransTableClearAndUsage(t *testing.T) {
	tt := NewTransTable(1)
	if tt.Usage() != 0 {
		t.Fatalf("fresh table usage = %d", tt.Usage())
	}

	// Fill a measurable share of the slots.
	n := uint64(len(tt.entries))
	for i := uint64(0); i < n/2; i++ {
		tt.Store(i<<1|1, 0, board.Move(1), PVNode, 1)
	}
	if usage := tt.Usage(); usage == 0 || usage > 1000 {
		t.Errorf("usage = %d permille, want in (0, 1000]", usage)
	}

	tt.Clear()
	if tt.Usage() != 0 {
		t.Errorf("usage after clear = %d", tt.Usage())
	}
	if _, ok := tt.Probe(3); ok {
		t.Errorf("probe after clear must miss")
	}
}

func TestTransTableCutoffSemantics(t *testing.T) {
	tt := NewTransTable(1)
	alpha, beta := int32(-50), int32(50)

	en := TTEntry{Depth: 5, Kind: PVNode, Score: 30}
	if _, ok := tt.cutoff(en, 6, alpha, beta); ok {
		t.Errorf("shallower entry must not prune")
	}
	if score, ok := tt.cutoff(en, 5, alpha, beta); !ok || score != 30 {
		t.Errorf("PV entry above alpha should return its score, got (%d, %v)", score, ok)
	}

	en = TTEntry{Depth: 5, Kind: PVNode, Score: 60}
	if score, ok := tt.cutoff(en, 5, alpha, beta); !ok || score != beta {
		t.Errorf("PV entry above beta should clip to beta, got (%d, %v)", score, ok)
	}

	en = TTEntry{Depth: 5, Kind: PVNode, Score: -60}
	if _, ok := tt.cutoff(en, 5, alpha, beta); ok {
		t.Errorf("PV entry below alpha must not prune")
	}

	en = TTEntry{Depth: 5, Kind: CutNode, Score: 70}
	if score, ok := tt.cutoff(en, 5, alpha, beta); !ok || score != beta {
		t.Errorf("CUT entry above beta should fail high to beta, got (%d, %v)", score, ok)
	}
	en = TTEntry{Depth: 5, Kind: CutNode, Score: 10}
	if _, ok := tt.cutoff(en, 5, alpha, beta); ok {
		t.Errorf("CUT entry below beta must not prune")
	}

	en = TTEntry{Depth: 5, Kind: AllNode, Score: -70}
	if score, ok := tt.cutoff(en, 5, alpha, beta); !ok || score != alpha {
		t.Errorf("ALL entry below alpha should fail low to alpha, got (%d, %v)", score, ok)
	}
	en = TTEntry{Depth: 5, Kind: AllNode, Score: 10}
	if _, ok := tt.cutoff(en, 5, alpha, beta); ok {
		t.Errorf("ALL entry above alpha must not prune")
	}
}
