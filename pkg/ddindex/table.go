// Package ddindex implements the per-process-parameter data-index tables
// of spec.md §3/§4.1: deduplicating maps between concrete data values and
// small 32-bit integer indices used as decision-diagram atoms.
//
// The dedup/intern discipline reuses the atom/fact interning technique
// from pkg/minikanren/pldb.go and fact_store.go (one canonical
// handle per distinct value, looked up by a comparable key), narrowed here
// from "intern one Prolog fact" to "intern one data value per process
// parameter position".
package ddindex

import (
	"fmt"
	"sync"
)

// DontCare is the distinguished index meaning "don't-care", used only
// inside transition tuples for copy positions (spec.md §3).
const DontCare = ^uint32(0) // 0xFFFFFFFF

// Table is a single process parameter's data-index table. Insertion
// returns a stable index; indices grow monotonically and are never
// reused while exploration is in progress (spec.md §4.1).
//
// Safe for concurrent use: the explicit engine's workers (spec.md §4.6)
// insert data values discovered while enumerating summand solutions from
// multiple goroutines at once.
type Table struct {
	mu      sync.RWMutex
	byValue map[interface{}]uint32
	byIndex []interface{}
}

// New creates an empty data-index table.
func New() *Table {
	return &Table{byValue: make(map[interface{}]uint32)}
}

// Insert returns the index for value, interning it on first use. existed
// reports whether value was already present.
func (t *Table) Insert(value interface{}) (index uint32, existed bool, err error) {
	t.mu.RLock()
	if idx, ok := t.byValue[value]; ok {
		t.mu.RUnlock()
		return idx, true, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	// re-check under the write lock: another goroutine may have inserted
	// the same value between the RUnlock above and this Lock.
	if idx, ok := t.byValue[value]; ok {
		return idx, true, nil
	}
	if uint64(len(t.byIndex)) >= uint64(DontCare) {
		return 0, false, fmt.Errorf("ddindex: table overflow: cannot assign a 32-bit index beyond %d entries", DontCare)
	}
	idx := uint32(len(t.byIndex))
	t.byIndex = append(t.byIndex, value)
	t.byValue[value] = idx
	return idx, false, nil
}

// At returns the value stored at index. ok is false if index is out of range.
func (t *Table) At(index uint32) (value interface{}, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index == DontCare || int(index) >= len(t.byIndex) {
		return nil, false
	}
	return t.byIndex[index], true
}

// IndexOf returns the index already assigned to value, without inserting it.
func (t *Table) IndexOf(value interface{}) (index uint32, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx, ok := t.byValue[value]
	return idx, ok
}

// Size returns the number of distinct interned values.
func (t *Table) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byIndex)
}

// Each iterates the table in insertion order, the order guaranteed stable
// for debug dumps (spec.md §4.1).
func (t *Table) Each(fn func(index uint32, value interface{})) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, v := range t.byIndex {
		fn(uint32(i), v)
	}
}

// Tables is the full set of per-position data-index tables for a process
// parameter vector, indexed by position in the fixed variable order
// (spec.md §3, "Invariant: every state vector ... uses the same
// permutation").
type Tables struct {
	tables []*Table
}

// NewTables allocates n empty per-position tables.
func NewTables(n int) *Tables {
	ts := make([]*Table, n)
	for i := range ts {
		ts[i] = New()
	}
	return &Tables{tables: ts}
}

// Len returns the number of positions (process parameters).
func (ts *Tables) Len() int { return len(ts.tables) }

// At returns the data-index table for position i.
func (ts *Tables) At(i int) *Table { return ts.tables[i] }

// EncodeVector interns each value in vec at its position and returns the
// resulting state vector (spec.md §3, "State vector").
func (ts *Tables) EncodeVector(vec []interface{}) ([]uint32, error) {
	if len(vec) != len(ts.tables) {
		return nil, fmt.Errorf("ddindex: vector has %d components, expected %d", len(vec), len(ts.tables))
	}
	out := make([]uint32, len(vec))
	for i, v := range vec {
		idx, _, err := ts.tables[i].Insert(v)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

// DecodeVector converts a state vector back to concrete data values.
// DontCare positions decode to nil.
func (ts *Tables) DecodeVector(vec []uint32) ([]interface{}, error) {
	if len(vec) != len(ts.tables) {
		return nil, fmt.Errorf("ddindex: vector has %d components, expected %d", len(vec), len(ts.tables))
	}
	out := make([]interface{}, len(vec))
	for i, idx := range vec {
		if idx == DontCare {
			out[i] = nil
			continue
		}
		v, ok := ts.tables[i].At(idx)
		if !ok {
			return nil, fmt.Errorf("ddindex: position %d has no value at index %d", i, idx)
		}
		out[i] = v
	}
	return out, nil
}
