// Package explicit implements spec.md §4.6's explicit parallel explorer: a
// shared discovered-state table, a BFS/DFS/highway todo queue, and K worker
// goroutines that claim states, enumerate successors directly (no decision
// diagrams), and coordinate through a pair of short-critical-section locks
// plus a shared active-worker counter (spec.md §5, "Concurrency & Resource
// Model"). Grounded on the indexed fact store technique from
// pkg/minikanren/fact_store.go and pldb.go, for the insert-returns-stable-id
// discipline, generalized from "intern one ground fact" to "intern one
// discovered state vector", and on internal/parallel.WorkerPool's
// worker-count bookkeeping for the idle/active coordination pattern;
// worker fan-out itself uses golang.org/x/sync/errgroup (SPEC_FULL.md §11)
// rather than the pool, since the explicit engine's workers are long-lived
// and self-coordinating rather than short independent tasks.
package explicit

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// StateID is a dense, stable identifier assigned on first discovery
// (spec.md §4.6, "an indexed set of discovered states with insert(s) ->
// (index, existed) returning a stable dense id").
type StateID uint64

// StateVector is a full concrete assignment to the process parameter
// vector: one rewrite.Value per position, in the fixed variable order
// (spec.md §3's "State vector", explicit-engine flavour: concrete values
// rather than decision-diagram indices, since this engine never builds a
// decision diagram).
type StateVector []rewrite.Value

// key canonicalises a StateVector into a comparable map key. bool, int64
// and string are the rewrite.Value shapes the rewriter stand-in produces
// (pkg/rewrite.Value's doc comment); every position is rendered via fmt's
// %v, which is stable for the comparable leaf types
// process-parameter sorts carry in this module (spec.md §3, opaque finite
// sorts).
func (s StateVector) key() string {
	var b strings.Builder
	for i, v := range s {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%v", v)
	}
	return b.String()
}

// Table is the shared, thread-safe discovered-state set spec.md §4.6
// requires: insert(s) -> (index, existed) with dense stable ids assigned
// in discovery order.
type Table struct {
	mu      sync.RWMutex
	byKey   map[string]StateID
	byIndex []StateVector
}

// NewTable returns an empty discovered-state table.
func NewTable() *Table {
	return &Table{byKey: make(map[string]StateID)}
}

// Insert interns s, returning its stable id and whether it was already
// present. Safe for concurrent use by multiple workers.
func (t *Table) Insert(s StateVector) (id StateID, existed bool) {
	k := s.key()
	t.mu.RLock()
	if id, ok := t.byKey[k]; ok {
		t.mu.RUnlock()
		return id, true
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byKey[k]; ok {
		return id, true
	}
	id = StateID(len(t.byIndex))
	t.byIndex = append(t.byIndex, s)
	t.byKey[k] = id
	return id, false
}

// At returns the state vector stored at id.
func (t *Table) At(id StateID) (StateVector, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.byIndex) {
		return nil, false
	}
	return t.byIndex[id], true
}

// Len reports the number of discovered states.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byIndex)
}

// Each iterates every discovered state in discovery order. Intended for
// post-run inspection (canonicalisation for S6-style equivalence checks),
// not for use while workers may still be inserting.
func (t *Table) Each(fn func(id StateID, s StateVector)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, s := range t.byIndex {
		fn(StateID(i), s)
	}
}
