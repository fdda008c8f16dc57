package explicit

import (
	"math/rand"
	"sync"
)

// Strategy selects the todo queue's pop discipline (spec.md §4.6, "a todo
// queue whose discipline is BFS, DFS, or highway").
type Strategy int

const (
	StrategyBreadth Strategy = iota
	StrategyDepth
	StrategyHighway
)

// Queue is the explicit engine's shared todo list. BFS pops from the
// front, DFS pops from the back (a plain slice used as a deque either
// way); highway keeps a bounded reservoir of size N, discarding the rest
// (spec.md §4.6, "a memory-bounded reservoir-sampled exploration
// strategy").
type Queue struct {
	mu       sync.Mutex
	strategy Strategy
	items    []StateID
	highwayN int  // reservoir capacity; 0 makes highway unusable (spec.md §9 open question)
	seen     int  // total items ever offered to a highway reservoir, for reservoir sampling's running count
	rng      *rand.Rand
}

// NewQueue builds a Queue with the given strategy. highwayN is ignored
// unless strategy is StrategyHighway, in which case it must be > 0 — the
// reservoir ratio has no usable default (spec.md §9).
func NewQueue(strategy Strategy, highwayN int) *Queue {
	return &Queue{
		strategy: strategy,
		highwayN: highwayN,
		rng:      rand.New(rand.NewSource(1)),
	}
}

// Push adds s to the queue, applying highway's reservoir-sampling discard
// rule when configured.
func (q *Queue) Push(s StateID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.strategy != StrategyHighway {
		q.items = append(q.items, s)
		return
	}

	q.seen++
	if len(q.items) < q.highwayN {
		q.items = append(q.items, s)
		return
	}
	// Reservoir sampling: replace a uniformly-random existing survivor
	// with probability highwayN/seen, so every item offered so far has an
	// equal chance of being a current survivor.
	j := q.rng.Intn(q.seen)
	if j < q.highwayN {
		q.items[j] = s
	}
}

// Pop removes and returns one item per the configured discipline. ok is
// false when the queue is empty.
func (q *Queue) Pop() (s StateID, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return 0, false
	}
	switch q.strategy {
	case StrategyDepth:
		n := len(q.items) - 1
		s = q.items[n]
		q.items = q.items[:n]
	default: // StrategyBreadth and StrategyHighway both pop oldest-first
		s = q.items[0]
		q.items = q.items[1:]
	}
	return s, true
}

// Len reports the current queue length.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
