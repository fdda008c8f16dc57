package reach

import "github.com/mcrlgo/symparity/pkg/ldd"

// EndOfRoundHook is invoked once per breadth-first iteration, after
// visited/todo have been updated, so a partial parity-game solver can
// inspect state and request early termination (spec.md §4.3 step 8,
// "on_end_while_loop").
type EndOfRoundHook func(visited, todo ldd.Ref) (stop bool)

// SymbolicGame is the minimal capability pkg/pgame's partial-solve
// heuristics need from a running reachability Engine: the current
// reachable set and the ability to keep exploring. Implemented by *Engine.
type SymbolicGame interface {
	Visited() ldd.Ref
	Todo() ldd.Ref
	Kernel() *ldd.Kernel
}
