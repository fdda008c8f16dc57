// Package reach implements spec.md §4.3's symbolic reachability engine: a
// set-at-a-time breadth-first fixpoint over transition groups, with
// optional transition caching, chaining, and saturation.
package reach

import (
	"context"
	"sync"

	"github.com/mcrlgo/symparity/internal/parallel"
	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/ddindex"
	"github.com/mcrlgo/symparity/pkg/groups"
	"github.com/mcrlgo/symparity/pkg/ldd"
	"github.com/mcrlgo/symparity/pkg/logging"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// Config selects which of spec.md §4.3's optional optimisations are active.
type Config struct {
	Cached        bool
	Chaining      bool
	Saturation    bool
	NoRelProd     bool // use pkg/ldd's AlternativeRelProd instead of RelProd
	MaxIterations int  // 0 means unbounded
	Deadlocks     bool // compute the deadlock set per spec.md §4.3 step 7
}

// Engine runs spec.md §4.3's algorithm over a fixed parameter vector and
// transition-group partition, sharing one ldd.Kernel and one ddindex.Tables
// across the whole run.
type Engine struct {
	DD       *ldd.Kernel
	Params   []lps.ProcessParameter
	Groups   []*groups.TransitionGroup
	Tables   *ddindex.Tables
	Domains  rewrite.Domains // carrier of every summation variable's sort
	Rewriter rewrite.Rewriter
	Cfg      Config
	Log      logging.Logger

	// Pool, when non-nil, fans the per-concrete-source-tuple rewriting and
	// enumeration work of learnTransitions out across an
	// internal/parallel.WorkerPool (spec.md §4.3 step 3's per-tuple loop
	// is embarrassingly parallel: the rewriter clone and substitution are
	// worker-local, only the final L-update touches the shared kernel).
	// Chaining/saturation still run the group loop itself sequentially
	// (later groups depend on earlier groups' output within a round), so
	// Pool only parallelises work inside a single group's learnTransitions
	// call, never across groups when chaining would make that unsound.
	Pool *parallel.WorkerPool

	OnEndWhileLoop EndOfRoundHook

	visited   ldd.Ref
	todo      ldd.Ref
	deadlocks ldd.Ref
	iteration int
}

// NewEngine builds an Engine sharing the given kernel and tables; Log
// defaults to a NullLogger if nil.
func NewEngine(k *ldd.Kernel, params []lps.ProcessParameter, gs []*groups.TransitionGroup, tables *ddindex.Tables, domains rewrite.Domains, rw rewrite.Rewriter, cfg Config, log logging.Logger) *Engine {
	if log == nil {
		log = logging.NullLogger{}
	}
	return &Engine{
		DD: k, Params: params, Groups: gs, Tables: tables, Domains: domains,
		Rewriter: rw, Cfg: cfg, Log: log,
		visited: ldd.Empty, todo: ldd.Empty, deadlocks: ldd.Empty,
	}
}

func (e *Engine) Visited() ldd.Ref     { return e.visited }
func (e *Engine) Todo() ldd.Ref        { return e.todo }
func (e *Engine) Kernel() *ldd.Kernel  { return e.DD }
func (e *Engine) Deadlocks() ldd.Ref   { return e.deadlocks }

// Initial builds the singleton state-set LDD for initial, a concrete value
// per process parameter in the already-permuted order, and sets it as the
// engine's starting todo set.
func (e *Engine) Initial(initial []interface{}) (ldd.Ref, error) {
	if len(initial) != len(e.Params) {
		return ldd.Empty, apperrors.InputShape("instantiation", "initial vector arity does not match parameter count")
	}
	vec, err := e.Tables.EncodeVector(initial)
	if err != nil {
		return ldd.Empty, apperrors.InputShape("instantiation", "encoding initial vector: "+err.Error())
	}
	r := e.DD.Singleton(vec)
	e.todo = r
	return r, nil
}

// Run executes breadth-first rounds until todo is empty or MaxIterations is
// reached, returning the reachable-state LDD (spec.md §4.3's "run()").
func (e *Engine) Run() (ldd.Ref, error) {
	for e.todo != ldd.Empty {
		if e.Cfg.MaxIterations > 0 && e.iteration >= e.Cfg.MaxIterations {
			return e.visited, apperrors.ResourceExhausted("exploration",
				apperrors.InvariantBreach("exploration", "max-iterations reached with incomplete reachable set"))
		}
		if err := e.round(); err != nil {
			return e.visited, err
		}
		e.iteration++
		if e.OnEndWhileLoop != nil && e.OnEndWhileLoop(e.visited, e.todo) {
			break
		}
	}
	return e.visited, nil
}

// round performs one breadth-first iteration of spec.md §4.3's algorithm.
func (e *Engine) round() error {
	todoBefore := e.todo
	var nextAll ldd.Ref = ldd.Empty
	frontier := e.todo // chaining feeds accumulated successors back in

	for _, g := range e.Groups {
		projSrc := e.DD.Project(frontier, g.Ip)

		var newSrc ldd.Ref
		if e.Cfg.Cached {
			newSrc = e.DD.Minus(projSrc, g.Ldomain)
		} else {
			newSrc = projSrc
		}

		if err := e.learnTransitions(g, newSrc); err != nil {
			return err
		}
		g.Ldomain = e.DD.Union(g.Ldomain, newSrc)

		var nextG ldd.Ref
		if e.Cfg.NoRelProd {
			nextG = e.DD.AlternativeRelProd(frontier, g.Meta, g.L)
		} else {
			nextG = e.DD.RelProd(frontier, g.Meta, g.L)
		}
		nextAll = e.DD.Union(nextAll, nextG)

		if e.Cfg.Chaining {
			frontier = e.DD.Union(frontier, nextG)
		}
		if e.Cfg.Saturation {
			if err := e.saturateGroup(g); err != nil {
				return err
			}
		}
	}

	if e.Cfg.Deadlocks {
		reached := ldd.Empty
		for _, g := range e.Groups {
			reached = e.DD.Union(reached, e.DD.RelPrev(nextAll, g.Meta, g.L, todoBefore))
		}
		e.deadlocks = e.DD.Union(e.deadlocks, e.DD.Minus(todoBefore, reached))
	}

	e.visited = e.DD.Union(e.visited, e.todo)
	e.todo = e.DD.Minus(nextAll, e.visited)
	return nil
}

// saturateGroup repeatedly applies group g to its own accumulating image
// until a fixpoint, the `saturation` optimisation of spec.md §4.3 step 5.
func (e *Engine) saturateGroup(g *groups.TransitionGroup) error {
	cur := e.todo
	for {
		src := e.DD.Project(cur, g.Ip)
		newSrc := e.DD.Minus(src, g.Ldomain)
		if newSrc == ldd.Empty {
			break
		}
		if err := e.learnTransitions(g, newSrc); err != nil {
			return err
		}
		g.Ldomain = e.DD.Union(g.Ldomain, newSrc)
		next := e.DD.RelProd(cur, g.Meta, g.L)
		merged := e.DD.Union(cur, next)
		if merged == cur {
			break
		}
		cur = merged
	}
	return nil
}

// learnTransitions implements spec.md §4.3 steps 3-4: for each concrete
// source tuple in newSrc, bind read positions, evaluate every summand's
// condition, enumerate its summation variables, and union the resulting
// transition tuples into g.L.
func (e *Engine) learnTransitions(g *groups.TransitionGroup, newSrc ldd.Ref) error {
	if newSrc == ldd.Empty {
		return nil
	}
	if e.Pool == nil {
		var learnErr error
		e.DD.SatAll(newSrc, len(g.Read), func(tuple []uint32) bool {
			if err := e.learnFromTuple(g, e.Rewriter, tuple, noopLock{}); err != nil {
				learnErr = err
				return false
			}
			return true
		})
		return learnErr
	}

	// Parallel path: collect every concrete source tuple up front (SatAll
	// itself is not reentrant-safe to call from multiple goroutines), then
	// fan the per-tuple rewrite/enumerate work out across e.Pool. Only the
	// final g.L mutation touches the shared kernel and is guarded by
	// kernelMu; each task gets its own Rewriter clone and Substitution, per
	// spec.md §6's "the rewriter is clonable ... one clone per worker".
	var tuples [][]uint32
	e.DD.SatAll(newSrc, len(g.Read), func(tuple []uint32) bool {
		tuples = append(tuples, append([]uint32(nil), tuple...))
		return true
	})

	var wg sync.WaitGroup
	var kernelMu sync.Mutex
	var errMu sync.Mutex
	var learnErr error
	ctx := context.Background()

	for _, tuple := range tuples {
		tuple := tuple
		errMu.Lock()
		if learnErr != nil {
			errMu.Unlock()
			break
		}
		errMu.Unlock()

		wg.Add(1)
		rw := e.Rewriter.Clone()
		submitErr := e.Pool.Submit(ctx, func() {
			defer wg.Done()
			if err := e.learnFromTuple(g, rw, tuple, realLock{&kernelMu}); err != nil {
				errMu.Lock()
				if learnErr == nil {
					learnErr = err
				}
				errMu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			errMu.Lock()
			if learnErr == nil {
				learnErr = submitErr
			}
			errMu.Unlock()
		}
	}
	wg.Wait()
	return learnErr
}

// kernelLocker lets learnFromTuple guard the shared g.L mutation without
// the sequential path paying for an uncontended mutex on every tuple.
type kernelLocker interface {
	Lock()
	Unlock()
}

type noopLock struct{}

func (noopLock) Lock()   {}
func (noopLock) Unlock() {}

type realLock struct{ mu *sync.Mutex }

func (r realLock) Lock()   { r.mu.Lock() }
func (r realLock) Unlock() { r.mu.Unlock() }

// learnFromTuple implements spec.md §4.3 steps 3-4 for a single concrete
// source tuple: bind read positions, evaluate every summand's condition,
// enumerate its summation variables, and union the resulting transition
// tuples into g.L. lock guards the g.L read-modify-write when called from
// multiple goroutines (noopLock in the sequential path).
func (e *Engine) learnFromTuple(g *groups.TransitionGroup, rw rewrite.Rewriter, tuple []uint32, lock kernelLocker) error {
	sigma := rewrite.NewSubstitution()
	for i, pos := range g.Read {
		val, ok := e.Tables.At(pos).At(tuple[i])
		if !ok {
			continue
		}
		sigma.Bind(e.Params[pos].Name, toRewriteValue(val))
	}

	for _, s := range g.Summands {
		cond, err := rw.Rewrite(s.Condition, sigma)
		if err != nil {
			return err
		}
		if rewrite.IsFalse(cond) {
			continue
		}

		elt := rewrite.Enumerable{Vars: sumVarNames(s), Expression: cond}
		var enumErr error
		err = rewrite.Enumerate(rw, elt, e.Domains, sigma, func(bound *rewrite.Substitution) bool {
			readVals := make([]uint32, len(e.Params))
			writeVals := make([]uint32, len(e.Params))
			for i, pos := range g.Read {
				readVals[pos] = tuple[i]
			}
			for _, pos := range g.Write {
				if pos >= len(s.NextState) || s.NextState[pos] == nil {
					continue
				}
				val, rerr := rw.Rewrite(s.NextState[pos], bound)
				if rerr != nil {
					enumErr = rerr
					return false
				}
				lit, ok := literalOf(val)
				if !ok {
					enumErr = &unresolvedNextState{expr: val.String()}
					return false
				}
				idx, _, ierr := e.Tables.At(pos).Insert(lit)
				if ierr != nil {
					enumErr = ierr
					return false
				}
				writeVals[pos] = idx
			}
			lock.Lock()
			g.L = e.DD.UnionCubeCopy(g.L, g.Meta, readVals, writeVals, fullCopyMask(g, e.Params))
			lock.Unlock()
			return true
		})
		if err != nil {
			return err
		}
		if enumErr != nil {
			return enumErr
		}
	}
	return nil
}

func sumVarNames(s lps.Summand) []string {
	out := make([]string, len(s.SumVars))
	for i, v := range s.SumVars {
		out[i] = v.Name
	}
	return out
}

func toRewriteValue(v interface{}) rewrite.Value {
	switch t := v.(type) {
	case bool, int64:
		return t
	case int:
		return int64(t)
	default:
		return v
	}
}

func literalOf(t rewrite.Term) (interface{}, bool) {
	switch v := t.(type) {
	case rewrite.BoolLit:
		return v.Value, true
	case rewrite.IntLit:
		return v.Value, true
	case rewrite.StrLit:
		return v.Value, true
	default:
		return nil, false
	}
}

// fullCopyMask expands g.Copy (indexed over g.Write entries) into a
// per-parameter-position mask UnionCubeCopy expects.
func fullCopyMask(g *groups.TransitionGroup, params []lps.ProcessParameter) []bool {
	mask := make([]bool, len(params))
	for i, pos := range g.Write {
		mask[pos] = g.Copy[i]
	}
	return mask
}

type unresolvedNextState struct{ expr string }

func (e *unresolvedNextState) Error() string {
	return "next-state expression did not reduce to a literal: " + e.expr
}
