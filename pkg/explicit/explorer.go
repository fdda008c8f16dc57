package explicit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/confluence"
	"github.com/mcrlgo/symparity/pkg/logging"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// idlePoll is the "tens of milliseconds" fixed interval spec.md §5 gives
// for a worker that finds the todo queue empty to sleep before re-polling
// the shared active-worker counter.
const idlePoll = 15 * time.Millisecond

// Config selects spec.md §4.6/§6's explicit-engine knobs.
type Config struct {
	Workers  int
	Strategy Strategy
	HighwayN int // only meaningful when Strategy == StrategyHighway

	Cache       bool // enable per-summand/global solution caching at all
	GlobalCache bool // lock the explorer's single cache even with one worker (it is always locked with more than one)

	// ConfluentTau, when non-nil, marks which summand indices participate
	// in confluent-tau reduction (spec.md §4.6): the transitions of flagged
	// summands are the confluent-tau edges. When it is set, every successor
	// (and the initial state) is replaced by the canonical representative
	// of its confluent-tau subgraph before being recorded.
	ConfluentTau []bool

	// Timed marks that the last process parameter position is a time
	// coordinate; TimeLess(prev, next) must hold for a transition to be
	// admissible (spec.md §4.6, "a transition with time t' is admissible
	// only when t' > t"; only an ordering oracle is used, per spec.md's
	// non-goals excluding real-arithmetic decision procedures).
	Timed    bool
	TimeLess func(prev, next rewrite.Value) bool

	MaxStates int // 0 means unbounded; otherwise Run fails with resource exhaustion once exceeded
}

// Hooks are the per-state/per-transition callbacks spec.md §4.6 names:
// discover_state, examine_transition, finish_state. Any hook may be nil.
type Hooks struct {
	DiscoverState     func(id StateID, s StateVector)
	ExamineTransition func(src StateID, action string, args []rewrite.Value, dst StateID, summandIdx int)
	FinishState       func(id StateID)
}

// Explorer runs spec.md §4.6's explicit parallel exploration over a fixed
// LPS: a shared Table, a shared Queue, and Cfg.Workers goroutines
// processing states concurrently (spec.md §5: "the explicit engine is
// multi-threaded with K workers sharing the discovered-state table and the
// todo queue").
type Explorer struct {
	LPS      *lps.LPS
	Domains  rewrite.Domains
	Rewriter rewrite.Rewriter // template; Clone()d once per worker
	Cfg      Config
	Hooks    Hooks
	Log      logging.Logger

	Table *Table
	Queue *Queue

	cache *solutionCache

	active  int32 // atomic: workers not currently idle-polling
	aborted int32 // atomic bool
}

// NewExplorer builds an Explorer. Log defaults to a NullLogger if nil.
func NewExplorer(l *lps.LPS, domains rewrite.Domains, rw rewrite.Rewriter, cfg Config, hooks Hooks, log logging.Logger) *Explorer {
	if log == nil {
		log = logging.NullLogger{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	e := &Explorer{
		LPS: l, Domains: domains, Rewriter: rw, Cfg: cfg, Hooks: hooks, Log: log,
		Table: NewTable(),
		Queue: NewQueue(cfg.Strategy, cfg.HighwayN),
	}
	if cfg.Cache {
		e.cache = newSolutionCache(cfg.GlobalCache || cfg.Workers > 1)
	}
	return e
}

// Abort sets the cooperative abort flag spec.md §5 describes: every
// worker checks it once per state and exits cleanly, leaving partial
// results (the Table and whatever was already discovered) accessible.
func (e *Explorer) Abort() { atomic.StoreInt32(&e.aborted, 1) }

func (e *Explorer) isAborted() bool { return atomic.LoadInt32(&e.aborted) == 1 }

// Run explores from initial until the todo queue is empty and every
// worker has gone idle, or until MaxStates/abort interrupts it. It returns
// the first fatal error any worker encountered (an apperrors.Error per
// spec.md §7), or nil on a completed or user-aborted run.
func (e *Explorer) Run(ctx context.Context, initial StateVector) error {
	if e.Cfg.ConfluentTau != nil {
		repVec, err := e.representative(initial)
		if err != nil {
			return err
		}
		initial = repVec
	}
	id, _ := e.Table.Insert(initial)
	if e.Hooks.DiscoverState != nil {
		e.Hooks.DiscoverState(id, initial)
	}
	e.Queue.Push(id)

	atomic.StoreInt32(&e.active, int32(e.Cfg.Workers))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.Cfg.Workers; i++ {
		rw := e.Rewriter.Clone()
		g.Go(func() error {
			return e.workerLoop(gctx, rw)
		})
	}
	return g.Wait()
}

// workerLoop implements spec.md §4.6's per-worker loop and §5's idle
// coordination protocol: claim a state, process it, and on an empty queue
// decrement the active counter and poll until either new work appears or
// every worker has gone idle.
func (e *Explorer) workerLoop(ctx context.Context, rw rewrite.Rewriter) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if e.isAborted() {
			return nil
		}

		s, ok := e.Queue.Pop()
		if !ok {
			if atomic.AddInt32(&e.active, -1) == 0 {
				return nil // every worker idle and queue empty: done
			}
			for {
				time.Sleep(idlePoll)
				if ctx.Err() != nil || e.isAborted() {
					return nil
				}
				if s2, ok2 := e.Queue.Pop(); ok2 {
					atomic.AddInt32(&e.active, 1)
					s, ok = s2, true
					break
				}
				if atomic.LoadInt32(&e.active) == 0 {
					return nil
				}
			}
		}

		if err := e.processState(ctx, rw, s); err != nil {
			return err
		}
	}
}

// processState implements spec.md §4.6's six numbered steps for one
// claimed state: enumerate successors, insert newly-discovered ones under
// the (implicit, Table-internal) state lock, emit transitions, and call
// finish_state.
func (e *Explorer) processState(ctx context.Context, rw rewrite.Rewriter, s StateID) error {
	vec, ok := e.Table.At(s)
	if !ok {
		return apperrors.InvariantBreach(apperrors.PhaseExploration, "processState: claimed state id not in table")
	}

	trs, err := e.successors(rw, vec)
	if err != nil {
		return err
	}

	if e.Cfg.MaxStates > 0 && e.Table.Len() > e.Cfg.MaxStates {
		return apperrors.ResourceExhausted(apperrors.PhaseExploration,
			apperrors.InvariantBreach(apperrors.PhaseExploration, "todo-max exceeded"))
	}

	for _, tr := range trs {
		next := tr.next
		// Every successor is canonicalised against the confluent-tau
		// subgraph rooted at it, regardless of which summand produced the
		// edge into it: confluent-tau reduction collapses whichever states
		// a confluent-tau chain can reach, not just the ones reached by a
		// confluent-tau-labelled transition itself (spec.md §4.6).
		if e.Cfg.ConfluentTau != nil {
			repVec, rerr := e.representative(next)
			if rerr != nil {
				return rerr
			}
			next = repVec
		}

		dst, existed := e.Table.Insert(next)
		if !existed {
			if e.Hooks.DiscoverState != nil {
				e.Hooks.DiscoverState(dst, next)
			}
			e.Queue.Push(dst)
		}
		if e.Hooks.ExamineTransition != nil {
			e.Hooks.ExamineTransition(s, tr.action, tr.actArgs, dst, tr.summandIdx)
		}
	}

	if e.Hooks.FinishState != nil {
		e.Hooks.FinishState(s)
	}
	return nil
}

func (e *Explorer) confluent(summandIdx int) bool {
	return e.Cfg.ConfluentTau != nil && summandIdx < len(e.Cfg.ConfluentTau) && e.Cfg.ConfluentTau[summandIdx]
}

// representative canonicalises s to the smallest-id member of its
// confluent-tau subgraph's first terminal SCC, using
// confluence.FindRepresentative with a Successors callback restricted to
// ConfluentTau-flagged summands (spec.md §4.6). The states this search
// visits are numbered in a table local to the call, so e.Table is left
// untouched; the representative's state vector is returned.
func (e *Explorer) representative(s StateVector) (StateVector, error) {
	local := NewTable()
	id, _ := local.Insert(s)
	rw := e.Rewriter.Clone()
	var succErr error
	succ := func(id confluence.StateID) []confluence.StateID {
		vec, ok := local.At(StateID(id))
		if !ok {
			return nil
		}
		trs, err := e.successors(rw, vec)
		if err != nil {
			succErr = err
			return nil
		}
		var out []confluence.StateID
		for _, tr := range trs {
			if !e.confluent(tr.summandIdx) {
				continue
			}
			nid, _ := local.Insert(tr.next)
			out = append(out, confluence.StateID(nid))
		}
		return out
	}
	rep, err := confluence.FindRepresentative(confluence.StateID(id), succ)
	if err != nil {
		return nil, err
	}
	if succErr != nil {
		return nil, succErr
	}
	repVec, _ := local.At(StateID(rep))
	return repVec, nil
}

// transition is one enumerated successor of a summand against a concrete
// source state.
type transition struct {
	summandIdx int
	action     string
	actArgs    []rewrite.Value
	next       StateVector
}

// successors implements spec.md §4.3's per-summand enumeration (condition
// rewrite, summation-variable enumeration, next-state/action rewrite),
// producing individual concrete successor states rather than LDD tuples
// (spec.md §4.6's "producing individual successor states, not LDD
// tuples"). rw is the calling worker's own Rewriter clone.
func (e *Explorer) successors(rw rewrite.Rewriter, s StateVector) ([]transition, error) {
	var out []transition
	for idx, summand := range e.LPS.Summands {
		sigma := rewrite.NewSubstitution()
		for i, p := range e.LPS.Parameters {
			sigma.Bind(p.Name, s[i])
		}

		footprint := summand.Condition.Variables()
		for i, p := range e.LPS.Parameters {
			if i < len(summand.NextState) && summand.NextState[i] != nil {
				footprint = append(footprint, summand.NextState[i].Variables()...)
			} else {
				footprint = append(footprint, p.Name) // copied unchanged into the cached next state
			}
		}
		if summand.Action != nil {
			for _, a := range summand.Action.Args {
				footprint = append(footprint, a.Variables()...)
			}
		}
		if e.Cfg.Timed && len(e.LPS.Parameters) > 0 {
			footprint = append(footprint, e.LPS.Parameters[len(e.LPS.Parameters)-1].Name)
		}
		var key string
		if e.cache != nil {
			key = cacheKey(idx, footprint, sigma)
			if cached, ok := e.cache.get(key); ok {
				out = append(out, replay(idx, cached, s)...)
				continue
			}
		}

		cond, err := rw.Rewrite(summand.Condition, sigma)
		if err != nil {
			return nil, err
		}
		if rewrite.IsFalse(cond) {
			if e.cache != nil {
				e.cache.put(key, nil)
			}
			continue
		}

		var sols []solution
		var visitErr error
		elt := rewrite.Enumerable{Vars: sumVarNames(summand), Expression: cond}
		enumErr := rewrite.Enumerate(rw, elt, e.Domains, sigma, func(bound *rewrite.Substitution) bool {
			next := make(StateVector, len(s))
			copy(next, s)
			for i, p := range e.LPS.Parameters {
				if i < len(summand.NextState) && summand.NextState[i] != nil {
					val, rerr := rw.Rewrite(summand.NextState[i], bound)
					if rerr != nil {
						visitErr = rerr
						return false
					}
					lit, ok := literalValue(val)
					if !ok {
						visitErr = &unresolvedValue{expr: val.String()}
						return false
					}
					next[i] = lit
				}
				_ = p
			}

			if e.Cfg.Timed && e.Cfg.TimeLess != nil && len(s) > 0 {
				last := len(s) - 1
				if !e.Cfg.TimeLess(s[last], next[last]) {
					return true // inadmissible: skip this candidate, keep enumerating
				}
			}

			name, args := actionOf(summand, rw, bound)
			sumVals := make([]rewrite.Value, len(summand.SumVars))
			for i, v := range summand.SumVars {
				val, _ := bound.Lookup(v.Name)
				sumVals[i] = val
			}
			sols = append(sols, solution{sumVals: sumVals, next: append(StateVector(nil), next...), action: name, actArgs: args})
			return true
		})
		if enumErr != nil {
			return nil, enumErr
		}
		if visitErr != nil {
			return nil, visitErr
		}

		if e.cache != nil {
			e.cache.put(key, sols)
		}
		out = append(out, replay(idx, sols, s)...)
	}
	return out, nil
}

func replay(summandIdx int, sols []solution, _ StateVector) []transition {
	out := make([]transition, 0, len(sols))
	for _, sol := range sols {
		out = append(out, transition{summandIdx: summandIdx, action: sol.action, actArgs: sol.actArgs, next: sol.next})
	}
	return out
}

func actionOf(s lps.Summand, rw rewrite.Rewriter, sigma *rewrite.Substitution) (string, []rewrite.Value) {
	if s.Action == nil {
		if s.PropVarUpdate != "" {
			return s.PropVarUpdate, nil
		}
		return "tau", nil
	}
	args := make([]rewrite.Value, len(s.Action.Args))
	for i, a := range s.Action.Args {
		val, err := rw.Rewrite(a, sigma)
		if err != nil {
			continue
		}
		lit, ok := literalValue(val)
		if ok {
			args[i] = lit
		}
	}
	return s.Action.Name, args
}

func sumVarNames(s lps.Summand) []string {
	out := make([]string, len(s.SumVars))
	for i, v := range s.SumVars {
		out[i] = v.Name
	}
	return out
}

func literalValue(t rewrite.Term) (rewrite.Value, bool) {
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

type unresolvedValue struct{ expr string }

func (e *unresolvedValue) Error() string {
	return "next-state/action expression did not reduce to a literal: " + e.expr
}
