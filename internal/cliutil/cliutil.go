// Package cliutil assembles pieces the cmd/* tools share: turning a
// loaded config.Config and an in-memory LPS into a runnable pkg/groups +
// pkg/reach pipeline, and the config/logger bootstrap that cmd/lpsreach
// and cmd/pbessolve call at the start of their RunE (SPEC_FULL.md §9, grounded on
// junjiewwang-perf-analysis/cmd/cli/cmd/root.go's PersistentPreRunE style).
package cliutil

import (
	"fmt"
	"math/rand"

	"github.com/mcrlgo/symparity/internal/parallel"
	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/config"
	"github.com/mcrlgo/symparity/pkg/ddindex"
	"github.com/mcrlgo/symparity/pkg/groups"
	"github.com/mcrlgo/symparity/pkg/ldd"
	"github.com/mcrlgo/symparity/pkg/logging"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/reach"
	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// Bootstrap holds the shared ambient objects NewBootstrap wires up: a
// loaded config and a level-gated logger.
type Bootstrap struct {
	Cfg *config.Config
	Log logging.Logger
}

// NewBootstrap loads configuration from configPath and a logger at the
// level it names. verboseOverride, when true, forces debug level
// regardless of config (the CLI's -v flag, spec.md §6's "verbosity
// flags").
func NewBootstrap(configPath string, verboseOverride bool) (*Bootstrap, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, apperrors.InputShape(apperrors.PhaseInstantiation, err.Error())
	}
	level := logging.ParseLevel(cfg.Log.Level)
	if verboseOverride {
		level = logging.LevelDebug
	}
	log := logging.NewStderrLogger(level)
	logging.SetGlobal(log)
	return &Bootstrap{Cfg: cfg, Log: log}, nil
}

// groupsPolicy maps config.ExplorationConfig.Groups's string form to
// pkg/groups.Policy (spec.md §6's "groups" CLI knob).
func groupsPolicy(s string) groups.Policy {
	switch s {
	case "used":
		return groups.PolicyUsed
	case "simple":
		return groups.PolicySimple
	case "none", "":
		return groups.PolicyNone
	default:
		return groups.PolicyExplicit
	}
}

// Prepared bundles the outputs of preprocessing + grouping + reordering an
// LPS, ready to hand to reach.NewEngine.
type Prepared struct {
	Params []lps.ProcessParameter
	Groups []*groups.TransitionGroup
	Perm   []int
}

// Prepare runs spec.md §4.2's preprocessing, permutation, and grouping
// steps over l according to cfg, in the order spec.md §4.2 lists them:
// preprocess each summand, compute the permutation, apply it, then group.
func Prepare(l *lps.LPS, cfg *config.Config) (*Prepared, error) {
	summands := append([]lps.Summand(nil), l.Summands...)

	if cfg.Preprocess.OnePointRuleRewrite {
		for i, s := range summands {
			summands[i] = groups.OnePointRuleRewrite(s)
		}
	}
	if cfg.Preprocess.ResolveNameClashes {
		for i, s := range summands {
			summands[i] = groups.ResolveNameClashes(l.Parameters, s)
		}
	}

	params := l.Parameters
	var strategy groups.ReorderStrategy
	switch cfg.Exploration.Reorder {
	case "random":
		strategy = groups.ReorderRandom
	case "user":
		strategy = groups.ReorderUser
	default:
		strategy = groups.ReorderNone
	}
	fixFirst := len(params) > 0 && params[0].Sort == "PropVar"
	perm, err := groups.ComputePermutation(strategy, len(params), cfg.Exploration.UserOrder, fixFirst, rand.New(rand.NewSource(1)))
	if err != nil {
		return nil, err
	}
	params, summands = groups.ApplyPermutation(params, summands, perm)

	gs, err := groups.Compute(params, summands, groupsPolicy(cfg.Exploration.Groups),
		cfg.Exploration.NoDiscardRead || cfg.Exploration.NoDiscard,
		cfg.Exploration.NoDiscardWrite || cfg.Exploration.NoDiscard,
		cfg.Exploration.Groups)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*groups.TransitionGroup, len(gs))
	for i := range gs {
		ptrs[i] = &gs[i]
	}
	return &Prepared{Params: params, Groups: ptrs, Perm: perm}, nil
}

// BuildEngine assembles a reach.Engine over a Prepared pipeline, a fresh
// ldd.Kernel, and a fresh ddindex.Tables. When cfg.DD.LaceWorkers names more
// than one worker (spec.md §6's "lace-workers" decision-diagram sizing
// knob — the real kernel's own worker pool), an internal/parallel.WorkerPool
// of that size is attached as eng.Pool so learnTransitions fans its
// per-tuple rewrite/enumerate work out across it instead of running the
// single-threaded path.
func BuildEngine(prep *Prepared, domains rewrite.Domains, log logging.Logger, cfg *config.Config) (*reach.Engine, *ldd.Kernel, *ddindex.Tables) {
	k := ldd.NewKernel()
	tables := ddindex.NewTables(len(prep.Params))
	eng := reach.NewEngine(k, prep.Params, prep.Groups, tables, domains, rewrite.NewSimpleRewriter(), reach.Config{
		Cached:        cfg.Exploration.Cached,
		Chaining:      cfg.Exploration.Chaining,
		Saturation:    cfg.Exploration.Saturation,
		NoRelProd:     cfg.Exploration.NoRelprod,
		MaxIterations: cfg.Exploration.MaxIterations,
		Deadlocks:     true,
	}, log)
	if cfg.DD.LaceWorkers > 1 {
		eng.Pool = parallel.NewWorkerPool(cfg.DD.LaceWorkers)
	}
	return eng, k, tables
}

// EncodeInitial turns the LPS's literal initial-value terms into the
// []interface{} form reach.Engine.Initial expects, applying the same
// permutation Prepare applied to the parameter vector.
func EncodeInitial(l *lps.LPS, perm []int) ([]interface{}, error) {
	out := make([]interface{}, len(perm))
	for i, orig := range perm {
		if orig >= len(l.Initial) {
			return nil, fmt.Errorf("cliutil: initial value vector shorter than permutation requires")
		}
		v, ok := literalOf(l.Initial[orig])
		if !ok {
			return nil, fmt.Errorf("cliutil: initial value for parameter %d is not a literal", orig)
		}
		out[i] = v
	}
	return out, nil
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
