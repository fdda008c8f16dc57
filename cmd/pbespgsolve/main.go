// Command pbespgsolve decides a PBES's initial equation by flattening it
// to an LPS, exploring it explicitly (pkg/explicit), materialising the
// discovered graph as a pkg/promotion.Graph, and running the explicit
// priority-promotion solver (spec.md §4.6, §4.7).
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/config"
	"github.com/mcrlgo/symparity/pkg/explicit"
	"github.com/mcrlgo/symparity/pkg/logging"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/promotion"
	"github.com/mcrlgo/symparity/pkg/rewrite"
	"github.com/mcrlgo/symparity/pkg/timing"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagInput    string
	flagTimingTo string
)

func main() {
	root := &cobra.Command{
		Use:   "pbespgsolve [flags]",
		Short: "Decide a PBES's initial equation via explicit priority promotion",
		RunE:  run,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a symparity.yaml config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&flagInput, "in", "i", "", "input PBES path (empty: stdin)")
	root.Flags().StringVar(&flagTimingTo, "timing-yaml", "", "write a timing report to this path (empty: stderr)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fail(apperrors.InputShape(apperrors.PhaseInstantiation, err.Error()))
	}
	level := logging.ParseLevel(cfg.Log.Level)
	if flagVerbose {
		level = logging.LevelDebug
	}
	log := logging.NewStderrLogger(level)
	logging.SetGlobal(log)

	timer := timing.NewExecutionTimer("pbespgsolve")
	defer timer.WriteReport(flagTimingTo)

	var p *lps.PBES
	timer.Time("instantiation", func() {
		f, ferr := lps.OpenInput(flagInput)
		if ferr != nil {
			err = ferr
			return
		}
		defer f.Close()
		p, err = lps.ReadPBES(f)
	})
	if err != nil {
		return fail(apperrors.InputShape(apperrors.PhaseInstantiation, err.Error()))
	}

	unified, err := lps.UnifyParameters(p)
	if err != nil {
		return fail(apperrors.InputShape(apperrors.PhaseInstantiation, err.Error()))
	}
	unified = lps.MakeTotal(unified)
	idx, err := lps.BuildEquationIndex(unified)
	if err != nil {
		return fail(err)
	}

	flat := lps.Flatten(unified)
	flat.Initial = initialVector(unified)

	owner := make(map[string]promotion.Player, len(unified.Equations))
	rank := make(map[string]int, len(unified.Equations))
	for _, name := range idx.Names() {
		info, _ := idx.Lookup(name)
		rank[name] = info.Rank
		if info.Op == lps.Conjunctive {
			owner[name] = promotion.Odd
		} else {
			owner[name] = promotion.Even
		}
	}

	var graphMu sync.Mutex
	var owners []promotion.Player
	var priorities []int
	var succ [][]int

	explorer := explicit.NewExplorer(flat, rewrite.Domains{}, rewrite.NewSimpleRewriter(), explicit.Config{
		Workers:   cfg.Explicit.Workers,
		Strategy:  explicit.StrategyBreadth,
		Cache:     true,
		MaxStates: cfg.Explicit.TodoMax,
	}, explicit.Hooks{
		DiscoverState: func(id explicit.StateID, s explicit.StateVector) {
			graphMu.Lock()
			defer graphMu.Unlock()
			for len(owners) <= int(id) {
				owners = append(owners, promotion.Even)
				priorities = append(priorities, 0)
				succ = append(succ, nil)
			}
			tag, _ := s[0].(string)
			owners[id] = owner[tag]
			priorities[id] = rank[tag]
		},
		ExamineTransition: func(src explicit.StateID, action string, argsVal []rewrite.Value, dst explicit.StateID, summandIdx int) {
			graphMu.Lock()
			defer graphMu.Unlock()
			succ[src] = append(succ[src], int(dst))
		},
	}, log)

	initial, err := initialStateVector(flat)
	if err != nil {
		return fail(apperrors.InputShape(apperrors.PhaseInstantiation, err.Error()))
	}

	timer.Time("exploration", func() {
		err = explorer.Run(context.Background(), initial)
	})
	if err != nil {
		return fail(err)
	}

	graph := &promotion.Graph{Owner: owners, Priority: priorities, Succ: succ}

	var result promotion.Result
	timer.Time("solving", func() {
		result = promotion.Solve(graph)
	})

	// Run inserts the initial state first, so it always receives dense id 0
	// (pkg/explicit/explorer.go's Run).
	won := result.Winner[0] == promotion.Even
	log.Info("answer: %t", won)
	fmt.Println(won)
	return nil
}

func initialVector(p *lps.PBES) []rewrite.Term {
	out := make([]rewrite.Term, len(p.Parameters))
	out[0] = rewrite.StrLit{Value: p.Initial}
	for i := 1; i < len(p.Parameters); i++ {
		switch p.Parameters[i].Sort {
		case "Bool":
			out[i] = rewrite.BoolLit{Value: false}
		case "Int":
			out[i] = rewrite.IntLit{Value: 0}
		default:
			out[i] = rewrite.StrLit{Value: ""}
		}
	}
	return out
}

func initialStateVector(l *lps.LPS) (explicit.StateVector, error) {
	out := make(explicit.StateVector, len(l.Initial))
	for i, t := range l.Initial {
		v, ok := literalOf(t)
		if !ok {
			return nil, fmt.Errorf("pbespgsolve: initial value for parameter %d is not a literal", i)
		}
		out[i] = v
	}
	return out, nil
}

func literalOf(t rewrite.Term) (rewrite.Value, bool) {
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

func fail(err error) error {
	var ae *apperrors.Error
	if as, ok := err.(*apperrors.Error); ok {
		ae = as
	} else {
		ae = apperrors.InvariantBreach(apperrors.PhaseSolving, err.Error())
	}
	fmt.Fprintln(os.Stderr, ae.Error())
	os.Exit(apperrors.ExitCode(ae))
	return nil
}
