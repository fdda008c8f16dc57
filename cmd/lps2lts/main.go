// Command lps2lts performs explicit parallel state-space exploration of a
// Linear Process Specification, writing the discovered labelled transition
// system as a plain text edge list (spec.md §4.6).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/config"
	"github.com/mcrlgo/symparity/pkg/explicit"
	"github.com/mcrlgo/symparity/pkg/groups"
	"github.com/mcrlgo/symparity/pkg/logging"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
	"github.com/mcrlgo/symparity/pkg/timing"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagInput    string
	flagOutput   string
	flagTimingTo string
)

func main() {
	root := &cobra.Command{
		Use:   "lps2lts [flags]",
		Short: "Explicitly explore an LPS's state space",
		RunE:  run,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a symparity.yaml config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&flagInput, "in", "i", "", "input LPS path (empty: stdin)")
	root.Flags().StringVarP(&flagOutput, "out", "o", "", "output edge-list path (empty: stdout)")
	root.Flags().StringVar(&flagTimingTo, "timing-yaml", "", "write a timing report to this path (empty: stderr)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	log := logging.NewStderrLogger(logging.ParseLevel(cfg.Log.Level))
	if flagVerbose {
		log = logging.NewStderrLogger(logging.LevelDebug)
	}
	logging.SetGlobal(log)

	timer := timing.NewExecutionTimer("lps2lts")
	defer timer.WriteReport(flagTimingTo)

	var l *lps.LPS
	timer.Time("instantiation", func() {
		f, ferr := lps.OpenInput(flagInput)
		if ferr != nil {
			err = ferr
			return
		}
		defer f.Close()
		l, err = lps.ReadLPS(f)
	})
	if err != nil {
		return fail(apperrors.InputShape(apperrors.PhaseInstantiation, err.Error()))
	}

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
	l = &lps.LPS{Parameters: l.Parameters, Summands: summands, Initial: l.Initial}

	var confluentTau []bool
	if cfg.Explicit.ConfluenceAction != "" {
		confluentTau = make([]bool, len(l.Summands))
		for i, s := range l.Summands {
			confluentTau[i] = s.Action != nil && s.Action.Name == cfg.Explicit.ConfluenceAction
		}
	}

	strategy := explicit.StrategyBreadth
	switch cfg.Explicit.SearchStrategy {
	case "depth":
		strategy = explicit.StrategyDepth
	case "highway":
		strategy = explicit.StrategyHighway
	}

	out := os.Stdout
	if flagOutput != "" {
		f, ferr := os.Create(flagOutput)
		if ferr != nil {
			return fail(apperrors.InvariantBreach(apperrors.PhaseExploration, ferr.Error()))
		}
		defer f.Close()
		out = f
	}

	explorer := explicit.NewExplorer(l, rewrite.Domains{}, rewrite.NewSimpleRewriter(), explicit.Config{
		Workers:      cfg.Explicit.Workers,
		Strategy:     strategy,
		HighwayN:     cfg.Explicit.HighwayN,
		Cache:        true,
		GlobalCache:  true,
		ConfluentTau: confluentTau,
		MaxStates:    cfg.Explicit.TodoMax,
	}, explicit.Hooks{
		ExamineTransition: func(src explicit.StateID, action string, argsVal []rewrite.Value, dst explicit.StateID, summandIdx int) {
			fmt.Fprintf(out, "%d -%s-> %d\n", src, action, dst)
		},
	}, log)

	initial, err := initialVector(l)
	if err != nil {
		return fail(apperrors.InputShape(apperrors.PhaseInstantiation, err.Error()))
	}

	timer.Time("exploration", func() {
		err = explorer.Run(context.Background(), initial)
	})
	if err != nil {
		return fail(err)
	}

	log.Info("states: %d", explorer.Table.Len())
	return nil
}

func initialVector(l *lps.LPS) (explicit.StateVector, error) {
	out := make(explicit.StateVector, len(l.Initial))
	for i, t := range l.Initial {
		v, ok := literalOf(t)
		if !ok {
			return nil, fmt.Errorf("lps2lts: initial value for parameter %d is not a literal", i)
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

func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

func fail(err error) error {
	var ae *apperrors.Error
	if as, ok := err.(*apperrors.Error); ok {
		ae = as
	} else {
		ae = apperrors.InvariantBreach(apperrors.PhaseExploration, err.Error())
	}
	fmt.Fprintln(os.Stderr, ae.Error())
	os.Exit(apperrors.ExitCode(ae))
	return nil
}
