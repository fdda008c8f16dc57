// Command lpsreach computes the reachable state space of a Linear Process
// Specification (spec.md §4.3), optionally dumping it as Graphviz or
// reporting its satcount/nodecount.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcrlgo/symparity/internal/cliutil"
	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
	"github.com/mcrlgo/symparity/pkg/timing"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagInput    string
	flagDot      string
	flagTimingTo string
)

func main() {
	root := &cobra.Command{
		Use:   "lpsreach [flags]",
		Short: "Compute the reachable state space of an LPS",
		RunE:  run,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a symparity.yaml config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&flagInput, "in", "i", "", "input LPS path (empty: stdin)")
	root.Flags().StringVar(&flagDot, "dot", "", "write the reachable set as Graphviz to this path")
	root.Flags().StringVar(&flagTimingTo, "timing-yaml", "", "write a timing report to this path (empty: stderr)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	boot, err := cliutil.NewBootstrap(flagConfig, flagVerbose)
	if err != nil {
		return fail(err)
	}
	timer := timing.NewExecutionTimer("lpsreach")
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

	prep, err := cliutil.Prepare(l, boot.Cfg)
	if err != nil {
		return fail(err)
	}

	eng, k, _ := cliutil.BuildEngine(prep, rewrite.Domains{}, boot.Log, boot.Cfg)
	if eng.Pool != nil {
		defer eng.Pool.Shutdown()
	}
	initial, err := cliutil.EncodeInitial(l, prep.Perm)
	if err != nil {
		return fail(apperrors.InputShape(apperrors.PhaseInstantiation, err.Error()))
	}
	if _, err = eng.Initial(initial); err != nil {
		return fail(err)
	}

	var vref = eng.Visited()
	timer.Time("exploration", func() {
		vref, err = eng.Run()
	})
	if err != nil {
		return fail(err)
	}

	boot.Log.Info("reachable states: %s (nodecount=%d)", k.SatCount(vref).String(), k.NodeCount(vref))
	if eng.Cfg.Deadlocks {
		boot.Log.Info("deadlocks: %s", k.SatCount(eng.Deadlocks()).String())
	}

	if flagDot != "" {
		out, ferr := os.Create(flagDot)
		if ferr != nil {
			return fail(apperrors.InvariantBreach(apperrors.PhaseExploration, ferr.Error()))
		}
		defer out.Close()
		if err := k.WriteDot(out, vref); err != nil {
			return fail(apperrors.InvariantBreach(apperrors.PhaseExploration, err.Error()))
		}
	}
	return nil
}

func fail(err error) error {
	var ae *apperrors.Error
	if as, ok := err.(*apperrors.Error); ok {
		ae = as
	} else {
		ae = apperrors.InvariantBreach(apperrors.PhaseInstantiation, err.Error())
	}
	fmt.Fprintln(os.Stderr, ae.Error())
	os.Exit(apperrors.ExitCode(ae))
	return nil
}
