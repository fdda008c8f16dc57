// Command pbessolve decides a Parameterised Boolean Equation System's
// initial equation by flattening it to an LPS, exploring its symbolic
// reachable state space, labelling the result as a parity game, and
// running Zielonka's algorithm (spec.md §4.2, §4.4, §4.5).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcrlgo/symparity/internal/cliutil"
	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/pgame"
	"github.com/mcrlgo/symparity/pkg/rewrite"
	"github.com/mcrlgo/symparity/pkg/timing"
)

var (
	flagConfig   string
	flagVerbose  bool
	flagInput    string
	flagTimingTo string
	flagNoTotal  bool
)

func main() {
	root := &cobra.Command{
		Use:   "pbessolve [flags]",
		Short: "Decide a PBES's initial equation via symbolic parity-game solving",
		RunE:  run,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a symparity.yaml config file")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.Flags().StringVarP(&flagInput, "in", "i", "", "input PBES path (empty: stdin)")
	root.Flags().StringVar(&flagTimingTo, "timing-yaml", "", "write a timing report to this path (empty: stderr)")
	root.Flags().BoolVar(&flagNoTotal, "no-make-total", false, "skip adding true/false sink equations (invariant I5)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	boot, err := cliutil.NewBootstrap(flagConfig, flagVerbose)
	if err != nil {
		return fail(err)
	}
	timer := timing.NewExecutionTimer("pbessolve")
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
	if !flagNoTotal {
		unified = lps.MakeTotal(unified)
	}
	idx, err := lps.BuildEquationIndex(unified)
	if err != nil {
		return fail(err)
	}

	flat := lps.Flatten(unified)
	flat.Initial = initialVector(unified)

	prep, err := cliutil.Prepare(flat, boot.Cfg)
	if err != nil {
		return fail(err)
	}
	eng, k, tables := cliutil.BuildEngine(prep, rewrite.Domains{}, boot.Log, boot.Cfg)
	if eng.Pool != nil {
		defer eng.Pool.Shutdown()
	}
	initial, err := cliutil.EncodeInitial(flat, prep.Perm)
	if err != nil {
		return fail(apperrors.InputShape(apperrors.PhaseInstantiation, err.Error()))
	}
	initVref, err := eng.Initial(initial)
	if err != nil {
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

	propVarTable := tables.At(0)
	game := pgame.NewGame(k, vref, len(prep.Params), prep.Groups, propVarTable, idx)

	var won bool
	timer.Time("solving", func() {
		W, _ := game.Solve(vref)
		won = k.Includes(initVref, W[pgame.Player0])
	})

	boot.Log.Info("answer: %t", won)
	fmt.Println(won)
	return nil
}

// initialVector picks a concrete initial parameter assignment for the
// flattened LPS: position 0 (the propositional-variable tag) is the PBES's
// designated initial equation name; every other unified parameter has no
// single well-defined initial value once equations are merged (PBES's wire
// format records only the initial equation name, not a concrete argument
// vector per spec.md §12), so this picks each sort's zero value, matching
// the initial instantiation PBES tools commonly substitute when the input
// does not supply one.
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
