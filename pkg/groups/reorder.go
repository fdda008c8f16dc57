package groups

import (
	"fmt"
	"math/rand"

	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// ReorderStrategy selects how the process-parameter permutation is chosen,
// spec.md §4.2 step 4.
type ReorderStrategy int

const (
	ReorderNone ReorderStrategy = iota
	ReorderRandom
	ReorderUser
)

// ComputePermutation returns the permutation π over {0..n-1} spec.md §4.2
// step 4 describes. For ReorderUser, perm must already be validated as a
// bijection fixing position 0 when fixFirst is true (the PBES
// propositional-variable tag); ComputePermutation still re-checks it.
func ComputePermutation(strategy ReorderStrategy, n int, userPerm []int, fixFirst bool, rng *rand.Rand) ([]int, error) {
	switch strategy {
	case ReorderNone:
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		return perm, nil
	case ReorderRandom:
		perm := make([]int, n)
		for i := range perm {
			perm[i] = i
		}
		start := 0
		if fixFirst {
			start = 1
		}
		for i := n - 1; i > start; i-- {
			j := start + rng.Intn(i-start+1)
			perm[i], perm[j] = perm[j], perm[i]
		}
		return perm, nil
	case ReorderUser:
		if err := validatePermutation(userPerm, n, fixFirst); err != nil {
			return nil, err
		}
		return append([]int(nil), userPerm...), nil
	default:
		return nil, fmt.Errorf("groups: unknown reorder strategy %d", strategy)
	}
}

func validatePermutation(perm []int, n int, fixFirst bool) error {
	if len(perm) != n {
		return apperrors.InputShape("instantiation", fmt.Sprintf("permutation length %d does not match parameter count %d", len(perm), n))
	}
	seen := make([]bool, n)
	for _, v := range perm {
		if v < 0 || v >= n || seen[v] {
			return apperrors.InputShape("instantiation", "permutation is not a bijection over {0..n-1}")
		}
		seen[v] = true
	}
	if fixFirst && perm[0] != 0 {
		return apperrors.InputShape("instantiation", "permutation must fix position 0 (the PBES propositional-variable tag)")
	}
	return nil
}

// ApplyPermutation reorders params and every summand's NextState positions
// according to perm (perm[i] gives the original position now placed at i),
// so that every downstream vector uses the permuted order (spec.md §3's
// invariant that every vector uses the same permutation). SumVars,
// Condition and Action are copied unchanged.
func ApplyPermutation(params []lps.ProcessParameter, summands []lps.Summand, perm []int) ([]lps.ProcessParameter, []lps.Summand) {
	newParams := make([]lps.ProcessParameter, len(perm))
	for i, orig := range perm {
		newParams[i] = params[orig]
	}

	newSummands := make([]lps.Summand, len(summands))
	for si, s := range summands {
		ns := lps.Summand{
			SumVars:       s.SumVars,
			Condition:     s.Condition,
			Action:        s.Action,
			PropVarUpdate: s.PropVarUpdate,
		}
		if s.NextState != nil {
			ns.NextState = make([]rewrite.Term, len(perm))
			for i, orig := range perm {
				ns.NextState[i] = s.NextState[orig]
			}
		}
		newSummands[si] = ns
	}
	return newParams, newSummands
}
