package groups

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcrlgo/symparity/pkg/apperrors"
	"github.com/mcrlgo/symparity/pkg/lps"
)

// Policy selects how summands are partitioned into transition groups,
// spec.md §4.2 step 5.
type Policy int

const (
	// PolicyNone: one group per summand.
	PolicyNone Policy = iota
	// PolicyUsed: group by equal read∪write union pattern.
	PolicyUsed
	// PolicySimple: group by equal read/write pattern.
	PolicySimple
	// PolicyExplicit: partition by a caller-supplied index-set list.
	PolicyExplicit
)

// Compute partitions summands into groups per policy, widening patterns
// first if requested (noDiscardRead/noDiscardWrite), and builds each
// resulting TransitionGroup. explicitSpec is only consulted for
// PolicyExplicit, in the "0;1 3 4;2 5" syntax of spec.md §6.
func Compute(params []lps.ProcessParameter, summands []lps.Summand, policy Policy, noDiscardRead, noDiscardWrite bool, explicitSpec string) ([]TransitionGroup, error) {
	patterns := make([]lps.Pattern, len(summands))
	for i, s := range summands {
		p := lps.ComputePattern(params, s)
		p.Widen(noDiscardRead, noDiscardWrite)
		patterns[i] = p
	}

	var indexSets [][]int
	switch policy {
	case PolicyNone:
		for i := range summands {
			indexSets = append(indexSets, []int{i})
		}
	case PolicyUsed:
		indexSets = groupByKey(summands, func(i int) string { return unionKey(patterns[i]) })
	case PolicySimple:
		indexSets = groupByKey(summands, func(i int) string { return patternKey(patterns[i]) })
	case PolicyExplicit:
		sets, err := parseExplicitGroups(explicitSpec, len(summands))
		if err != nil {
			return nil, err
		}
		indexSets = sets
	default:
		return nil, fmt.Errorf("groups: unknown policy %d", policy)
	}

	var out []TransitionGroup
	for _, idxSet := range indexSets {
		var members []lps.Summand
		combined := patterns[idxSet[0]]
		for _, idx := range idxSet {
			members = append(members, summands[idx])
			if idx != idxSet[0] {
				combined = combined.Union(patterns[idx])
			}
		}
		out = append(out, BuildGroup(params, members, combined))
	}
	return out, nil
}

func unionKey(p lps.Pattern) string {
	var sb strings.Builder
	for i := range p.Read {
		if p.Read[i] || p.Write[i] {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func patternKey(p lps.Pattern) string {
	var sb strings.Builder
	for i := range p.Read {
		switch {
		case p.Read[i] && p.Write[i]:
			sb.WriteByte('B')
		case p.Read[i]:
			sb.WriteByte('R')
		case p.Write[i]:
			sb.WriteByte('W')
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func groupByKey(summands []lps.Summand, key func(i int) string) [][]int {
	order := make([]string, 0)
	buckets := make(map[string][]int)
	for i := range summands {
		k := key(i)
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], i)
	}
	out := make([][]int, 0, len(order))
	for _, k := range order {
		out = append(out, buckets[k])
	}
	return out
}

// parseExplicitGroups parses spec.md §6's `"0;1 3 4;2 5"` syntax: semicolon
// separates groups, whitespace separates indices within a group. It
// rejects an incomplete or overlapping partition of {0..n-1} (spec.md
// §4.2's failure conditions).
func parseExplicitGroups(spec string, n int) ([][]int, error) {
	groupsRaw := strings.Split(spec, ";")
	var out [][]int
	seen := make(map[int]bool)
	for _, g := range groupsRaw {
		fields := strings.Fields(g)
		var idxSet []int
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, apperrors.InputShape("instantiation", "explicit group list: not an integer: "+f)
			}
			if v < 0 || v >= n {
				return nil, apperrors.InputShape("instantiation", fmt.Sprintf("explicit group list: index %d out of range [0,%d)", v, n))
			}
			if seen[v] {
				return nil, apperrors.InputShape("instantiation", fmt.Sprintf("explicit group list: index %d listed more than once", v))
			}
			seen[v] = true
			idxSet = append(idxSet, v)
		}
		if len(idxSet) > 0 {
			out = append(out, idxSet)
		}
	}
	if len(seen) != n {
		return nil, apperrors.InputShape("instantiation", "explicit group list: partition is incomplete")
	}
	return out, nil
}
