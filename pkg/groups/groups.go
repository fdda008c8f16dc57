// Package groups implements spec.md §4.2's summand-group static analysis:
// grouping summands sharing a read/write pattern, computing each group's
// projection masks and the copy-position vector the decision-diagram
// kernel needs, and the variable-reordering and preprocessing passes that
// run before grouping.
package groups

import (
	"github.com/mcrlgo/symparity/pkg/ldd"
	"github.com/mcrlgo/symparity/pkg/lps"
	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// TransitionGroup is spec.md §3's "Transition group": the read/write
// summary shared by every summand in the group, the projection masks used
// to drive relprod/relprev, and the accumulated L/Ldomain learned by the
// reachability engine (pkg/reach) as exploration proceeds.
type TransitionGroup struct {
	Summands []lps.Summand

	Read  []int // ascending parameter positions read
	Write []int // ascending parameter positions written

	// ReadPos/WritePos give, for each entry of Read/Write respectively,
	// the position at which it appears in the interleaved tuple layout
	// used by Ip/Ir/L (the sorted merge of Read and Write, spec.md §3).
	ReadPos  []int
	WritePos []int

	Ip   []bool // projection mask selecting Read positions, length n
	Ir   []bool // projection mask selecting Read ∪ Write positions, length n
	Meta ldd.Meta

	// Copy marks, for each write-position entry (indexed like Write),
	// whether this write reproduces a read of the same parameter via an
	// identity next-state expression — the decision-diagram kernel's
	// CopyMarker optimisation (spec.md §3's `copy` vector).
	Copy []bool

	L       ldd.Ref
	Ldomain ldd.Ref
}

// BuildGroup derives a TransitionGroup's static shape (Read/Write/positions/
// masks/Meta/Copy) from the union pattern of its summands. L and Ldomain
// start at ldd.Empty; the reachability engine populates them.
func BuildGroup(params []lps.ProcessParameter, summands []lps.Summand, pattern lps.Pattern) TransitionGroup {
	n := len(params)
	g := TransitionGroup{
		Summands: summands,
		Ip:       make([]bool, n),
		Ir:       make([]bool, n),
		Meta:     make(ldd.Meta, n),
		L:        ldd.Empty,
		Ldomain:  ldd.Empty,
	}

	for i := 0; i < n; i++ {
		r, w := pattern.Read[i], pattern.Write[i]
		switch {
		case r && w:
			g.Meta[i] = ldd.MetaReadWrite
		case r:
			g.Meta[i] = ldd.MetaRead
		case w:
			g.Meta[i] = ldd.MetaWrite
		default:
			g.Meta[i] = ldd.MetaSkip
		}
		if r {
			g.Read = append(g.Read, i)
			g.Ip[i] = true
			g.Ir[i] = true
		}
		if w {
			g.Write = append(g.Write, i)
			g.Ir[i] = true
		}
	}

	pos := 0
	writeIdx := 0
	for i := 0; i < n; i++ {
		switch g.Meta[i] {
		case ldd.MetaRead:
			g.ReadPos = append(g.ReadPos, pos)
			pos++
		case ldd.MetaWrite:
			g.WritePos = append(g.WritePos, pos)
			pos++
			writeIdx++
		case ldd.MetaReadWrite:
			g.ReadPos = append(g.ReadPos, pos)
			g.WritePos = append(g.WritePos, pos+1)
			pos += 2
			writeIdx++
		}
	}

	g.Copy = computeCopy(params, summands, g)
	return g
}

// computeCopy determines, for each write-position entry (in g.Write order),
// whether every summand of the group either doesn't write that parameter
// or writes it via the identity expression — the condition under which the
// kernel may store ldd.CopyMarker instead of a literal value.
func computeCopy(params []lps.ProcessParameter, summands []lps.Summand, g TransitionGroup) []bool {
	copy := make([]bool, len(g.Write))
	for ci, paramPos := range g.Write {
		isCopy := true
		// "copy" only applies when every summand of this group that
		// touches this position writes it via the identity expression —
		// a transient artifact of the `used`/`simple` grouping policies
		// combining summands with different copy behaviour.
		for _, s := range summands {
			if paramPos >= len(s.NextState) || s.NextState[paramPos] == nil {
				continue
			}
			if v, ok := s.NextState[paramPos].(rewrite.Var); !ok || v.Name != params[paramPos].Name {
				isCopy = false
			}
		}
		copy[ci] = isCopy
	}
	return copy
}
