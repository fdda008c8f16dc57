package ldd

// Project projects r (a set of n-tuples) onto the positions where keep is
// true, returning a set of len(kept-positions)-tuples (spec.md §3, "project
// onto a subset of positions"). n must equal len(keep).
func (k *Kernel) Project(r Ref, keep []bool) Ref {
	cache := make(map[Ref]Ref)
	return k.projectRec(r, 0, keep, cache)
}

func (k *Kernel) projectRec(r Ref, depth int, keep []bool, cache map[Ref]Ref) Ref {
	if r == Empty {
		return Empty
	}
	if depth == len(keep) {
		return One // r must be One here; any well-formed diagram agrees.
	}
	if v, ok := cache[r]; ok {
		return v
	}
	n := k.get(r)
	var result Ref
	if keep[depth] {
		down := k.projectRec(n.down, depth+1, keep, cache)
		right := k.projectRec(n.right, depth, keep, cache)
		result = k.mk(n.value, down, right)
	} else {
		// Dropping this position collapses every value branch into a
		// single don't-care continuation: union the projections of the
		// kept value (down) and of every sibling value (right).
		down := k.projectRec(n.down, depth+1, keep, cache)
		right := k.projectRec(n.right, depth, keep, cache)
		result = k.Union(down, right)
	}
	cache[r] = result
	return result
}

// dropValueUnion collapses every sibling-value branch of r (a single LDD
// level) into the union of their continuations, i.e. "project out this one
// position". Project's drop case does the same union inline; this helper
// is used by relational.go for write-only positions whose prior value is
// unconstrained.
func (k *Kernel) dropValueUnion(r Ref) Ref {
	if r == Empty {
		return Empty
	}
	n := k.get(r)
	return k.Union(n.down, k.dropValueUnion(n.right))
}

// siblings walks the right-chain at r and returns its (value, down) pairs
// in ascending order. It is a convenience used by relational.go's
// meta-driven matching, trading pointer-merge elegance for clarity: state
// spaces exercised by this module's tests and partial-solve heuristics are
// small enough that this is not a bottleneck.
func (k *Kernel) siblings(r Ref) []struct {
	Value uint32
	Down  Ref
} {
	var out []struct {
		Value uint32
		Down  Ref
	}
	for r != Empty {
		n := k.get(r)
		out = append(out, struct {
			Value uint32
			Down  Ref
		}{n.value, n.down})
		r = n.right
	}
	return out
}
