// Package ldd implements spec.md §6's decision-diagram kernel contract for
// list decision diagrams (LDDs): a hash-consed, maximally-shared
// representation of sets of fixed-length uint32 tuples, with union,
// intersect, minus, project, relprod, relprev, satcount and nodecount.
//
// spec.md treats the decision-diagram kernel as an external collaborator
// (no Sylvan/LDD binding exists anywhere in the retrieval pack); this
// package is this module's own implementation of that contract. The
// hash-consing/dedup discipline — one canonical handle per distinct
// structural shape, looked up by a comparable key before ever allocating a
// new one — reuses the atom/fact interning discipline of
// pkg/minikanren/pldb.go and fact_store.go, generalized from "intern one
// ground fact" to "intern one (value, down, right) node shape". Operation
// semantics (not code) were cross-checked against
// original_source/3rd-party/sylvan/src/sylvan_bdd.hpp.
package ldd

import "sync"

// Ref is a hash-consed reference to an LDD node or terminal. Refs are only
// ever compared for equality within a single Kernel.
type Ref uint64

const (
	// Empty is the empty set of tuples ("false").
	Empty Ref = 0
	// One marks the end of an accepted tuple ("true"); it is the LDD
	// analogue of the BDD "true" terminal, reached after consuming every
	// position of a tuple that is a member of the set.
	One Ref = 1
)

// node is the structural shape of a non-terminal LDD node: for the current
// tuple position, branch to down on value, or try the next value in the
// sorted sibling chain via right.
type node struct {
	value uint32
	down  Ref
	right Ref
}

// Kernel owns one hash-consed node table and its operation caches. All
// LDDs manipulated together (a reachable-state set, its todo/visited
// partitions, every group's L and Ldomain) must share one Kernel, because
// Refs are only meaningful relative to the table that produced them.
type Kernel struct {
	mu    sync.Mutex
	nodes []node          // index 0, 1 unused (reserved for Empty, One)
	index map[node]Ref

	unionCache map[[2]Ref]Ref
	interCache map[[2]Ref]Ref
	minusCache map[[2]Ref]Ref
}

// NewKernel creates an empty decision-diagram kernel.
func NewKernel() *Kernel {
	return &Kernel{
		nodes:      make([]node, 2), // placeholders for Empty/One
		index:      make(map[node]Ref),
		unionCache: make(map[[2]Ref]Ref),
		interCache: make(map[[2]Ref]Ref),
		minusCache: make(map[[2]Ref]Ref),
	}
}

func (k *Kernel) get(r Ref) node {
	return k.nodes[r]
}

// mk returns the hash-consed reference for (value, down, right), applying
// the standard LDD reduction rule: a branch leading to the empty set
// contributes nothing and is elided.
func (k *Kernel) mk(value uint32, down, right Ref) Ref {
	if down == Empty {
		return right
	}
	n := node{value: value, down: down, right: right}
	k.mu.Lock()
	defer k.mu.Unlock()
	if r, ok := k.index[n]; ok {
		return r
	}
	r := Ref(len(k.nodes))
	k.nodes = append(k.nodes, n)
	k.index[n] = r
	return r
}

// Empty reports the empty set LDD.
func (k *Kernel) Empty() Ref { return Empty }

// IsEmpty reports whether r is the empty set.
func (k *Kernel) IsEmpty(r Ref) bool { return r == Empty }

// Singleton builds the LDD containing exactly the one tuple cube.
func (k *Kernel) Singleton(cube []uint32) Ref {
	cur := One
	for i := len(cube) - 1; i >= 0; i-- {
		cur = k.mk(cube[i], cur, Empty)
	}
	return cur
}

// Member reports whether cube is a member of the set r.
func (k *Kernel) Member(r Ref, cube []uint32) bool {
	cur := r
	for _, v := range cube {
		if cur == Empty {
			return false
		}
		n := k.get(cur)
		found := false
		for {
			if n.value == v {
				cur = n.down
				found = true
				break
			}
			if n.right == Empty {
				break
			}
			n = k.get(n.right)
		}
		if !found {
			return false
		}
	}
	return cur == One
}

// Union computes the set union a ∪ b.
func (k *Kernel) Union(a, b Ref) Ref {
	if a == Empty {
		return b
	}
	if b == Empty {
		return a
	}
	if a == b {
		return a
	}
	key := cacheKey(a, b)
	k.mu.Lock()
	if r, ok := k.unionCache[key]; ok {
		k.mu.Unlock()
		return r
	}
	k.mu.Unlock()

	var result Ref
	if a == One || b == One {
		// Both operands describe tuples of the same fixed arity; if one
		// reached the accepting terminal the other must too (else the
		// caller mixed LDDs of different arity).
		result = One
	} else {
		na, nb := k.get(a), k.get(b)
		switch {
		case na.value < nb.value:
			result = k.mk(na.value, na.down, k.Union(na.right, b))
		case na.value > nb.value:
			result = k.mk(nb.value, nb.down, k.Union(a, nb.right))
		default:
			result = k.mk(na.value, k.Union(na.down, nb.down), k.Union(na.right, nb.right))
		}
	}

	k.mu.Lock()
	k.unionCache[key] = result
	k.mu.Unlock()
	return result
}

// Intersect computes the set intersection a ∩ b.
func (k *Kernel) Intersect(a, b Ref) Ref {
	if a == Empty || b == Empty {
		return Empty
	}
	if a == b {
		return a
	}
	key := cacheKey(a, b)
	k.mu.Lock()
	if r, ok := k.interCache[key]; ok {
		k.mu.Unlock()
		return r
	}
	k.mu.Unlock()

	var result Ref
	if a == One || b == One {
		result = One
	} else {
		na, nb := k.get(a), k.get(b)
		switch {
		case na.value < nb.value:
			result = k.Intersect(na.right, b)
		case na.value > nb.value:
			result = k.Intersect(a, nb.right)
		default:
			result = k.mk(na.value, k.Intersect(na.down, nb.down), k.Intersect(na.right, nb.right))
		}
	}
	k.mu.Lock()
	k.interCache[key] = result
	k.mu.Unlock()
	return result
}

// Minus computes the set difference a ∖ b.
func (k *Kernel) Minus(a, b Ref) Ref {
	if a == Empty {
		return Empty
	}
	if b == Empty {
		return a
	}
	if a == b {
		return Empty
	}
	key := [2]Ref{a, b} // not commutative: do not sort
	k.mu.Lock()
	if r, ok := k.minusCache[key]; ok {
		k.mu.Unlock()
		return r
	}
	k.mu.Unlock()

	var result Ref
	if a == One || b == One {
		result = Empty
	} else {
		na, nb := k.get(a), k.get(b)
		switch {
		case na.value < nb.value:
			result = k.mk(na.value, na.down, k.Minus(na.right, b))
		case na.value > nb.value:
			result = k.Minus(a, nb.right)
		default:
			result = k.mk(na.value, k.Minus(na.down, nb.down), k.Minus(na.right, nb.right))
		}
	}
	k.mu.Lock()
	k.minusCache[key] = result
	k.mu.Unlock()
	return result
}

// Includes reports whether a ⊆ b.
func (k *Kernel) Includes(a, b Ref) bool {
	return k.Minus(a, b) == Empty
}

func cacheKey(a, b Ref) [2]Ref {
	if a > b {
		a, b = b, a
	}
	return [2]Ref{a, b}
}
