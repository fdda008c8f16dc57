// Package bdd implements spec.md §6's decision-diagram kernel contract for
// binary decision diagrams: a hash-consed, maximally-shared representation
// of boolean functions over a fixed variable order, with the usual
// ite/exists/forall/compose operators.
//
// spec.md treats the BDD side of the decision-diagram kernel as an
// external collaborator alongside the LDD side (no Sylvan/BDD binding
// exists anywhere in the retrieval pack); this package is this module's
// own implementation of that contract, reusing pkg/ldd's hash-consing
// discipline (one canonical handle per distinct (var, then, else) shape)
// applied to the binary case. Operation semantics (not code) were
// cross-checked against
// original_source/3rd-party/sylvan/src/sylvan_bdd.hpp's ite/exists/relprod
// family. spec.md's rewriter stand-in (pkg/rewrite) evaluates conditions by
// term substitution rather than by compiling them into a shared diagram, so
// nothing in this tree calls into this package yet (see DESIGN.md); it is
// kept as a self-contained, independently tested kernel for a future
// condition compiler that would want it.
package bdd

import "sync"

// Ref is a hash-consed reference to a BDD node or terminal.
type Ref uint64

const (
	// False is the constant-false terminal.
	False Ref = 0
	// True is the constant-true terminal.
	True Ref = 1
)

// node is the structural shape of a non-terminal BDD node: branch on
// variable var, taking then when var is true and els when var is false.
// Variables are ordered by increasing index from root to leaf.
type node struct {
	v    uint32
	then Ref
	els  Ref
}

// Kernel owns one hash-consed node table and its operation caches. All
// BDDs manipulated together must share one Kernel.
type Kernel struct {
	mu    sync.Mutex
	nodes []node
	index map[node]Ref

	iteCache    map[[3]Ref]Ref
	existsCache map[[2]Ref]Ref
}

// NewKernel creates an empty BDD kernel.
func NewKernel() *Kernel {
	return &Kernel{
		nodes:       make([]node, 2), // placeholders for False, True
		index:       make(map[node]Ref),
		iteCache:    make(map[[3]Ref]Ref),
		existsCache: make(map[[2]Ref]Ref),
	}
}

func (k *Kernel) get(r Ref) node { return k.nodes[r] }

// mk returns the hash-consed reference for (v, then, els), applying the
// standard BDD reduction rule: a node whose branches agree contributes
// nothing and is elided.
func (k *Kernel) mk(v uint32, then, els Ref) Ref {
	if then == els {
		return then
	}
	n := node{v: v, then: then, els: els}
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

// Var returns the BDD for the single boolean variable v (true branch is
// True, false branch is False).
func (k *Kernel) Var(v uint32) Ref {
	return k.mk(v, True, False)
}

// Not returns the negation of a.
func (k *Kernel) Not(a Ref) Ref {
	return k.Ite(a, False, True)
}

// And returns a ∧ b.
func (k *Kernel) And(a, b Ref) Ref {
	return k.Ite(a, b, False)
}

// Or returns a ∨ b.
func (k *Kernel) Or(a, b Ref) Ref {
	return k.Ite(a, True, b)
}

// Ite computes if-then-else(f, g, h): the standard BDD apply algorithm,
// recursing on the top variable of whichever of f/g/h has the smallest
// index and memoising on the operand triple.
func (k *Kernel) Ite(f, g, h Ref) Ref {
	switch {
	case f == True:
		return g
	case f == False:
		return h
	case g == h:
		return g
	case g == True && h == False:
		return f
	}

	key := [3]Ref{f, g, h}
	k.mu.Lock()
	if r, ok := k.iteCache[key]; ok {
		k.mu.Unlock()
		return r
	}
	k.mu.Unlock()

	v := k.topVar(f, g, h)
	ft, fe := k.restrict(f, v)
	gt, ge := k.restrict(g, v)
	ht, he := k.restrict(h, v)

	result := k.mk(v, k.Ite(ft, gt, ht), k.Ite(fe, ge, he))

	k.mu.Lock()
	k.iteCache[key] = result
	k.mu.Unlock()
	return result
}

// topVar returns the smallest variable index branched on by any of the
// (possibly terminal) refs.
func (k *Kernel) topVar(refs ...Ref) uint32 {
	var best uint32
	found := false
	for _, r := range refs {
		if r == True || r == False {
			continue
		}
		n := k.get(r)
		if !found || n.v < best {
			best = n.v
			found = true
		}
	}
	return best
}

// restrict splits r into its then/else cofactors with respect to v: if r
// does not branch on v, both cofactors are r itself (v does not occur).
func (k *Kernel) restrict(r Ref, v uint32) (then, els Ref) {
	if r == True || r == False {
		return r, r
	}
	n := k.get(r)
	if n.v != v {
		return r, r
	}
	return n.then, n.els
}

// Exists eliminates vs by disjunction: ∃v. f = f[v:=true] ∨ f[v:=false],
// applied one variable at a time.
func (k *Kernel) Exists(f Ref, vs []uint32) Ref {
	for _, v := range vs {
		f = k.existsOne(f, v)
	}
	return f
}

// Forall eliminates vs by conjunction, via De Morgan: ∀v. f = ¬∃v. ¬f.
func (k *Kernel) Forall(f Ref, vs []uint32) Ref {
	return k.Not(k.Exists(k.Not(f), vs))
}

func (k *Kernel) existsOne(f Ref, v uint32) Ref {
	if f == True || f == False {
		return f
	}
	key := [2]Ref{f, Ref(v) << 32}
	k.mu.Lock()
	if r, ok := k.existsCache[key]; ok {
		k.mu.Unlock()
		return r
	}
	k.mu.Unlock()

	n := k.get(f)
	var result Ref
	switch {
	case n.v == v:
		result = k.Or(n.then, n.els)
	case n.v > v:
		result = f // v lies above f's top variable, so f does not depend on it
	default:
		result = k.mk(n.v, k.existsOne(n.then, v), k.existsOne(n.els, v))
	}

	k.mu.Lock()
	k.existsCache[key] = result
	k.mu.Unlock()
	return result
}

// Compose substitutes, for each key in mapping, the BDD mapping[key] for
// variable key in f (spec.md §6's BDD "substitution compose(map)").
func (k *Kernel) Compose(f Ref, mapping map[uint32]Ref) Ref {
	if f == True || f == False {
		return f
	}
	n := k.get(f)
	then := k.Compose(n.then, mapping)
	els := k.Compose(n.els, mapping)
	if repl, ok := mapping[n.v]; ok {
		return k.Ite(repl, then, els)
	}
	return k.Ite(k.Var(n.v), then, els)
}

// NodeCount returns the number of distinct reachable nodes under r
// (terminals included once each if reachable).
func (k *Kernel) NodeCount(r Ref) int {
	seen := make(map[Ref]bool)
	var walk func(Ref)
	walk = func(x Ref) {
		if seen[x] {
			return
		}
		seen[x] = true
		if x == True || x == False {
			return
		}
		n := k.get(x)
		walk(n.then)
		walk(n.els)
	}
	walk(r)
	return len(seen)
}

// SatCount counts the number of satisfying assignments of f over exactly
// nvars boolean variables indexed 0..nvars-1.
func (k *Kernel) SatCount(f Ref, nvars int) uint64 {
	memo := make(map[Ref]uint64)
	var count func(Ref, int) uint64
	count = func(x Ref, depth int) uint64 {
		if x == False {
			return 0
		}
		if x == True {
			return 1 << uint(nvars-depth)
		}
		n := k.get(x)
		c, ok := memo[x]
		if !ok {
			c = count(n.then, int(n.v)+1) + count(n.els, int(n.v)+1)
			memo[x] = c
		}
		return c << uint(int(n.v)-depth)
	}
	return count(f, 0)
}
