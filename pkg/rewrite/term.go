// Package rewrite implements the narrow rewriter/enumerator contract spec.md
// §6 consumes from an external data-term rewriter: normalising a
// boolean-sorted expression under a mutable indexed substitution, and
// enumerating satisfying assignments of a finite-variable footprint.
//
// No mCRL2-style rewriter exists anywhere in the retrieval pack, so this is
// a self-contained, deliberately small expression language and evaluator —
// just enough to drive §4.3's algorithm end to end — rather than a general
// term rewriting system. The Var/Substitution/Walk shape is grounded on the
// teacher's own term machinery (pkg/minikanren/variable.go,
// nominal_subst.go), narrowed from unification to one-directional
// evaluation.
package rewrite

import "fmt"

// Term is a node in the small expression language rewrite.Rewriter
// evaluates. Every Term is immutable once built.
type Term interface {
	// Variables returns the free variable names occurring in this term,
	// in left-to-right order, without duplicates.
	Variables() []string
	String() string
}

// Var references a process parameter or summation variable by name.
type Var struct{ Name string }

func (v Var) Variables() []string { return []string{v.Name} }
func (v Var) String() string      { return v.Name }

// BoolLit is a literal boolean value.
type BoolLit struct{ Value bool }

func (b BoolLit) Variables() []string { return nil }
func (b BoolLit) String() string      { return fmt.Sprintf("%v", b.Value) }

// IntLit is a literal integer value (covers spec.md's finite arithmetic
// sorts; a distinct Nat sort is not modelled — plain non-negative IntLit
// values stand in for it).
type IntLit struct{ Value int64 }

func (i IntLit) Variables() []string { return nil }
func (i IntLit) String() string      { return fmt.Sprintf("%d", i.Value) }

// StrLit is a literal value of an opaque finite sort, most prominently the
// PBES propositional-variable tag (spec.md §3's "PBES equation index"),
// whose carrier is the set of equation names rather than a number.
type StrLit struct{ Value string }

func (s StrLit) Variables() []string { return nil }
func (s StrLit) String() string      { return s.Value }

// And, Or, Not are the boolean connectives conditions are built from.
type And struct{ Left, Right Term }
type Or struct{ Left, Right Term }
type Not struct{ Operand Term }

func (a And) Variables() []string { return union(a.Left.Variables(), a.Right.Variables()) }
func (a And) String() string      { return fmt.Sprintf("(%s && %s)", a.Left, a.Right) }

func (o Or) Variables() []string { return union(o.Left.Variables(), o.Right.Variables()) }
func (o Or) String() string      { return fmt.Sprintf("(%s || %s)", o.Left, o.Right) }

func (n Not) Variables() []string { return n.Operand.Variables() }
func (n Not) String() string      { return fmt.Sprintf("!%s", n.Operand) }

// Eq and Lt are the two comparison operators used to build conditions and
// next-state expressions over the small arithmetic sublanguage.
type Eq struct{ Left, Right Term }
type Lt struct{ Left, Right Term }

func (e Eq) Variables() []string { return union(e.Left.Variables(), e.Right.Variables()) }
func (e Eq) String() string      { return fmt.Sprintf("(%s == %s)", e.Left, e.Right) }

func (l Lt) Variables() []string { return union(l.Left.Variables(), l.Right.Variables()) }
func (l Lt) String() string      { return fmt.Sprintf("(%s < %s)", l.Left, l.Right) }

// Plus is the one arithmetic operator next-state expressions may use.
type Plus struct{ Left, Right Term }

func (p Plus) Variables() []string { return union(p.Left.Variables(), p.Right.Variables()) }
func (p Plus) String() string      { return fmt.Sprintf("(%s + %s)", p.Left, p.Right) }

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, xs := range [][]string{a, b} {
		for _, v := range xs {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
