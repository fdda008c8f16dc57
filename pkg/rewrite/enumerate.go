package rewrite

import "fmt"

// Enumerable is the (variables, expression) pair spec.md §6 calls
// `enumerate(elt, σ, yield, is_false_pred, is_true_pred?)`: Vars lists the
// summation variables to bind, Expression is the boolean-sorted term to
// test under each candidate binding.
type Enumerable struct {
	Vars       []string
	Expression Term
}

// Domains supplies each variable's finite carrier: the concrete values the
// enumerator tries, in a stable order (spec.md §4.3, "Ordering guarantee").
// A missing entry for a variable that Enumerate needs to bind is a fatal
// input-shape problem ("a sort of a process parameter has no enumerator",
// spec.md §4.2 failure conditions).
type Domains map[string][]Value

// Visit is called once per satisfying assignment; sigma carries the full
// current binding (including variables already bound by the caller before
// Enumerate was invoked). Returning false stops enumeration early.
type Visit func(sigma *Substitution) bool

// Enumerate visits every assignment of elt.Vars for which elt.Expression
// does not rewrite to false under sigma, depth-first in domain order. It
// returns ErrUnderSpecified if, with every one of elt.Vars bound, the
// expression still fails to rewrite to a boolean literal — spec.md §4.3
// step 3's "under-specified condition" failure.
func Enumerate(r Rewriter, elt Enumerable, domains Domains, sigma *Substitution, visit Visit) error {
	return enumerateRec(r, elt.Vars, elt.Expression, domains, sigma, visit)
}

func enumerateRec(r Rewriter, remaining []string, expr Term, domains Domains, sigma *Substitution, visit Visit) error {
	if len(remaining) == 0 {
		result, err := r.Rewrite(expr, sigma)
		if err != nil {
			return err
		}
		if IsFalse(result) {
			return nil
		}
		if !IsTrue(result) {
			return &ErrUnderSpecified{Partial: result.String()}
		}
		visit(sigma)
		return nil
	}

	name := remaining[0]
	rest := remaining[1:]
	values, ok := domains[name]
	if !ok {
		return fmt.Errorf("rewrite: no enumerator registered for variable %q", name)
	}

	stop := false
	for _, v := range values {
		if stop {
			break
		}
		sigma.Bind(name, v)
		err := enumerateRec(r, rest, expr, domains, sigma, func(s *Substitution) bool {
			cont := visit(s)
			if !cont {
				stop = true
			}
			return cont
		})
		sigma.Unbind(name)
		if err != nil {
			return err
		}
	}
	return nil
}
