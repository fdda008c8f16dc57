package rewrite

// Rewriter reduces a term to normal form under a substitution. It mirrors
// spec.md §6's consumed contract: rewrite(e, σ) → e'. Implementations must
// be clonable and are not required to be safe for concurrent use.
type Rewriter interface {
	// Rewrite evaluates e as far as possible under sigma, returning the
	// simplified term (ideally a BoolLit/IntLit) and no error, or a
	// non-nil error if evaluation cannot proceed (e.g. ErrUnboundVariable
	// surfacing from a leaf the caller expected to be bound).
	Rewrite(e Term, sigma *Substitution) (Term, error)
	// Clone returns an independent Rewriter instance for a new worker.
	Clone() Rewriter
}

// SimpleRewriter is the default Rewriter: a straightforward bottom-up
// evaluator over the term language of term.go, with no memoization of its
// own (callers needing caching layer it on top, per spec.md §4.6's
// per-summand/global cache discipline).
type SimpleRewriter struct{}

// NewSimpleRewriter returns a fresh SimpleRewriter. It carries no internal
// state, so every instance behaves identically; Clone exists to satisfy the
// Rewriter contract's "one clone per worker" requirement.
func NewSimpleRewriter() *SimpleRewriter { return &SimpleRewriter{} }

func (r *SimpleRewriter) Clone() Rewriter { return &SimpleRewriter{} }

// Rewrite evaluates e bottom-up, substituting bound variables and folding
// constant subexpressions. A term that still contains an unbound Var after
// folding is returned as-is (not an error) so that enumerate can complete
// the substitution and rewrite again; only a top-level non-terminal result
// after a caller believes the substitution is complete constitutes
// under-specification, and that classification is the caller's
// responsibility (pkg/reach, pkg/explicit), not this package's.
func (r *SimpleRewriter) Rewrite(e Term, sigma *Substitution) (Term, error) {
	switch t := e.(type) {
	case BoolLit:
		return t, nil
	case IntLit:
		return t, nil
	case StrLit:
		return t, nil
	case Var:
		if v, ok := sigma.Lookup(t.Name); ok {
			switch val := v.(type) {
			case bool:
				return BoolLit{val}, nil
			case int64:
				return IntLit{val}, nil
			case int:
				return IntLit{int64(val)}, nil
			case string:
				return StrLit{val}, nil
			default:
				return t, nil
			}
		}
		return t, nil
	case Not:
		x, err := r.Rewrite(t.Operand, sigma)
		if err != nil {
			return nil, err
		}
		if b, ok := x.(BoolLit); ok {
			return BoolLit{!b.Value}, nil
		}
		return Not{x}, nil
	case And:
		l, err := r.Rewrite(t.Left, sigma)
		if err != nil {
			return nil, err
		}
		if lb, ok := l.(BoolLit); ok && !lb.Value {
			return BoolLit{false}, nil
		}
		rt, err := r.Rewrite(t.Right, sigma)
		if err != nil {
			return nil, err
		}
		if rb, ok := rt.(BoolLit); ok && !rb.Value {
			return BoolLit{false}, nil
		}
		if lb, lok := l.(BoolLit); lok {
			if rb, rok := rt.(BoolLit); rok {
				return BoolLit{lb.Value && rb.Value}, nil
			}
		}
		return And{l, rt}, nil
	case Or:
		l, err := r.Rewrite(t.Left, sigma)
		if err != nil {
			return nil, err
		}
		if lb, ok := l.(BoolLit); ok && lb.Value {
			return BoolLit{true}, nil
		}
		rt, err := r.Rewrite(t.Right, sigma)
		if err != nil {
			return nil, err
		}
		if rb, ok := rt.(BoolLit); ok && rb.Value {
			return BoolLit{true}, nil
		}
		if lb, lok := l.(BoolLit); lok {
			if rb, rok := rt.(BoolLit); rok {
				return BoolLit{lb.Value || rb.Value}, nil
			}
		}
		return Or{l, rt}, nil
	case Eq:
		l, err := r.Rewrite(t.Left, sigma)
		if err != nil {
			return nil, err
		}
		rt, err := r.Rewrite(t.Right, sigma)
		if err != nil {
			return nil, err
		}
		if lv, ok := literalValue(l); ok {
			if rv, ok := literalValue(rt); ok {
				return BoolLit{lv == rv}, nil
			}
		}
		return Eq{l, rt}, nil
	case Lt:
		l, err := r.Rewrite(t.Left, sigma)
		if err != nil {
			return nil, err
		}
		rt, err := r.Rewrite(t.Right, sigma)
		if err != nil {
			return nil, err
		}
		if li, ok := l.(IntLit); ok {
			if ri, ok := rt.(IntLit); ok {
				return BoolLit{li.Value < ri.Value}, nil
			}
		}
		return Lt{l, rt}, nil
	case Plus:
		l, err := r.Rewrite(t.Left, sigma)
		if err != nil {
			return nil, err
		}
		rt, err := r.Rewrite(t.Right, sigma)
		if err != nil {
			return nil, err
		}
		if li, ok := l.(IntLit); ok {
			if ri, ok := rt.(IntLit); ok {
				return IntLit{li.Value + ri.Value}, nil
			}
		}
		return Plus{l, rt}, nil
	default:
		return t, nil
	}
}

func literalValue(t Term) (interface{}, bool) {
	switch v := t.(type) {
	case BoolLit:
		return v.Value, true
	case IntLit:
		return v.Value, true
	case StrLit:
		return v.Value, true
	default:
		return nil, false
	}
}

// IsTrue reports whether e is syntactically the literal true.
func IsTrue(e Term) bool {
	b, ok := e.(BoolLit)
	return ok && b.Value
}

// IsFalse reports whether e is syntactically the literal false.
func IsFalse(e Term) bool {
	b, ok := e.(BoolLit)
	return ok && !b.Value
}
