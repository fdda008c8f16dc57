package ldd

// MetaKind classifies, per process-parameter position, how a transition
// group's relation touches that position — the projection masks Ip/Ir of
// spec.md §3 made concrete as a single per-position code, in the style of
// a relational-product "meta vector".
type MetaKind int

const (
	// MetaSkip: the position is outside this group's read ∪ write set;
	// it is copied through from source to target untouched and never
	// appears in the group's L relation.
	MetaSkip MetaKind = 0
	// MetaRead: the position is read but not written; L records one
	// symbol (the required source value) and the target carries the
	// same value forward.
	MetaRead MetaKind = 1
	// MetaWrite: the position is written but not read; L records one
	// symbol (the new value) and the source value is unconstrained.
	MetaWrite MetaKind = 2
	// MetaReadWrite: the position is both read and written; L records
	// two consecutive symbols (the required source value, then the new
	// value). A new-value symbol equal to CopyMarker means "copy": reuse
	// the matched source value instead of storing a duplicate (spec.md
	// §3's `copy` vector).
	MetaReadWrite MetaKind = 3
)

// CopyMarker is the sentinel write-value meaning "same as the value just
// read", letting union_cube_copy avoid storing a duplicate literal value
// for a copy position (spec.md §3's `copy` vector, §4.3 step 4's
// union_cube_copy).
const CopyMarker uint32 = ^uint32(0)

// Meta is the per-position relation shape for one transition group,
// indexed in lockstep with the process parameter vector.
type Meta []MetaKind

// Arity returns the number of symbols a tuple in this group's L must carry:
// one per MetaRead/MetaWrite position, two per MetaReadWrite position.
func (m Meta) Arity() int {
	n := 0
	for _, k := range m {
		switch k {
		case MetaRead, MetaWrite:
			n++
		case MetaReadWrite:
			n += 2
		}
	}
	return n
}

// UnionCubeCopy builds the L-tuple for one learned transition and unions it
// into l. readVals/writeVals are indexed by position in the full parameter
// vector (length len(meta) each); copy[i] (only meaningful where
// meta[i]==MetaReadWrite) marks a write that reproduces the value just
// read, letting the cube store CopyMarker instead of the literal value
// (spec.md §4.3 step 4).
func (k *Kernel) UnionCubeCopy(l Ref, meta Meta, readVals, writeVals []uint32, copy []bool) Ref {
	cube := make([]uint32, 0, meta.Arity())
	for i, mk := range meta {
		switch mk {
		case MetaRead:
			cube = append(cube, readVals[i])
		case MetaWrite:
			cube = append(cube, writeVals[i])
		case MetaReadWrite:
			cube = append(cube, readVals[i])
			if copy != nil && copy[i] {
				cube = append(cube, CopyMarker)
			} else {
				cube = append(cube, writeVals[i])
			}
		}
	}
	return k.Union(l, k.Singleton(cube))
}

// RelProd computes the image of x under the relation (meta, l):
//
//	{ y : ∃ x' ∈ x. (x', y) ∈ relation(meta, l) }
//
// matching spec.md §4.3 step 5's relprod(todo, L(G), Ir(G)).
func (k *Kernel) RelProd(x Ref, meta Meta, l Ref) Ref {
	return k.relprodRec(x, l, meta, 0)
}

func (k *Kernel) relprodRec(x, l Ref, meta Meta, pos int) Ref {
	if x == Empty || l == Empty {
		return Empty
	}
	if pos == len(meta) {
		return One
	}
	switch meta[pos] {
	case MetaSkip:
		return k.copyThrough(x, l, meta, pos)
	case MetaRead:
		return k.relprodRead(x, l, meta, pos)
	case MetaWrite:
		return k.relprodWrite(x, l, meta, pos)
	default:
		return k.relprodReadWrite(x, l, meta, pos)
	}
}

func (k *Kernel) copyThrough(x, l Ref, meta Meta, pos int) Ref {
	if x == Empty {
		return Empty
	}
	n := k.get(x)
	down := k.relprodRec(n.down, l, meta, pos+1)
	right := k.copyThrough(n.right, l, meta, pos)
	return k.mk(n.value, down, right)
}

func (k *Kernel) relprodRead(x, l Ref, meta Meta, pos int) Ref {
	lSibs := k.siblings(l)
	lByValue := make(map[uint32]Ref, len(lSibs))
	for _, s := range lSibs {
		lByValue[s.Value] = s.Down
	}
	var result Ref = Empty
	for xr := x; xr != Empty; {
		n := k.get(xr)
		if lDown, ok := lByValue[n.value]; ok {
			down := k.relprodRec(n.down, lDown, meta, pos+1)
			result = k.Union(result, k.mk(n.value, down, Empty))
		}
		xr = n.right
	}
	return result
}

func (k *Kernel) relprodWrite(x, l Ref, meta Meta, pos int) Ref {
	xAny := k.dropValueUnion(x)
	var result Ref = Empty
	for lr := l; lr != Empty; {
		n := k.get(lr)
		down := k.relprodRec(xAny, n.down, meta, pos+1)
		result = k.Union(result, k.mk(n.value, down, Empty))
		lr = n.right
	}
	return result
}

func (k *Kernel) relprodReadWrite(x, l Ref, meta Meta, pos int) Ref {
	lSibs := k.siblings(l)
	lByValue := make(map[uint32]Ref, len(lSibs))
	for _, s := range lSibs {
		lByValue[s.Value] = s.Down
	}
	var result Ref = Empty
	for xr := x; xr != Empty; {
		xn := k.get(xr)
		writeLevel, ok := lByValue[xn.value]
		if ok {
			for wr := writeLevel; wr != Empty; {
				wn := k.get(wr)
				newVal := wn.value
				if newVal == CopyMarker {
					newVal = xn.value
				}
				down := k.relprodRec(xn.down, wn.down, meta, pos+1)
				result = k.Union(result, k.mk(newVal, down, Empty))
				wr = wn.right
			}
		}
		xr = xn.right
	}
	return result
}

// RelPrev computes the preimage of y under (meta, l), restricted to the
// universe x for positions the relation leaves unconstrained (spec.md §6,
// "relprev(Y, L, Ir, X)"): at a write-only position the source value is not
// recorded anywhere in l, so x supplies the candidate values.
func (k *Kernel) RelPrev(y Ref, meta Meta, l Ref, x Ref) Ref {
	return k.relprevRec(x, y, l, meta, 0)
}

func (k *Kernel) relprevRec(x, y, l Ref, meta Meta, pos int) Ref {
	if x == Empty || y == Empty || l == Empty {
		return Empty
	}
	if pos == len(meta) {
		return One
	}
	switch meta[pos] {
	case MetaSkip:
		return k.prevCopyThrough(x, y, l, meta, pos)
	case MetaRead:
		return k.prevRead(x, y, l, meta, pos)
	case MetaWrite:
		return k.prevWrite(x, y, l, meta, pos)
	default:
		return k.prevReadWrite(x, y, l, meta, pos)
	}
}

func (k *Kernel) prevCopyThrough(x, y, l Ref, meta Meta, pos int) Ref {
	yByValue := make(map[uint32]Ref)
	for _, s := range k.siblings(y) {
		yByValue[s.Value] = s.Down
	}
	var result Ref = Empty
	for xr := x; xr != Empty; {
		xn := k.get(xr)
		if yDown, ok := yByValue[xn.value]; ok {
			down := k.relprevRec(xn.down, yDown, l, meta, pos+1)
			result = k.Union(result, k.mk(xn.value, down, Empty))
		}
		xr = xn.right
	}
	return result
}

func (k *Kernel) prevRead(x, y, l Ref, meta Meta, pos int) Ref {
	lByValue := make(map[uint32]Ref)
	for _, s := range k.siblings(l) {
		lByValue[s.Value] = s.Down
	}
	yByValue := make(map[uint32]Ref)
	for _, s := range k.siblings(y) {
		yByValue[s.Value] = s.Down
	}
	var result Ref = Empty
	for xr := x; xr != Empty; {
		xn := k.get(xr)
		lDown, lok := lByValue[xn.value]
		yDown, yok := yByValue[xn.value]
		if lok && yok {
			down := k.relprevRec(xn.down, yDown, lDown, meta, pos+1)
			result = k.Union(result, k.mk(xn.value, down, Empty))
		}
		xr = xn.right
	}
	return result
}

func (k *Kernel) prevWrite(x, y, l Ref, meta Meta, pos int) Ref {
	lByValue := make(map[uint32]Ref)
	for _, s := range k.siblings(l) {
		lByValue[s.Value] = s.Down
	}
	var result Ref = Empty
	for xr := x; xr != Empty; {
		xn := k.get(xr)
		var cont Ref = Empty
		for yr := y; yr != Empty; {
			yn := k.get(yr)
			if lDown, ok := lByValue[yn.value]; ok {
				cont = k.Union(cont, k.relprevRec(xn.down, yn.down, lDown, meta, pos+1))
			}
			yr = yn.right
		}
		result = k.Union(result, k.mk(xn.value, cont, Empty))
		xr = xn.right
	}
	return result
}

func (k *Kernel) prevReadWrite(x, y, l Ref, meta Meta, pos int) Ref {
	yByValue := make(map[uint32]Ref)
	for _, s := range k.siblings(y) {
		yByValue[s.Value] = s.Down
	}
	var result Ref = Empty
	for xr := x; xr != Empty; {
		xn := k.get(xr)
		writeLevel, ok := findReadBranch(k, l, xn.value)
		if ok {
			var cont Ref = Empty
			for wr := writeLevel; wr != Empty; {
				wn := k.get(wr)
				wantValue := wn.value
				if wantValue == CopyMarker {
					wantValue = xn.value
				}
				if yDown, ok := yByValue[wantValue]; ok {
					cont = k.Union(cont, k.relprevRec(xn.down, yDown, wn.down, meta, pos+1))
				}
				wr = wn.right
			}
			result = k.Union(result, k.mk(xn.value, cont, Empty))
		}
		xr = xn.right
	}
	return result
}

func findReadBranch(k *Kernel, l Ref, value uint32) (Ref, bool) {
	for lr := l; lr != Empty; {
		n := k.get(lr)
		if n.value == value {
			return n.down, true
		}
		lr = n.right
	}
	return Empty, false
}

// RelProdUnion computes RelProd(x, meta, l) unioned into acc, matching
// spec.md §6's relprod_union (used when chaining feeds a group's image
// back into an accumulating successor set within one breadth-first round,
// spec.md §4.3 step 5).
func (k *Kernel) RelProdUnion(acc, x Ref, meta Meta, l Ref) Ref {
	return k.Union(acc, k.RelProd(x, meta, l))
}
