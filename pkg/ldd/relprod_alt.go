package ldd

// AlternativeRelProd computes the same image as RelProd(x, meta, l) but by
// an enumeration strategy rather than structural recursion: project x onto
// the read positions, enumerate every surviving read-tuple against l, and
// union in the resulting write-tuples merged back with the unread
// positions of x. spec.md §13's alternative_relprod exists as a distinct,
// independently-checkable code path selectable via the no-relprod
// strategy flag (spec.md §9's exploration.no_relprod), trading the
// structural sharing RelProd exploits for a simpler, more obviously
// correct implementation useful as a cross-check during development.
func (k *Kernel) AlternativeRelProd(x Ref, meta Meta, l Ref) Ref {
	readKeep := make([]bool, len(meta))
	for i, mk := range meta {
		if mk == MetaRead || mk == MetaReadWrite {
			readKeep[i] = true
		}
	}
	readArity := 0
	for _, b := range readKeep {
		if b {
			readArity++
		}
	}

	result := Empty
	k.satAllRec(x, 0, make([]uint32, len(meta)), func(tuple []uint32) bool {
		readTuple := make([]uint32, 0, readArity)
		for i, b := range readKeep {
			if b {
				readTuple = append(readTuple, tuple[i])
			}
		}
		if !k.lMatchesRead(l, meta, readTuple) {
			return true
		}
		k.enumerateWrites(l, meta, readTuple, tuple, func(out []uint32) {
			result = k.Union(result, k.Singleton(out))
		})
		return true
	})
	return result
}

// lMatchesRead reports whether some tuple of l agrees with readTuple on
// every read-constrained position; a cheap pre-check before the fuller
// enumerateWrites walk.
func (k *Kernel) lMatchesRead(l Ref, meta Meta, readTuple []uint32) bool {
	found := false
	k.enumerateWrites(l, meta, readTuple, nil, func([]uint32) {
		found = true
	})
	return found
}

// enumerateWrites walks l's tuples (shaped per meta.Arity()'s read/write
// symbol layout), keeps only those agreeing with readTuple on read
// positions, and for each match invokes emit with a full len(meta)-length
// tuple: read/skip positions copied from source, write positions taken
// from l (CopyMarker resolved against the matched read value).
func (k *Kernel) enumerateWrites(l Ref, meta Meta, readTuple []uint32, source []uint32, emit func([]uint32)) {
	if emit == nil {
		return
	}
	buf := make([]uint32, l_Arity(meta))
	k.satAllRec(l, 0, buf, func(lTuple []uint32) bool {
		out := make([]uint32, len(meta))
		li := 0
		ri := 0
		ok := true
		for i, mk := range meta {
			switch mk {
			case MetaSkip:
				if source != nil {
					out[i] = source[i]
				}
			case MetaRead:
				if lTuple[li] != readTuple[ri] {
					ok = false
				}
				out[i] = lTuple[li]
				li++
				ri++
			case MetaWrite:
				out[i] = lTuple[li]
				li++
			case MetaReadWrite:
				if lTuple[li] != readTuple[ri] {
					ok = false
				}
				readVal := lTuple[li]
				li++
				ri++
				writeVal := lTuple[li]
				li++
				if writeVal == CopyMarker {
					writeVal = readVal
				}
				out[i] = writeVal
			}
		}
		if ok {
			emit(out)
		}
		return true
	})
}

func l_Arity(meta Meta) int {
	return meta.Arity()
}
