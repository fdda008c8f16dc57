package pgame

import (
	"strconv"
	"strings"

	"github.com/mcrlgo/symparity/pkg/ldd"
)

// Strategy records, for every vertex the solver has committed a move for,
// the chosen successor tuple (spec.md §3's "optional strategy" on a parity
// game). Keys are EncodeKey(vertex); values are full-arity successor
// tuples.
type Strategy map[string][]uint32

// EncodeKey turns a full-arity state tuple into a map key.
func EncodeKey(tuple []uint32) string {
	var b strings.Builder
	for i, v := range tuple {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	return b.String()
}

// Merge adds every entry of other into s, keeping s's entry on conflict.
func (s Strategy) Merge(other Strategy) {
	for k, v := range other {
		if _, ok := s[k]; !ok {
			s[k] = v
		}
	}
}

// oneSuccessorIn returns one successor of the full-arity tuple u that lies
// in target, searching every transition group in turn, or ok=false if none
// exists.
func (g *Game) oneSuccessorIn(u []uint32, target ldd.Ref) (succ []uint32, ok bool) {
	src := g.DD.Singleton(u)
	n := len(u)
	for _, grp := range g.Groups {
		img := g.DD.Intersect(g.DD.RelProd(src, grp.Meta, grp.L), target)
		if img == ldd.Empty {
			continue
		}
		g.DD.SatAll(img, n, func(tuple []uint32) bool {
			succ = append([]uint32(nil), tuple...)
			ok = true
			return false
		})
		if ok {
			return succ, true
		}
	}
	return nil, false
}

// recordStrategy picks, for every vertex in newlyAdded, one successor lying
// in attr, and records it in strat. Used when newlyAdded's vertices are
// alpha-controlled and attr is the attractor being grown on alpha's behalf.
func (g *Game) recordStrategy(strat Strategy, newlyAdded, attr ldd.Ref) {
	g.DD.SatAll(newlyAdded, g.Arity, func(tuple []uint32) bool {
		u := append([]uint32(nil), tuple...)
		if succ, ok := g.oneSuccessorIn(u, attr); ok {
			strat[EncodeKey(u)] = succ
		}
		return true
	})
}
