package explicit

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// solution is one cached enumerator result: the bound values of a
// summand's summation variables plus the rewritten action/next-state
// literals needed to reconstruct a transition without re-enumerating.
type solution struct {
	sumVals []rewrite.Value
	next    StateVector
	action  string
	actArgs []rewrite.Value
}

// cacheKey computes spec.md §4.6's f_gamma(condition?, sigma(gamma_1), ...,
// sigma(gamma_k)) key: the summand index plus the values of the summand's
// free-variable footprint restricted to process parameters (gamma), so two
// source states agreeing on every variable the condition/next-state
// actually reads share a cache entry.
func cacheKey(summandIdx int, footprint []string, sigma *rewrite.Substitution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", summandIdx)
	for _, name := range footprint {
		b.WriteByte('|')
		if v, ok := sigma.Lookup(name); ok {
			fmt.Fprintf(&b, "%v", v)
		} else {
			b.WriteString("_")
		}
	}
	return b.String()
}

// solutionCache is the cache of enumerator solutions keyed by cacheKey.
// An Explorer keeps a single solutionCache that all of its workers share
// (the key carries the summand index, so entries of different summands
// never collide); there are no per-worker caches. When global is set,
// get/put are serialised by mu; NewExplorer sets it whenever
// Config.GlobalCache is set or more than one worker runs, so an unlocked
// cache is only ever used by a single worker.
type solutionCache struct {
	global bool
	mu     sync.Mutex
	data   map[string][]solution
}

func newSolutionCache(global bool) *solutionCache {
	return &solutionCache{global: global, data: make(map[string][]solution)}
}

func (c *solutionCache) get(key string) ([]solution, bool) {
	if c.global {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	sols, ok := c.data[key]
	return sols, ok
}

func (c *solutionCache) put(key string, sols []solution) {
	if c.global {
		c.mu.Lock()
		defer c.mu.Unlock()
	}
	c.data[key] = sols
}
