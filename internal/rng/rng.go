// Package rng is the single source of randomness for boards, refills, quiz
// shuffles and enemy rolls. Tests substitute a scripted source to make
// turns reproducible.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source yields uniform floats in [0, 1) and bounded integers.
type Source interface {
	Uniform() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

type pcgSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a seeded PCG-backed source safe for concurrent use.
func New(seed uint64) Source {
	return &pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandom returns a source seeded from the runtime's random state.
func NewRandom() Source {
	return New(rand.Uint64())
}

func (p *pcgSource) Uniform() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Float64()
}

func (p *pcgSource) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.IntN(n)
}

// Choice picks a uniformly random element of items. It panics on an empty
// slice, like rand.IntN(0).
func Choice[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}

// Shuffle permutes items in place with Fisher-Yates.
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
