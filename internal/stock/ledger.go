// Package stock keeps the per-sphere-type counters fed by cleared matches
// and spent by attacks and defenses.
package stock

import "github.com/ericogr/sphere-quiz/internal/game"

const (
	// DisplayCap bounds the value shown to the player. Combat math always
	// reads the raw count.
	DisplayCap = 40
	// AllOutThreshold is the count at which any type triggers the enemy's
	// all-out attack.
	AllOutThreshold = 11
)

// Ledger holds one non-negative counter per sphere type.
type Ledger struct {
	counts map[game.SphereType]int
}

// New returns a ledger with every type at zero.
func New() *Ledger {
	l := &Ledger{counts: make(map[game.SphereType]int, len(game.AllSpheres))}
	for _, t := range game.AllSpheres {
		l.counts[t] = 0
	}
	return l
}

// Add changes the count for t by delta, never going below zero.
func (l *Ledger) Add(t game.SphereType, delta int) {
	v := l.counts[t] + delta
	if v < 0 {
		v = 0
	}
	l.counts[t] = v
}

// AddCleared implements board.Accumulator.
func (l *Ledger) AddCleared(t game.SphereType, n int) { l.Add(t, n) }

func (l *Ledger) Reset(t game.SphereType) { l.counts[t] = 0 }

func (l *Ledger) Set(t game.SphereType, v int) {
	if v < 0 {
		v = 0
	}
	l.counts[t] = v
}

// Get returns the raw, uncapped count.
func (l *Ledger) Get(t game.SphereType) int { return l.counts[t] }

// Display returns the count capped at DisplayCap.
func (l *Ledger) Display(t game.SphereType) int {
	return min(l.counts[t], DisplayCap)
}

// Snapshot copies the raw counts.
func (l *Ledger) Snapshot() game.StockCounts {
	out := make(game.StockCounts, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}
	return out
}

// DisplaySnapshot copies the capped counts.
func (l *Ledger) DisplaySnapshot() game.StockCounts {
	out := make(game.StockCounts, len(l.counts))
	for k := range l.counts {
		out[k] = l.Display(k)
	}
	return out
}

// AnyAtLeast reports whether any type has reached n.
func (l *Ledger) AnyAtLeast(n int) bool {
	for _, v := range l.counts {
		if v >= n {
			return true
		}
	}
	return false
}
