// Package randutil builds reproducible random sources for shuffling,
// simulation and agent behaviour.
package randutil

import (
	rand "math/rand/v2"
	"sync"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG-backed *rand.Rand whose two 64-bit seeds are derived from
// seed with splitmix64, so nearby seeds still give unrelated streams.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns seed unchanged when non-zero, otherwise a time-based seed.
// Callers log the result so a run can be replayed.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// Source hands out child generators from a parent seed. It is safe for
// concurrent use; children are independent of each other once created.
type Source struct {
	mu     sync.Mutex
	parent *rand.Rand
}

// NewSource creates a Source rooted at seed
func NewSource(seed int64) *Source {
	return &Source{parent: New(seed)}
}

// Child returns a new generator seeded from the parent stream
func (s *Source) Child() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return New(s.parent.Int64())
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
