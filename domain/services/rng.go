package services

import (
	"math/rand"
	"sync"
	"time"
)

// RandSource yields uniform floats in [0, 1). The draw engine takes its
// randomness through this interface so tests can replay deterministic
// sequences.
type RandSource interface {
	Float64() float64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewRandSource returns a seeded source with replayable output.
func NewRandSource(seed int64) RandSource {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// DefaultRandSource returns the process-wide default source.
func DefaultRandSource() RandSource {
	return &lockedRand{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}
