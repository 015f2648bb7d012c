package draw

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the uniform integer source used by Allocate. Intn must return a
// value in [0, n).
type Rand interface {
	Intn(n int) int
}

// NewRand returns a deterministic source. Not safe for concurrent use.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// LockedRand serialises access to a shared *rand.Rand so one source can be
// handed to concurrently drawn raffles.
type LockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewLockedRand(seed int64) *LockedRand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &LockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *LockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rnd.Intn(n)
}
