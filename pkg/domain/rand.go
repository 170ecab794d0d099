package domain

import (
	"math/rand"
	"sync"
)

// Rand is the process-wide random source the solver's restart strategy
// draws from. It is shared state by design (see spec §5): every Geometry
// instance is owned by its calling goroutine, but random restarts across
// all of them share one generator, so reproducible tests must call Seed.
type Rand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRand builds a private Rand seeded with seed. Most callers should use
// the package-level GlobalRand() instead; NewRand exists for tests that need
// isolation from other tests' seeding.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// Float64 returns a pseudo-random number in [0, 1).
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// global is the shared generator every solver uses unless a Rand is
// threaded through explicitly.
var global = NewRand(1)

// Seed reseeds the shared process-wide random generator. Callers that need
// reproducible multi-root solves (see spec §4.6 step 3, §5) must call this
// before solving; it is the documented seeding entry point for the process.
func Seed(seed int64) {
	global = NewRand(seed)
}

// GlobalRand returns the shared process-wide random generator.
func GlobalRand() *Rand { return global }
