package world

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every call, so clones and replays can
// reproduce the exact stream.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, sides]. Each call consumes
// exactly one source draw, so RestoreRNG reproduces the stream by
// replaying Int63 position times.
func (r *RNG) Roll(sides int) int {
	r.pos++
	return int(r.src.Int63()%int64(sides)) + 1
}

// Seed returns the seed the RNG was created from.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of RNG calls made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Clone returns an independent RNG at the same seed and position.
func (r *RNG) Clone() *RNG {
	return RestoreRNG(r.seed, r.pos)
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for clones and replays.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}
