package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position counts draws from the underlying source, so RestoreRNG can
// reproduce the exact state for replays and reports.
type RNG struct {
	seed int64
	src  *countingSource
	rnd  *rand.Rand
}

// countingSource counts every value pulled from the wrapped source.
type countingSource struct {
	src rand.Source64
	n   int64
}

func (c *countingSource) Int63() int64 {
	c.n++
	return c.src.Int63()
}

func (c *countingSource) Uint64() uint64 {
	c.n++
	return c.src.Uint64()
}

func (c *countingSource) Seed(seed int64) {
	c.src.Seed(seed)
	c.n = 0
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	src := &countingSource{src: rand.NewSource(seed).(rand.Source64)}
	return &RNG{
		seed: seed,
		src:  src,
		rnd:  rand.New(src),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a random integer in [0, n). n must be positive.
func (r *RNG) Intn(n int) int {
	return r.rnd.Intn(n)
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.rnd.Intn(sides) + 1
}

// WeightedSelect returns an index chosen by weighted random selection.
// weights must be non-empty with all positive values.
func (r *RNG) WeightedSelect(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	roll := r.rnd.Intn(total)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// Position returns the number of values drawn since creation.
func (r *RNG) Position() int64 {
	return r.src.n
}

// RestoreRNG creates an RNG and advances it to the given position.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	return rng
}
