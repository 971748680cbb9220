package server

import (
	"hash/fnv"
	"math/rand"
)

// deterministicSeedValue folds a root seed and a subsystem label into a
// non-zero int64 so every labeled stream is reproducible from the match seed.
func deterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// newDeterministicRNG returns a seeded stream for one subsystem. The match
// stream must only be drawn from inside Step, in sub-step order, or replays
// diverge.
func newDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(deterministicSeedValue(rootSeed, label)))
}

func randomRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}
