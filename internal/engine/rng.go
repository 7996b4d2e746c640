package engine

import "math/rand"

// Source is the RNG surface the engine depends on. All shuffles,
// jitters, and weighted-roulette draws route through it so tests can
// fix a seed (spec.md section 5 and section 9 design note).
type Source interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewSource wraps a seed into a *rand.Rand satisfying Source.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

func shuffleDays(src Source, days []Day) {
	src.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })
}

func shuffleInts(src Source, xs []int) {
	src.Shuffle(len(xs), func(i, j int) { xs[i], xs[j] = xs[j], xs[i] })
}

// jitter returns a uniform value in [-span, +span].
func jitter(src Source, span float64) float64 {
	return (src.Float64()*2 - 1) * span
}
