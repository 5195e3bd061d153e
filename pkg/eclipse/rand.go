package eclipse

import "golang.org/x/exp/rand"

// Rand is the random source behind every die roll, shuffle, and AI coin flip.
// Engines never touch a global generator, so a seeded Rand replays a game exactly.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a PCG-backed source seeded with seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewSource(seed))
}

// RollDie returns a uniform value in [1,6].
func RollDie(r Rand) int {
	return r.Intn(6) + 1
}

// shuffleStrings permutes s in place (Fisher-Yates).
func shuffleStrings(r Rand, s []string) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
