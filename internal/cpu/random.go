package cpu

import "math/rand/v2"

// RandomSource provides uniformly distributed random bytes for the RND instruction.
type RandomSource interface {
	Byte() byte
}

// RandomFunc adapts a function to the RandomSource interface.
type RandomFunc func() byte

// Byte returns the result of calling f.
func (f RandomFunc) Byte() byte {
	return f()
}

type pcgSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a reproducible random source for the given seed.
func NewRandomSource(seed uint64) RandomSource {
	return &pcgSource{
		rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

func (p *pcgSource) Byte() byte {
	return byte(p.rng.UintN(256))
}
