package rand

import (
	"math"

	"github.com/pkg/errors"
	"github.com/seehuhn/mt19937"

	"github.com/probgo/sgmcmc/tensor"
)

// A Generator uses a goroutine to populate batches of random numbers from
// a Mersenne twister. Every noise draw a sampler makes comes from one of
// these, so a fixed seed gives a reproducible chain.
type Generator struct {
	ch chan int64

	// Box-Muller produces pairs - we keep the spare.
	spare    float64
	hasSpare bool
}

func startGenerator(r *mt19937.MT19937) *Generator {
	numChan := make(chan int64, 1024)

	go func() {
		for {
			numChan <- r.Int63()
		}
	}()

	return &Generator{
		ch: numChan,
	}
}

// NewGenerator starts a new background PRNG based on the given seed
func NewGenerator(seed int64) (*Generator, error) {
	r := mt19937.New()
	r.Seed(seed)
	return startGenerator(r), nil
}

// NewGeneratorSlice starts a new background PRNG seeded from a key array
// (the canonical mt19937 seeding when more than 64 bits of seed are
// wanted).
func NewGeneratorSlice(seed []uint64) (*Generator, error) {
	if len(seed) < 1 {
		return nil, errors.Errorf("Seed slice must not be empty")
	}

	r := mt19937.New()
	r.SeedFromSlice(seed)
	return startGenerator(r), nil
}

// Int63 provides the same interface as Go's math/rand, but with pre-generation.
func (g *Generator) Int63() int64 {
	return <-g.ch
}

// Int63n is a copy of the current Go code
func (g *Generator) Int63n(n int64) int64 {
	if n <= 0 {
		panic("invalid argument to Int63n")
	}

	if n&(n-1) == 0 { // n is power of two, can mask
		return g.Int63() & (n - 1)
	}

	max := int64((1 << 63) - 1 - (1<<63)%uint64(n))
	v := g.Int63()
	for v > max {
		v = g.Int63()
	}

	return v % n
}

// Float64 uses the commented, simpler implmentation since we don't have the
// same support requirements for users
func (g *Generator) Float64() float64 {
	// See the Go lang comments for Rand Float64 implementation for details
	return float64(g.Int63n(1<<53)) / (1 << 53)
}

// NormFloat64 returns a standard normal variate. We use the basic
// Box-Muller transform rather than the stdlib ziggurat: noise draws are
// not the bottleneck next to a log-joint evaluation.
func (g *Generator) NormFloat64() float64 {
	if g.hasSpare {
		g.hasSpare = false
		return g.spare
	}

	var u float64
	for u == 0.0 {
		u = g.Float64() // need (0, 1] for the log
	}
	v := g.Float64()

	r := math.Sqrt(-2.0 * math.Log(u))
	g.spare = r * math.Sin(2.0*math.Pi*v)
	g.hasSpare = true

	return r * math.Cos(2.0*math.Pi*v)
}

// NormalDense returns a tensor of the given shape with every element an
// independent fresh draw from Normal(0, stddev^2).
func (g *Generator) NormalDense(stddev float64, shape ...int) *tensor.Dense {
	d := tensor.Zeros(shape...)
	if stddev == 0.0 {
		return d // degenerate: exactly zero noise
	}
	for i := range d.Data {
		d.Data[i] = stddev * g.NormFloat64()
	}
	return d
}
