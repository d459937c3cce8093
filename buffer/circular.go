package buffer

import (
	"gonum.org/v1/gonum/stat"
)

// CircularFloat is a circular buffer of float64 diagnostics (such as a
// latent's per-step mean kinetic energy) with windowed summary
// statistics over the retained values.
type CircularFloat struct {
	buffer    []float64 // actual storage
	pos       int       // Current position in buffer
	BufSize   int       // BufSize is the fixed number of values maintained in memory
	Count     int       // Count is the number of values in memory. Will always be <= BufSize
	TotalSeen int64     // TotalSeen is the total number of times Add has been called
}

// NewCircularFloat creates a new circular buffer retaining totalSize
// values.
func NewCircularFloat(totalSize int) *CircularFloat {
	if totalSize < 1 {
		totalSize = 1
	}

	return &CircularFloat{
		buffer:  make([]float64, totalSize),
		pos:     0,
		BufSize: totalSize,
		Count:   0,
	}
}

// Add appends the given value to the buffer, overwriting the oldest entry
func (c *CircularFloat) Add(v float64) {
	c.TotalSeen++

	c.buffer[c.pos] = v
	c.pos = (c.pos + 1) % c.BufSize

	c.Count++
	if c.Count > c.BufSize {
		c.Count = c.BufSize // max out
	}
}

// Values returns a copy of the retained values, oldest first.
func (c *CircularFloat) Values() []float64 {
	vals := make([]float64, c.Count)

	start := 0
	if c.Count == c.BufSize {
		start = c.pos // Oldest is the one we're about to write
	}

	for i := 0; i < c.Count; i++ {
		vals[i] = c.buffer[(start+i)%c.BufSize]
	}

	return vals
}

// Mean returns the mean of the retained values (0 when empty).
func (c *CircularFloat) Mean() float64 {
	if c.Count < 1 {
		return 0.0
	}
	return stat.Mean(c.Values(), nil)
}

// Variance returns the sample variance of the retained values (0 when
// fewer than two are retained).
func (c *CircularFloat) Variance() float64 {
	if c.Count < 2 {
		return 0.0
	}
	return stat.Variance(c.Values(), nil)
}
