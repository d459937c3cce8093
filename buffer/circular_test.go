package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircularFloat(t *testing.T) {
	assert := assert.New(t)

	c := NewCircularFloat(4)
	assert.Equal(4, c.BufSize)
	assert.Equal(0, c.Count)
	assert.Equal([]float64{}, c.Values())
	assert.Equal(0.0, c.Mean())
	assert.Equal(0.0, c.Variance())

	c.Add(1.0)
	c.Add(2.0)
	c.Add(3.0)
	assert.Equal(3, c.Count)
	assert.Equal(int64(3), c.TotalSeen)
	assert.Equal([]float64{1, 2, 3}, c.Values())
	assert.InDelta(2.0, c.Mean(), 1e-12)
	assert.InDelta(1.0, c.Variance(), 1e-12)

	c.Add(4.0)
	assert.Equal(4, c.Count)
	assert.Equal([]float64{1, 2, 3, 4}, c.Values())

	// wrap: oldest entries fall off, order stays oldest-first
	c.Add(5.0)
	c.Add(6.0)
	assert.Equal(4, c.Count)
	assert.Equal(int64(6), c.TotalSeen)
	assert.Equal([]float64{3, 4, 5, 6}, c.Values())
	assert.InDelta(4.5, c.Mean(), 1e-12)
}

func TestCircularFloatTinySizes(t *testing.T) {
	assert := assert.New(t)

	// degenerate sizes clamp to 1
	c := NewCircularFloat(0)
	assert.Equal(1, c.BufSize)

	c.Add(7.0)
	c.Add(8.0)
	assert.Equal([]float64{8}, c.Values())
	assert.Equal(8.0, c.Mean())
	assert.Equal(0.0, c.Variance()) // needs at least two values

	one := NewCircularFloat(1)
	one.Add(3.5)
	assert.Equal(3.5, one.Mean())
}
