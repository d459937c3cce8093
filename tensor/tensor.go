package tensor

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Dense is a dense float64 tensor: a flat row-major data slice plus its
// shape. All sampler arithmetic runs on these. A nil shape is a scalar
// (size 1).
type Dense struct {
	Shape []int
	Data  []float64
}

// sizeOf returns the element count for a shape.
func sizeOf(shape []int) (int, error) {
	size := 1
	for _, dim := range shape {
		if dim < 1 {
			return 0, errors.Errorf("Invalid dimension %d in shape %v", dim, shape)
		}
		size *= dim
	}
	return size, nil
}

// Zeros creates a zero-filled tensor of the given shape.
func Zeros(shape ...int) *Dense {
	d, err := Full(0.0, shape...)
	if err != nil {
		panic(err)
	}
	return d
}

// Full creates a tensor of the given shape with every element set to val.
func Full(val float64, shape ...int) (*Dense, error) {
	size, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}

	data := make([]float64, size)
	if val != 0.0 {
		for i := range data {
			data[i] = val
		}
	}

	return &Dense{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Scalar creates a rank-0 tensor holding a single value.
func Scalar(val float64) *Dense {
	return &Dense{Shape: nil, Data: []float64{val}}
}

// FromSlice creates a tensor over a copy of data. The data length must
// match the product of the shape dimensions.
func FromSlice(data []float64, shape ...int) (*Dense, error) {
	size, err := sizeOf(shape)
	if err != nil {
		return nil, err
	}
	if size != len(data) {
		return nil, errors.Errorf("Shape %v needs %d elements, got %d", shape, size, len(data))
	}

	cp := make([]float64, len(data))
	copy(cp, data)

	return &Dense{Shape: append([]int(nil), shape...), Data: cp}, nil
}

// Size returns the number of elements.
func (d *Dense) Size() int {
	return len(d.Data)
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	cp := &Dense{
		Shape: append([]int(nil), d.Shape...),
		Data:  make([]float64, len(d.Data)),
	}
	copy(cp.Data, d.Data)
	return cp
}

// ShapeEq is true when the two tensors have identical shapes.
func (d *Dense) ShapeEq(o *Dense) bool {
	if len(d.Shape) != len(o.Shape) {
		return false
	}
	for i, dim := range d.Shape {
		if o.Shape[i] != dim {
			return false
		}
	}
	return true
}

// mustMatch panics on a shape mismatch. Update rules guarantee that
// auxiliary state always matches its latent, so a mismatch here is a
// programming error and not a recoverable condition.
func (d *Dense) mustMatch(o *Dense) {
	if !d.ShapeEq(o) {
		panic(errors.Errorf("Shape mismatch: %v vs %v", d.Shape, o.Shape))
	}
}

// AddInPlace performs d += o elementwise and returns d.
func (d *Dense) AddInPlace(o *Dense) *Dense {
	d.mustMatch(o)
	floats.Add(d.Data, o.Data)
	return d
}

// AddScaledInPlace performs d += a*o elementwise and returns d.
func (d *Dense) AddScaledInPlace(a float64, o *Dense) *Dense {
	d.mustMatch(o)
	floats.AddScaled(d.Data, a, o.Data)
	return d
}

// MulInPlace performs d *= o elementwise and returns d.
func (d *Dense) MulInPlace(o *Dense) *Dense {
	d.mustMatch(o)
	floats.Mul(d.Data, o.Data)
	return d
}

// ScaleInPlace performs d *= a and returns d.
func (d *Dense) ScaleInPlace(a float64) *Dense {
	floats.Scale(a, d.Data)
	return d
}

// AddConstInPlace performs d += c elementwise and returns d.
func (d *Dense) AddConstInPlace(c float64) *Dense {
	floats.AddConst(c, d.Data)
	return d
}

// MeanSq returns the mean of the squared elements (the kinetic-energy
// scalar for a velocity tensor).
func (d *Dense) MeanSq() float64 {
	if len(d.Data) < 1 {
		return 0.0
	}
	return floats.Dot(d.Data, d.Data) / float64(len(d.Data))
}
