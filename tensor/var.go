package tensor

import (
	"github.com/pkg/errors"
)

// Var is a mutable variable cell holding a Dense value. Samplers only
// update state through Vars, so binding a latent requires one: a plain
// Dense is a constant from the sampler's point of view.
type Var struct {
	value *Dense
}

// NewVar creates a variable holding the given initial value. The Var
// takes ownership of the tensor.
func NewVar(value *Dense) *Var {
	return &Var{value: value}
}

// Value returns the current tensor, or nil for a valueless Var (which no
// sampler will accept).
func (v *Var) Value() *Dense {
	return v.value
}

// Assign replaces the current value. The new value must keep the shape of
// the old one.
func (v *Var) Assign(d *Dense) error {
	if d == nil {
		return errors.Errorf("Cannot assign nil value")
	}
	if v.value != nil && !v.value.ShapeEq(d) {
		return errors.Errorf("Cannot assign shape %v over shape %v", d.Shape, v.value.Shape)
	}
	v.value = d
	return nil
}
