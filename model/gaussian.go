package model

import (
	"math"

	"github.com/pkg/errors"
)

// Gaussian is a fully factorized normal model: every named variable is
// independently Normal(mu, sigma^2) elementwise. It is small enough to
// have a closed-form posterior, which makes it the standard end-to-end
// target for the samplers, and it exercises the full Meta/Joint path.
type Gaussian struct {
	mu    map[string]float64
	sigma map[string]float64
}

// NewGaussian creates a factorized normal model over the given variable
// names. The two maps must have identical key sets and every sigma must
// be positive.
func NewGaussian(mu map[string]float64, sigma map[string]float64) (*Gaussian, error) {
	if len(mu) < 1 {
		return nil, errors.Errorf("At least one variable is required")
	}
	if len(mu) != len(sigma) {
		return nil, errors.Errorf("Mean count %d != stddev count %d", len(mu), len(sigma))
	}

	for name, s := range sigma {
		if _, ok := mu[name]; !ok {
			return nil, errors.Errorf("Stddev given for unknown variable %s", name)
		}
		if s <= 0.0 {
			return nil, errors.Errorf("Variable %s has invalid stddev %f", name, s)
		}
	}

	g := &Gaussian{
		mu:    make(map[string]float64, len(mu)),
		sigma: make(map[string]float64, len(sigma)),
	}
	for name, m := range mu {
		g.mu[name] = m
		g.sigma[name] = sigma[name]
	}

	return g, nil
}

// Observe returns the model evaluated at the given values. Every model
// variable must have a value; extra values are an error since they would
// silently contribute nothing to the score.
func (g *Gaussian) Observe(vals Values) (Joint, error) {
	for name := range g.mu {
		if v, ok := vals[name]; !ok || v == nil {
			return nil, errors.Errorf("Variable %s was not given a value", name)
		}
	}
	for name := range vals {
		if _, ok := g.mu[name]; !ok {
			return nil, errors.Errorf("Value given for unknown variable %s", name)
		}
	}

	return &gaussianJoint{g: g, vals: vals}, nil
}

// LogJoint is the bare-callable form of the model, usable directly as a
// LogJointFunc.
func (g *Gaussian) LogJoint(vals Values) (float64, error) {
	j, err := g.Observe(vals)
	if err != nil {
		return 0, err
	}
	return j.LogJoint()
}

type gaussianJoint struct {
	g    *Gaussian
	vals Values
}

const log2Pi = 1.8378770664093453

// LogJoint sums the elementwise normal log densities (normalizing
// constant included).
func (j *gaussianJoint) LogJoint() (float64, error) {
	var lp float64
	for name, mu := range j.g.mu {
		sigma := j.g.sigma[name]
		for _, x := range j.vals[name].Data {
			z := (x - mu) / sigma
			lp += -0.5*(log2Pi+z*z) - math.Log(sigma)
		}
	}
	return lp, nil
}
