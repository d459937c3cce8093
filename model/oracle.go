package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/probgo/sgmcmc/tensor"
)

// Oracle computes the log-joint value and its gradient with respect to
// each named latent, all from one consistent snapshot of values. The
// returned gradients are ordered as names and shaped like the latents.
//
// Engines with real automatic differentiation implement this directly;
// FDOracle is the built-in fallback.
type Oracle interface {
	Gradients(f LogJointFunc, vals Values, names []string) (float64, []*tensor.Dense, error)
}

// FDOracle differentiates the log-joint numerically with central
// differences over the concatenated latent vector. Every evaluation
// perturbs the same pre-step snapshot, so the gradients stay mutually
// consistent.
type FDOracle struct {
	Step float64 // Perturbation size - 0 selects the gonum default
}

// Gradients implements Oracle.
func (o FDOracle) Gradients(f LogJointFunc, vals Values, names []string) (float64, []*tensor.Dense, error) {
	if f == nil {
		return 0, nil, errors.Errorf("No log-joint function supplied")
	}
	if len(names) < 1 {
		return 0, nil, errors.Errorf("No latent names supplied")
	}

	// Scratch copy so perturbations never touch the caller's tensors.
	// Observed values are shared - only latents get written.
	scratch := make(Values, len(vals))
	for name, val := range vals {
		scratch[name] = val
	}

	total := 0
	for _, name := range names {
		val, ok := vals[name]
		if !ok || val == nil {
			return 0, nil, errors.Errorf("Latent %s has no current value", name)
		}
		scratch[name] = val.Clone()
		total += val.Size()
	}

	x := make([]float64, total)
	off := 0
	for _, name := range names {
		off += copy(x[off:], vals[name].Data)
	}

	var evalErr error
	objective := func(x []float64) float64 {
		off := 0
		for _, name := range names {
			t := scratch[name]
			off += copy(t.Data, x[off:off+t.Size()])
		}

		lp, err := f(scratch)
		if err != nil {
			if evalErr == nil {
				evalErr = err
			}
			return math.NaN()
		}
		return lp
	}

	logp := objective(x)
	if evalErr != nil {
		return 0, nil, errors.Wrap(evalErr, "Log-joint evaluation failed")
	}

	grad := make([]float64, total)
	settings := &fd.Settings{Formula: fd.Central}
	if o.Step > 0 {
		settings.Step = o.Step
	}
	fd.Gradient(grad, objective, x, settings)

	if evalErr != nil {
		return 0, nil, errors.Wrap(evalErr, "Log-joint evaluation failed")
	}

	grads := make([]*tensor.Dense, len(names))
	off = 0
	for i, name := range names {
		val := vals[name]
		g, err := tensor.FromSlice(grad[off:off+val.Size()], val.Shape...)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "Could not shape gradient for %s", name)
		}
		grads[i] = g
		off += val.Size()
	}

	return logp, grads, nil
}
