package model

import (
	"github.com/pkg/errors"

	"github.com/probgo/sgmcmc/tensor"
)

// Values maps variable names to their current tensor values. A merged
// latent+observed Values is the full input to a log-joint function.
type Values map[string]*tensor.Dense

// LogJointFunc scores a complete assignment of model variables: it
// returns the log of the joint probability (density) of the given
// latent+observed values.
type LogJointFunc func(Values) (float64, error)

// Joint is a model observed at concrete values for every variable. It
// can score itself.
type Joint interface {
	LogJoint() (float64, error)
}

// Meta is a probabilistic model that can be observed at concrete values,
// producing a Joint. Samplers accept either a Meta or a bare
// LogJointFunc; only a Meta supports the Posterior accessor.
type Meta interface {
	Observe(Values) (Joint, error)
}

// Merge returns a new Values combining both maps. Latent and observed
// names never overlap by invariant, but a duplicate is still rejected so
// a broken caller fails loudly instead of silently shadowing a value.
func Merge(a Values, b Values) (Values, error) {
	merged := make(Values, len(a)+len(b))
	for name, val := range a {
		merged[name] = val
	}
	for name, val := range b {
		if _, ok := merged[name]; ok {
			return nil, errors.Errorf("Name %s appears in both value sets", name)
		}
		merged[name] = val
	}
	return merged, nil
}
