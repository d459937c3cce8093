package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/probgo/sgmcmc/tensor"
)

func TestSGNHTFirstStepMomentum(t *testing.T) {
	assert := assert.New(t)

	// alpha=0 and tune_rate=0 kill the injected noise and freeze the
	// thermostat at zero, so with a flat log-joint the dynamics reduce
	// to new_v = old_v. At t==0 old_v must be a fresh Normal(0, lr)
	// draw, not the zero-initialized velocity; from t==1 on it must be
	// the previously assigned velocity, giving identical increments
	// forever after.
	s, err := NewSGNHT(SGNHTConfig{
		LearningRate:  0.25,
		VarianceExtra: 0.0,
		TuneRate:      0.0,
	}, mustGen(t, 31))
	assert.NoError(err)

	q := tensor.NewVar(tensor.Scalar(0.0))
	step, err := s.BindFunc(flatLogJoint, nil, map[string]*tensor.Var{"q": q})
	assert.NoError(err)

	res, err := step.Run()
	assert.NoError(err)

	v0 := q.Value().Data[0]
	assert.NotEqual(0.0, v0) // fresh draw, not the zero init
	assert.InDelta(v0*v0, res.Info["q"].MeanK, 1e-12)

	prev := v0
	for i := 0; i < 5; i++ {
		_, err := step.Run()
		assert.NoError(err)
		cur := q.Value().Data[0]
		assert.InDelta(v0, cur-prev, 1e-12) // same velocity re-used
		prev = cur
	}
}

func TestSGNHTThermostatInit(t *testing.T) {
	assert := assert.New(t)

	// lr=0 makes the momentum draw, gradient term, and noise all zero,
	// and with mean_k == lr == 0 the thermostat update is a no-op: the
	// reported xi is exactly the configured alpha broadcast to the
	// latent's shape
	const alpha = 0.3
	s, err := NewSGNHT(SGNHTConfig{
		LearningRate:  0.0,
		VarianceExtra: alpha,
		TuneRate:      0.5,
	}, mustGen(t, 31))
	assert.NoError(err)

	q := tensor.NewVar(tensor.Zeros(2, 3))
	step, err := s.BindFunc(flatLogJoint, nil, map[string]*tensor.Var{"q": q})
	assert.NoError(err)

	res, err := step.Run()
	assert.NoError(err)

	xi := res.Info["q"].Xi
	assert.Equal([]int{2, 3}, xi.Shape)
	for _, x := range xi.Data {
		assert.Equal(alpha, x)
	}
	assert.Equal(0.0, res.Info["q"].MeanK)
	assert.Equal([]float64{0, 0, 0, 0, 0, 0}, q.Value().Data)
}

func TestSGNHTThermostatAdaptation(t *testing.T) {
	assert := assert.New(t)

	// deterministic dynamics (alpha=0) with an active tune rate: follow
	// the coupled v/xi recursion by hand and compare every step
	const (
		lr   = 0.25
		tune = 0.5
	)
	s, err := NewSGNHT(SGNHTConfig{
		LearningRate:  lr,
		VarianceExtra: 0.0,
		TuneRate:      tune,
	}, mustGen(t, 77))
	assert.NoError(err)

	q := tensor.NewVar(tensor.Scalar(0.0))
	step, err := s.BindFunc(flatLogJoint, nil, map[string]*tensor.Var{"q": q})
	assert.NoError(err)

	// t == 0: v is the fresh draw, xi adapts from 0
	res, err := step.Run()
	assert.NoError(err)

	v := q.Value().Data[0]
	meanK := v * v
	xi := tune * (meanK - lr)
	assert.InDelta(meanK, res.Info["q"].MeanK, 1e-12)
	assert.InDelta(xi, res.Info["q"].Xi.Data[0], 1e-12)

	for i := 0; i < 6; i++ {
		res, err := step.Run()
		assert.NoError(err)

		v = (1.0 - xi) * v
		meanK = v * v
		xi = xi + tune*(meanK-lr)

		assert.InDelta(meanK, res.Info["q"].MeanK, 1e-9)
		assert.InDelta(xi, res.Info["q"].Xi.Data[0], 1e-9)
	}
}

func TestSGNHTDiagnosticsDetached(t *testing.T) {
	assert := assert.New(t)

	s, err := NewSGNHT(SGNHTConfig{
		LearningRate:  0.1,
		VarianceExtra: 0.2,
		TuneRate:      1.0,
	}, mustGen(t, 9))
	assert.NoError(err)

	q := tensor.NewVar(tensor.Scalar(0.0))
	step, err := s.BindFunc(flatLogJoint, nil, map[string]*tensor.Var{"q": q})
	assert.NoError(err)

	res, err := step.Run()
	assert.NoError(err)

	// scribbling on the reported xi must not disturb the live thermostat
	res.Info["q"].Xi.Data[0] = 1e9

	res2, err := step.Run()
	assert.NoError(err)
	assert.Less(res2.Info["q"].Xi.Data[0], 1e8)
}
