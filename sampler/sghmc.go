package sampler

import (
	"math"

	"github.com/probgo/sgmcmc/rand"
	"github.com/probgo/sgmcmc/tensor"
)

// SGHMCConfig holds the Stochastic Gradient Hamiltonian Monte Carlo
// hyperparameters. Friction is the alpha of the discretized dynamics,
// VarianceEstimate the beta correction for minibatch gradient noise
// (beta < alpha for a positive noise variance). ResampleInterval <= 0
// disables periodic momentum resampling.
type SGHMCConfig struct {
	LearningRate     float64
	Friction         float64
	VarianceEstimate float64
	ResampleInterval int64
}

// sghmc keeps one velocity tensor per latent, positionally aligned with
// the bound latent order.
type sghmc struct {
	cfg SGHMCConfig
	gen *rand.Generator
	vs  []*tensor.Dense
}

// NewSGHMC creates a Stochastic Gradient Hamiltonian Monte Carlo sampler
// (second-order Langevin dynamics with friction).
func NewSGHMC(cfg SGHMCConfig, gen *rand.Generator) (*Sampler, error) {
	return newSampler(&sghmc{cfg: cfg, gen: gen}, gen)
}

func (m *sghmc) name() string { return "sghmc" }

func (m *sghmc) initState(qs []*tensor.Dense) {
	m.vs = make([]*tensor.Dense, len(qs))
	for i, q := range qs {
		m.vs[i] = tensor.Zeros(q.Shape...)
	}
}

// resampleDue reports whether momentum must be redrawn at step t. An
// interval <= 0 means never: the modulus is not evaluated, so a zero
// divisor cannot occur.
func resampleDue(t int64, interval int64) bool {
	if interval <= 0 {
		return false
	}
	return t%interval == 0
}

// propose computes
//
//	new_v = (1-alpha)*old_v + lr*g + Normal(0, 2*(alpha-beta)*lr)
//	new_q = q + new_v
//
// where old_v is either the current velocity or, when a resample is due,
// a fresh Normal(0, lr) draw.
func (m *sghmc) propose(t int64, i int, q *tensor.Dense, grad *tensor.Dense) (*proposal, error) {
	lr := m.cfg.LearningRate
	alpha := m.cfg.Friction
	beta := m.cfg.VarianceEstimate

	oldV := m.vs[i]
	if resampleDue(t, m.cfg.ResampleInterval) {
		oldV = m.gen.NormalDense(math.Sqrt(lr), q.Shape...)
	}

	newV := oldV.Clone().ScaleInPlace(1.0 - alpha)
	newV.AddScaledInPlace(lr, grad)
	newV.AddInPlace(m.gen.NormalDense(math.Sqrt(2.0*(alpha-beta)*lr), q.Shape...))

	newQ := q.Clone().AddInPlace(newV)

	return &proposal{
		q:    newQ,
		v:    newV,
		info: &Info{MeanK: newV.MeanSq()},
	}, nil
}

func (m *sghmc) commit(i int, p *proposal) {
	m.vs[i] = p.v
}
