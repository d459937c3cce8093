package sampler

import (
	"math"

	"github.com/probgo/sgmcmc/rand"
	"github.com/probgo/sgmcmc/tensor"
)

// SGNHTConfig holds the Stochastic Gradient Nose-Hoover Thermostat
// hyperparameters. VarianceExtra is the alpha noise floor the thermostat
// starts from; TuneRate controls how fast it adapts toward the target
// kinetic energy (which equals the learning rate).
type SGNHTConfig struct {
	LearningRate  float64
	VarianceExtra float64
	TuneRate      float64
}

// sgnht keeps a velocity and a thermostat tensor per latent, both shaped
// like the latent, positionally aligned with the bound order.
type sgnht struct {
	cfg SGNHTConfig
	gen *rand.Generator
	vs  []*tensor.Dense
	xis []*tensor.Dense
}

// NewSGNHT creates a Stochastic Gradient Nose-Hoover Thermostat sampler.
// The thermostat self-tunes the friction so the velocity's average
// kinetic energy tracks the learning rate, compensating for unknown
// minibatch gradient noise.
func NewSGNHT(cfg SGNHTConfig, gen *rand.Generator) (*Sampler, error) {
	return newSampler(&sgnht{cfg: cfg, gen: gen}, gen)
}

func (m *sgnht) name() string { return "sgnht" }

func (m *sgnht) initState(qs []*tensor.Dense) {
	m.vs = make([]*tensor.Dense, len(qs))
	m.xis = make([]*tensor.Dense, len(qs))
	for i, q := range qs {
		m.vs[i] = tensor.Zeros(q.Shape...)
		// alpha broadcast to the latent's shape
		m.xis[i] = tensor.Zeros(q.Shape...).AddConstInPlace(m.cfg.VarianceExtra)
	}
}

// propose computes
//
//	new_v  = (1-xi) .* old_v + lr*g + Normal(0, 2*alpha*lr)
//	new_q  = q + new_v
//	mean_k = mean(new_v^2)
//	new_xi = xi + tune_rate * (mean_k - lr)
//
// At t == 0 only, old_v is a fresh Normal(0, lr) draw instead of the
// zero-initialized velocity.
func (m *sgnht) propose(t int64, i int, q *tensor.Dense, grad *tensor.Dense) (*proposal, error) {
	lr := m.cfg.LearningRate
	alpha := m.cfg.VarianceExtra

	oldV := m.vs[i]
	if t == 0 {
		oldV = m.gen.NormalDense(math.Sqrt(lr), q.Shape...)
	}
	xi := m.xis[i]

	// (1 - xi) elementwise damping
	damp := tensor.Zeros(q.Shape...).AddConstInPlace(1.0).AddScaledInPlace(-1.0, xi)

	newV := damp.MulInPlace(oldV)
	newV.AddScaledInPlace(lr, grad)
	newV.AddInPlace(m.gen.NormalDense(math.Sqrt(2.0*alpha*lr), q.Shape...))

	newQ := q.Clone().AddInPlace(newV)

	meanK := newV.MeanSq()
	newXi := xi.Clone().AddConstInPlace(m.cfg.TuneRate * (meanK - lr))

	return &proposal{
		q:    newQ,
		v:    newV,
		xi:   newXi,
		info: &Info{MeanK: meanK, Xi: newXi.Clone()},
	}, nil
}

func (m *sgnht) commit(i int, p *proposal) {
	m.vs[i] = p.v
	m.xis[i] = p.xi
}
