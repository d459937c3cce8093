package sampler

import (
	"math"

	"github.com/probgo/sgmcmc/rand"
	"github.com/probgo/sgmcmc/tensor"
)

// SGLDConfig holds the Stochastic Gradient Langevin Dynamics
// hyperparameters. No range validation happens here - see config.Check
// for opt-in validation.
type SGLDConfig struct {
	LearningRate float64
}

// sgld carries no auxiliary state: each step is a half gradient step
// plus injected Gaussian noise scaled to the step size.
type sgld struct {
	cfg SGLDConfig
	gen *rand.Generator
}

// NewSGLD creates a Stochastic Gradient Langevin Dynamics sampler.
func NewSGLD(cfg SGLDConfig, gen *rand.Generator) (*Sampler, error) {
	return newSampler(&sgld{cfg: cfg, gen: gen}, gen)
}

func (m *sgld) name() string { return "sgld" }

func (m *sgld) initState(qs []*tensor.Dense) {}

// propose computes new_q = q + 0.5*lr*g + Normal(0, lr).
func (m *sgld) propose(t int64, i int, q *tensor.Dense, grad *tensor.Dense) (*proposal, error) {
	lr := m.cfg.LearningRate

	newQ := q.Clone().AddScaledInPlace(0.5*lr, grad)
	newQ.AddInPlace(m.gen.NormalDense(math.Sqrt(lr), q.Shape...))

	return &proposal{q: newQ}, nil
}

func (m *sgld) commit(i int, p *proposal) {}
