package sampler

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/probgo/sgmcmc/buffer"
	"github.com/probgo/sgmcmc/model"
	"github.com/probgo/sgmcmc/rand"
	"github.com/probgo/sgmcmc/tensor"
)

// kineticWindow is the length of the per-latent mean_k history kept for
// diagnostics.
const kineticWindow = 64

// Info holds per-latent diagnostics from one update step. SGLD produces
// none; SGHMC reports MeanK; SGNHT reports MeanK and the adapted
// thermostat.
type Info struct {
	MeanK float64       // Mean of the squared new velocity elements
	Xi    *tensor.Dense // New thermostat value (SGNHT only)
}

// proposal is the staged new state for one latent, computed entirely
// from the pre-step snapshot. Nothing in a proposal is visible to reads
// until the whole batch commits.
type proposal struct {
	q    *tensor.Dense
	v    *tensor.Dense
	xi   *tensor.Dense
	info *Info
}

// method is the capability every concrete algorithm provides to the
// shared facade. Algorithm selection is by value, not inheritance: there
// is no base update to call accidentally.
type method interface {
	// name identifies the algorithm (for config round trips).
	name() string

	// initState allocates per-latent auxiliary state, positionally
	// aligned with qs. Called exactly once, at bind time.
	initState(qs []*tensor.Dense)

	// propose computes latent i's staged update from the old state and
	// its gradient. It must not mutate any live state.
	propose(t int64, i int, q *tensor.Dense, grad *tensor.Dense) (*proposal, error)

	// commit makes latent i's staged auxiliary state current.
	commit(i int, p *proposal)
}

// Sampler binds one SGMCMC method to a model and advances every bound
// latent in lockstep. Create one with NewSGLD, NewSGHMC, or NewSGNHT.
//
// A Sampler is not safe for concurrent use: callers serialize Step
// invocations themselves.
type Sampler struct {
	method method
	gen    *rand.Generator
	oracle model.Oracle

	// t is the index of the last completed update batch, shared by every
	// latent of this sampler. It starts at -1 so the first step runs the
	// t==0 initialization branches.
	t int64

	meta     model.Meta // nil when bound with a bare callable
	logJoint model.LogJointFunc
	observed model.Values
	names    []string // frozen latent order
	latents  []*tensor.Var
	history  []*buffer.CircularFloat
	bound    bool
}

func newSampler(m method, gen *rand.Generator) (*Sampler, error) {
	if gen == nil {
		return nil, errors.Errorf("A random generator is required")
	}

	s := &Sampler{
		method: m,
		gen:    gen,
		oracle: model.FDOracle{},
		t:      -1,
	}
	return s, nil
}

// Method returns the bound algorithm's name.
func (s *Sampler) Method() string {
	return s.method.name()
}

// T returns the index of the last completed update batch (-1 before the
// first step).
func (s *Sampler) T() int64 {
	return s.t
}

// UseOracle replaces the default finite-difference gradient oracle.
// Must be called before Bind.
func (s *Sampler) UseOracle(o model.Oracle) error {
	if o == nil {
		return errors.Errorf("Oracle must not be nil")
	}
	if s.bound {
		return errors.Errorf("Cannot change oracle after binding")
	}
	s.oracle = o
	return nil
}

// Bind wires the sampler to a model. See bind for the latent contract.
func (s *Sampler) Bind(meta model.Meta, observed model.Values, latent map[string]*tensor.Var) (*StepOp, error) {
	if meta == nil {
		return nil, errors.Errorf("A model is required")
	}

	lj := func(vals model.Values) (float64, error) {
		j, err := meta.Observe(vals)
		if err != nil {
			return 0, err
		}
		return j.LogJoint()
	}

	return s.bind(meta, lj, observed, latent)
}

// BindFunc wires the sampler to a bare log-joint callable instead of a
// full model. Posterior will degrade silently for a sampler bound this
// way.
func (s *Sampler) BindFunc(logJoint model.LogJointFunc, observed model.Values, latent map[string]*tensor.Var) (*StepOp, error) {
	if logJoint == nil {
		return nil, errors.Errorf("A log-joint function is required")
	}
	return s.bind(nil, logJoint, observed, latent)
}

// bind validates the latent set, freezes its order, allocates the
// method's auxiliary state, and returns the step operation. The latent
// check runs before any auxiliary state exists: a bad latent leaves the
// sampler untouched.
func (s *Sampler) bind(meta model.Meta, logJoint model.LogJointFunc, observed model.Values, latent map[string]*tensor.Var) (*StepOp, error) {
	if s.bound {
		return nil, errors.Errorf("Sampler is already bound")
	}
	if len(latent) < 1 {
		return nil, errors.Errorf("At least one latent variable is required")
	}

	names := make([]string, 0, len(latent))
	for name := range latent {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := latent[name]
		if v == nil || v.Value() == nil {
			return nil, errors.Errorf("latent[%s] is not an assignable variable", name)
		}
		if _, ok := observed[name]; ok {
			return nil, errors.Errorf("Name %s is both latent and observed", name)
		}
	}

	s.meta = meta
	s.logJoint = logJoint
	s.observed = observed
	s.names = names

	s.latents = make([]*tensor.Var, len(names))
	s.history = make([]*buffer.CircularFloat, len(names))
	qs := make([]*tensor.Dense, len(names))
	for i, name := range names {
		s.latents[i] = latent[name]
		s.history[i] = buffer.NewCircularFloat(kineticWindow)
		qs[i] = latent[name].Value()
	}

	s.method.initState(qs)
	s.bound = true

	return &StepOp{s: s}, nil
}

// currentValues merges the latest latent values with the observed set.
func (s *Sampler) currentValues() (model.Values, error) {
	latent := make(model.Values, len(s.names))
	for i, name := range s.names {
		latent[name] = s.latents[i].Value()
	}
	return model.Merge(latent, s.observed)
}

// Posterior re-observes the bound model at the current latent+observed
// values. It returns nil when the sampler was bound with a bare callable
// (no model to observe) - by design this degrades silently instead of
// erroring.
func (s *Sampler) Posterior() model.Joint {
	if !s.bound || s.meta == nil {
		return nil
	}

	vals, err := s.currentValues()
	if err != nil {
		return nil
	}

	j, err := s.meta.Observe(vals)
	if err != nil {
		return nil
	}
	return j
}

// KineticHistory returns the recent mean_k trace for a latent (empty for
// SGLD, which has no velocity). Returns nil for an unknown name or an
// unbound sampler.
func (s *Sampler) KineticHistory(name string) *buffer.CircularFloat {
	for i, n := range s.names {
		if n == name {
			return s.history[i]
		}
	}
	return nil
}

// StepOp advances every bound latent by one joint update when run.
type StepOp struct {
	s *Sampler
}

// Result is one joint sample: the new value and diagnostics per latent,
// plus the log-joint evaluated at the pre-step state.
type Result struct {
	T        int64
	LogJoint float64
	Samples  map[string]*tensor.Dense
	Info     map[string]*Info
}

// Run performs one update batch:
//
//  1. Advance the shared step counter.
//  2. Evaluate the log-joint gradient for every latent from one snapshot
//     of the current state.
//  3. Stage each latent's update, computed purely from old state.
//  4. Commit every staged value together.
//
// Any failure before the commit phase leaves the sampler's state
// (including the counter) exactly as it was: either all latents advance
// or none do.
func (op *StepOp) Run() (*Result, error) {
	s := op.s

	t := s.t + 1

	vals, err := s.currentValues()
	if err != nil {
		return nil, err
	}

	logp, grads, err := s.oracle.Gradients(s.logJoint, vals, s.names)
	if err != nil {
		return nil, errors.Wrap(err, "Gradient evaluation failed")
	}

	props := make([]*proposal, len(s.names))
	for i := range s.names {
		p, err := s.method.propose(t, i, s.latents[i].Value(), grads[i])
		if err != nil {
			return nil, errors.Wrapf(err, "Update failed for latent %s", s.names[i])
		}
		props[i] = p
	}

	// Commit phase - all proposals are staged, make them visible.
	res := &Result{
		T:        t,
		LogJoint: logp,
		Samples:  make(map[string]*tensor.Dense, len(s.names)),
		Info:     make(map[string]*Info, len(s.names)),
	}

	for i, p := range props {
		if err := s.latents[i].Assign(p.q); err != nil {
			return nil, errors.Wrapf(err, "Could not assign latent %s", s.names[i])
		}
		s.method.commit(i, p)

		if p.info != nil {
			s.history[i].Add(p.info.MeanK)
		}

		res.Samples[s.names[i]] = p.q.Clone()
		res.Info[s.names[i]] = p.info
	}
	s.t = t

	return res, nil
}
