package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/probgo/sgmcmc/rand"
	"github.com/probgo/sgmcmc/sampler"
)

// Algorithm names accepted in a Config.
const (
	SGLD  = "sgld"
	SGHMC = "sghmc"
	SGNHT = "sgnht"
)

// Defaults, matching the canonical constructor defaults of each
// algorithm.
const (
	DefaultSeed             = int64(1)
	DefaultLearningRate     = 0.1
	DefaultFriction         = 0.25
	DefaultVarianceEstimate = 0.0
	DefaultResampleInterval = int64(20)
	DefaultVarianceExtra    = 0.0
	DefaultTuneRate         = 1.0
)

// Config is the declarative hyperparameter surface for a sampler. Only
// the fields of the selected method matter; the rest are ignored.
type Config struct {
	Method string `yaml:"method"`
	Seed   int64  `yaml:"seed"`

	LearningRate float64 `yaml:"learning_rate"`

	// SGHMC only
	Friction         float64 `yaml:"friction"`
	VarianceEstimate float64 `yaml:"variance_estimate"`
	ResampleInterval int64   `yaml:"n_iter_resample_v"`

	// SGNHT only
	VarianceExtra float64 `yaml:"variance_extra"`
	TuneRate      float64 `yaml:"tune_rate"`
}

// Default returns the default configuration for the given method.
func Default(method string) *Config {
	return &Config{
		Method:           method,
		Seed:             DefaultSeed,
		LearningRate:     DefaultLearningRate,
		Friction:         DefaultFriction,
		VarianceEstimate: DefaultVarianceEstimate,
		ResampleInterval: DefaultResampleInterval,
		VarianceExtra:    DefaultVarianceExtra,
		TuneRate:         DefaultTuneRate,
	}
}

// Presets are ready-made configurations by name.
var Presets = map[string]*Config{
	"sgld-default": Default(SGLD),
	"sgld-fine": {
		Method: SGLD, Seed: DefaultSeed, LearningRate: 0.01,
	},
	"sghmc-default": Default(SGHMC),
	"sghmc-no-resample": {
		Method: SGHMC, Seed: DefaultSeed, LearningRate: 0.1,
		Friction: 0.25, VarianceEstimate: 0.0, ResampleInterval: 0,
	},
	"sgnht-default": Default(SGNHT),
	"sgnht-slow-tune": {
		Method: SGNHT, Seed: DefaultSeed, LearningRate: 0.1,
		VarianceExtra: 0.0, TuneRate: 0.1,
	},
}

// Load reads a yaml config file. Missing fields keep the method's
// defaults, so a file may set only what it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ config from %s", path)
	}

	// Parse once just for the method, then again over that method's
	// defaults.
	var probe Config
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE config from %s", path)
	}

	cfg := Default(probe.Method)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE config from %s", path)
	}

	return cfg, nil
}

// Save writes the config as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "Could not marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "Could not WRITE config to %s", path)
	}
	return nil
}

// Check validates hyperparameter ranges. The samplers themselves accept
// anything (invalid ranges just surface as NaN noise scales later); this
// is the one place ranges are enforced, and Build calls it.
func (c *Config) Check() error {
	if c.LearningRate <= 0.0 {
		return errors.Errorf("learning_rate must be positive, got %f", c.LearningRate)
	}

	switch c.Method {
	case SGLD:
		// learning rate is all SGLD has
	case SGHMC:
		if c.Friction < 0.0 || c.Friction >= 1.0 {
			return errors.Errorf("friction must be in [0, 1), got %f", c.Friction)
		}
		if c.VarianceEstimate > c.Friction {
			return errors.Errorf("variance_estimate %f must not exceed friction %f",
				c.VarianceEstimate, c.Friction)
		}
		if c.ResampleInterval < 0 {
			return errors.Errorf("n_iter_resample_v must be >= 0, got %d", c.ResampleInterval)
		}
	case SGNHT:
		if c.VarianceExtra < 0.0 {
			return errors.Errorf("variance_extra must be >= 0, got %f", c.VarianceExtra)
		}
		if c.TuneRate <= 0.0 {
			return errors.Errorf("tune_rate must be positive, got %f", c.TuneRate)
		}
	default:
		return errors.Errorf("Unknown method %q", c.Method)
	}

	return nil
}

// Build checks the config and creates the sampler with its own seeded
// generator.
func (c *Config) Build() (*sampler.Sampler, error) {
	if err := c.Check(); err != nil {
		return nil, err
	}

	gen, err := rand.NewGenerator(c.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "Could not create generator")
	}

	switch c.Method {
	case SGLD:
		return sampler.NewSGLD(sampler.SGLDConfig{
			LearningRate: c.LearningRate,
		}, gen)
	case SGHMC:
		return sampler.NewSGHMC(sampler.SGHMCConfig{
			LearningRate:     c.LearningRate,
			Friction:         c.Friction,
			VarianceEstimate: c.VarianceEstimate,
			ResampleInterval: c.ResampleInterval,
		}, gen)
	case SGNHT:
		return sampler.NewSGNHT(sampler.SGNHTConfig{
			LearningRate:  c.LearningRate,
			VarianceExtra: c.VarianceExtra,
			TuneRate:      c.TuneRate,
		}, gen)
	}

	// Check already rejected unknown methods
	return nil, errors.Errorf("Unknown method %q", c.Method)
}
