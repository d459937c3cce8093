package sampler_test

import (
	"fmt"
	"log"

	"github.com/probgo/sgmcmc/model"
	"github.com/probgo/sgmcmc/rand"
	"github.com/probgo/sgmcmc/sampler"
	"github.com/probgo/sgmcmc/tensor"
)

// Draw posterior samples for one scalar latent of a factorized normal
// model. A zero learning rate makes the chain a deterministic no-op,
// which keeps the example output stable.
func Example() {
	gen, err := rand.NewGenerator(1)
	if err != nil {
		log.Fatal(err)
	}

	meta, err := model.NewGaussian(
		map[string]float64{"q": 0.0},
		map[string]float64{"q": 1.0},
	)
	if err != nil {
		log.Fatal(err)
	}

	s, err := sampler.NewSGLD(sampler.SGLDConfig{LearningRate: 0.0}, gen)
	if err != nil {
		log.Fatal(err)
	}

	latent := map[string]*tensor.Var{"q": tensor.NewVar(tensor.Scalar(0.0))}
	step, err := s.Bind(meta, nil, latent)
	if err != nil {
		log.Fatal(err)
	}

	res, err := step.Run()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.T, res.Samples["q"].Data[0])
	// Output: 0 0
}
