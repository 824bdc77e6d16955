package solver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/gridbots/game/eval"
)

// Tuning is the on-disk shape of a solver tuning file:
//
//	search:
//	  beam_width: 24
//	  max_depth: 32
//	  max_attempts: 5000
//	  max_time_ms: 20000
//	  progress_every: 100
//	  workers: 8
//	eval:
//	  max_ticks: 200
//	  vm_max_steps: 500
//	  sample_every: 10
type Tuning struct {
	Search Options    `yaml:"search"`
	Eval   evalTuning `yaml:"eval"`
}

type evalTuning struct {
	MaxTicks    int `yaml:"max_ticks"`
	VMMaxSteps  int `yaml:"vm_max_steps"`
	SampleEvery int `yaml:"sample_every"`
}

// EvalOptions converts the eval section into evaluator options.
func (t *Tuning) EvalOptions() eval.Options {
	return eval.Options{
		MaxTicks:    t.Eval.MaxTicks,
		VMMaxSteps:  t.Eval.VMMaxSteps,
		SampleEvery: t.Eval.SampleEvery,
	}
}

// LoadTuning reads a YAML tuning file. Missing fields keep their zero value
// and fall back to the search defaults at Search time.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var tuning Tuning
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return nil, fmt.Errorf("failed to parse tuning file '%s': %w", path, err)
	}

	return &tuning, nil
}
