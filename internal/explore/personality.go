package explore

import (
	"fmt"
	"math/rand"
)

// Personality is the immutable tunable set distinguishing one agent's
// exploration behavior from another's. Fields are fixed at spawn.
type Personality struct {
	Patience           int     `json:"patience" yaml:"patience"`
	RandomDuration     int     `json:"random_duration" yaml:"random_duration"`
	Horizon            int     `json:"horizon" yaml:"horizon"`
	MutationRate       float64 `json:"mutation_rate" yaml:"mutation_rate"`
	CandidateCount     int     `json:"candidate_count" yaml:"candidate_count"`
	CheckpointInterval int     `json:"checkpoint_interval" yaml:"checkpoint_interval"`
	RunBias            bool    `json:"run_bias" yaml:"run_bias"`
}

func (p Personality) Validate() error {
	if p.Patience <= 0 {
		return fmt.Errorf("patience must be > 0")
	}
	if p.RandomDuration <= 0 {
		return fmt.Errorf("random duration must be > 0")
	}
	if p.Horizon <= 0 {
		return fmt.Errorf("horizon must be > 0")
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0, 1]")
	}
	if p.CandidateCount <= 0 {
		return fmt.Errorf("candidate count must be > 0")
	}
	if p.CheckpointInterval <= 0 {
		return fmt.Errorf("checkpoint interval must be > 0")
	}
	return nil
}

// IntRange is an inclusive sampling interval.
type IntRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r IntRange) sample(rng *rand.Rand) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

func (r IntRange) validate(name string) error {
	if r.Min <= 0 {
		return fmt.Errorf("%s min must be > 0", name)
	}
	if r.Max < r.Min {
		return fmt.Errorf("%s max must be >= min", name)
	}
	return nil
}

// FloatRange is a half-open sampling interval.
type FloatRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r FloatRange) sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Ranges bounds personality sampling at spawn time.
type Ranges struct {
	Patience           IntRange   `json:"patience" yaml:"patience"`
	RandomDuration     IntRange   `json:"random_duration" yaml:"random_duration"`
	Horizon            IntRange   `json:"horizon" yaml:"horizon"`
	MutationRate       FloatRange `json:"mutation_rate" yaml:"mutation_rate"`
	CandidateCount     IntRange   `json:"candidate_count" yaml:"candidate_count"`
	CheckpointInterval IntRange   `json:"checkpoint_interval" yaml:"checkpoint_interval"`
	RunBiasChance      float64    `json:"run_bias_chance" yaml:"run_bias_chance"`
}

func DefaultRanges() Ranges {
	return Ranges{
		Patience:           IntRange{Min: 3, Max: 12},
		RandomDuration:     IntRange{Min: 10, Max: 60},
		Horizon:            IntRange{Min: 20, Max: 60},
		MutationRate:       FloatRange{Min: 0.05, Max: 0.25},
		CandidateCount:     IntRange{Min: 3, Max: 8},
		CheckpointInterval: IntRange{Min: 20, Max: 80},
		RunBiasChance:      0.5,
	}
}

func (r Ranges) Validate() error {
	if err := r.Patience.validate("patience"); err != nil {
		return err
	}
	if err := r.RandomDuration.validate("random duration"); err != nil {
		return err
	}
	if err := r.Horizon.validate("horizon"); err != nil {
		return err
	}
	if r.MutationRate.Min < 0 || r.MutationRate.Max > 1 || r.MutationRate.Max < r.MutationRate.Min {
		return fmt.Errorf("mutation rate range must satisfy 0 <= min <= max <= 1")
	}
	if err := r.CandidateCount.validate("candidate count"); err != nil {
		return err
	}
	if err := r.CheckpointInterval.validate("checkpoint interval"); err != nil {
		return err
	}
	if r.RunBiasChance < 0 || r.RunBiasChance > 1 {
		return fmt.Errorf("run bias chance must be in [0, 1]")
	}
	return nil
}

// SamplePersonality draws one personality from the configured ranges.
func SamplePersonality(rng *rand.Rand, ranges Ranges) (Personality, error) {
	if err := ranges.Validate(); err != nil {
		return Personality{}, err
	}
	p := Personality{
		Patience:           ranges.Patience.sample(rng),
		RandomDuration:     ranges.RandomDuration.sample(rng),
		Horizon:            ranges.Horizon.sample(rng),
		MutationRate:       ranges.MutationRate.sample(rng),
		CandidateCount:     ranges.CandidateCount.sample(rng),
		CheckpointInterval: ranges.CheckpointInterval.sample(rng),
		RunBias:            rng.Float64() < ranges.RunBiasChance,
	}
	if err := p.Validate(); err != nil {
		return Personality{}, err
	}
	return p, nil
}
