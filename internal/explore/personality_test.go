package explore

import (
	"math/rand"
	"testing"
)

func TestSamplePersonalityStaysInRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	ranges := DefaultRanges()

	for i := 0; i < 200; i++ {
		p, err := SamplePersonality(rng, ranges)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		if p.Patience < ranges.Patience.Min || p.Patience > ranges.Patience.Max {
			t.Fatalf("patience %d outside [%d, %d]", p.Patience, ranges.Patience.Min, ranges.Patience.Max)
		}
		if p.Horizon < ranges.Horizon.Min || p.Horizon > ranges.Horizon.Max {
			t.Fatalf("horizon %d outside [%d, %d]", p.Horizon, ranges.Horizon.Min, ranges.Horizon.Max)
		}
		if p.MutationRate < ranges.MutationRate.Min || p.MutationRate > ranges.MutationRate.Max {
			t.Fatalf("mutation rate %f outside [%f, %f]", p.MutationRate, ranges.MutationRate.Min, ranges.MutationRate.Max)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("sampled personality invalid: %v", err)
		}
	}
}

func TestSamplePersonalityProducesVariety(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	ranges := DefaultRanges()

	biased, unbiased := 0, 0
	for i := 0; i < 200; i++ {
		p, err := SamplePersonality(rng, ranges)
		if err != nil {
			t.Fatalf("sample: %v", err)
		}
		if p.RunBias {
			biased++
		} else {
			unbiased++
		}
	}
	if biased == 0 || unbiased == 0 {
		t.Fatalf("run bias never varied: biased=%d unbiased=%d", biased, unbiased)
	}
}

func TestSamplePersonalityDegenerateRange(t *testing.T) {
	ranges := DefaultRanges()
	ranges.Patience = IntRange{Min: 5, Max: 5}

	p, err := SamplePersonality(rand.New(rand.NewSource(1)), ranges)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if p.Patience != 5 {
		t.Fatalf("patience = %d, want fixed 5", p.Patience)
	}
}

func TestPersonalityValidate(t *testing.T) {
	valid := Personality{
		Patience: 3, RandomDuration: 10, Horizon: 20,
		MutationRate: 0.2, CandidateCount: 5, CheckpointInterval: 40,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid personality rejected: %v", err)
	}

	cases := map[string]func(p *Personality){
		"patience":            func(p *Personality) { p.Patience = 0 },
		"random duration":     func(p *Personality) { p.RandomDuration = 0 },
		"horizon":             func(p *Personality) { p.Horizon = -1 },
		"mutation rate":       func(p *Personality) { p.MutationRate = 1.5 },
		"candidate count":     func(p *Personality) { p.CandidateCount = 0 },
		"checkpoint interval": func(p *Personality) { p.CheckpointInterval = 0 },
	}
	for name, mutate := range cases {
		p := valid
		mutate(&p)
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestRangesValidate(t *testing.T) {
	if err := DefaultRanges().Validate(); err != nil {
		t.Fatalf("default ranges rejected: %v", err)
	}

	bad := DefaultRanges()
	bad.Patience = IntRange{Min: 0, Max: 5}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero min")
	}

	bad = DefaultRanges()
	bad.Horizon = IntRange{Min: 10, Max: 5}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for max < min")
	}

	bad = DefaultRanges()
	bad.RunBiasChance = 1.5
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for run bias chance > 1")
	}
}
