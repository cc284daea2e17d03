package explore

import (
	"math/rand"

	"shellkick/internal/console"
	"shellkick/internal/fitness"
)

// Evaluator scores a console state. fitness.Evaluator satisfies it;
// tests inject fixed-outcome stubs.
type Evaluator interface {
	Evaluate(c console.Console) fitness.Outcome
}

// Search generates CandidateCount action sequences, scores each by
// stepping an independent clone of state through it, and returns the
// best sequence with its outcome. Ties keep the earliest candidate.
// The caller's state is never touched: the frontier is advanced later,
// one action at a time, so observed per-frame fitness stays accurate.
func Search(state console.Console, prev console.Buttons, p Personality, eval Evaluator, rng *rand.Rand) ([]console.Buttons, fitness.Outcome) {
	var bestSeq []console.Buttons
	var best fitness.Outcome

	for i := 0; i < p.CandidateCount; i++ {
		seq := Sequence(prev, p.Horizon, p, rng)
		clone := state.Clone()
		for _, action := range seq {
			clone.SetInput(action)
			clone.StepFrame()
		}
		outcome := eval.Evaluate(clone)
		if i == 0 || fitness.Better(outcome, best) {
			best = outcome
			bestSeq = seq
		}
	}
	return bestSeq, best
}
