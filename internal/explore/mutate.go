package explore

import (
	"math/rand"

	"shellkick/internal/console"
)

// NextAction perturbs the previous frame's input. Each independent
// control bit flips with probability MutationRate; the horizontal
// directions form an exclusive group, so mutating them picks exactly
// one direction. A run-biased personality holds B down unconditionally.
func NextAction(prev console.Buttons, p Personality, rng *rand.Rand) console.Buttons {
	next := prev
	for _, bit := range []console.Buttons{console.ButtonA, console.ButtonB} {
		if rng.Float64() < p.MutationRate {
			next ^= bit
		}
	}
	if rng.Float64() < p.MutationRate {
		next &^= console.DirectionMask
		if rng.Intn(2) == 0 {
			next |= console.ButtonRight
		} else {
			next |= console.ButtonLeft
		}
	}
	if p.RunBias {
		next |= console.ButtonB
	}
	return next
}

// Sequence chains NextAction for horizon frames, feeding each output
// back in as the next previous action.
func Sequence(prev console.Buttons, horizon int, p Personality, rng *rand.Rand) []console.Buttons {
	seq := make([]console.Buttons, horizon)
	action := prev
	for i := range seq {
		action = NextAction(action, p, rng)
		seq[i] = action
	}
	return seq
}
