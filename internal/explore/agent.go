package explore

import (
	"fmt"
	"math/rand"

	"shellkick/internal/console"
	"shellkick/internal/fitness"
)

// Mode labels the agent's behavior at the last decision point.
type Mode string

const (
	ModeSearching     Mode = "searching"
	ModeRandomWalking Mode = "random_walking"
)

type AgentConfig struct {
	ID          string
	Console     console.Console
	Personality Personality
	Evaluator   Evaluator
	HistoryCap  int
	Rewind      RewindPolicy
	Seed        int64
}

// Agent drives one console toward higher fitness. It owns its frontier
// state, checkpoint history, and action queue exclusively; callers
// read results through accessors after Tick returns. Adverse outcomes
// never surface as errors — they are absorbed by revert and random
// walk, so an agent is never torn down mid-run.
type Agent struct {
	id          string
	personality Personality
	eval        Evaluator
	rng         *rand.Rand
	rewind      RewindPolicy

	frontier   console.Console
	history    *History
	queue      []console.Buttons
	lastAction console.Buttons

	stuck           int
	randomLeft      int
	untilCheckpoint int
	sinceCheckpoint int

	ticks        uint64
	lastProgress uint64
	lastKind     fitness.Kind
	reverts      uint64
	randomWalks  uint64
}

func NewAgent(cfg AgentConfig) (*Agent, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	if cfg.Console == nil {
		return nil, fmt.Errorf("console is required")
	}
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if err := cfg.Personality.Validate(); err != nil {
		return nil, fmt.Errorf("personality for agent %s: %w", cfg.ID, err)
	}
	if cfg.HistoryCap <= 0 {
		cfg.HistoryCap = DefaultHistoryCap
	}
	if cfg.Rewind == (RewindPolicy{}) {
		cfg.Rewind = DefaultRewindPolicy()
	}
	if err := cfg.Rewind.Validate(); err != nil {
		return nil, fmt.Errorf("rewind policy for agent %s: %w", cfg.ID, err)
	}

	history, err := NewHistory(cfg.HistoryCap)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		id:              cfg.ID,
		personality:     cfg.Personality,
		eval:            cfg.Evaluator,
		rng:             rand.New(rand.NewSource(cfg.Seed)),
		rewind:          cfg.Rewind,
		frontier:        cfg.Console,
		history:         history,
		untilCheckpoint: cfg.Personality.CheckpointInterval,
		lastKind:        fitness.KindTransitional,
	}
	// Seed the floor checkpoint so a revert can never run out of
	// history: the worst case lands back at the start of the run.
	a.history.Append(NewCheckpoint(a.frontier.Clone(), 0))
	return a, nil
}

// Tick advances the agent by exactly one frame. Most ticks drain one
// queued action; an empty queue marks a decision point first.
func (a *Agent) Tick() {
	if len(a.queue) == 0 {
		a.decide()
	}
	a.step()
	a.ticks++
}

func (a *Agent) decide() {
	current := a.eval.Evaluate(a.frontier)

	if current.Kind == fitness.KindFailing {
		// Rewind fails only on an empty history; the seed checkpoint
		// makes that unreachable here, but an exhausted floor still
		// just means the search retries from wherever we land.
		if state, err := Rewind(a.history, a.rewind.Frames(current.Terminal)); err == nil {
			a.frontier = state
			a.sinceCheckpoint = 0
			a.untilCheckpoint = a.personality.CheckpointInterval
			a.reverts++
			current = a.eval.Evaluate(a.frontier)
		}
	} else if a.untilCheckpoint <= 0 {
		a.history.Append(NewCheckpoint(a.frontier.Clone(), a.sinceCheckpoint))
		a.sinceCheckpoint = 0
		a.untilCheckpoint = a.personality.CheckpointInterval
	} else {
		a.untilCheckpoint--
	}

	if a.randomLeft > 0 {
		a.randomLeft--
		a.queue = Sequence(a.lastAction, a.personality.Horizon, a.personality, a.rng)
		return
	}

	seq, best := Search(a.frontier, a.lastAction, a.personality, a.eval, a.rng)
	if !fitness.Better(best, current) && best.Kind != fitness.KindTransitional {
		a.stuck++
		if a.stuck >= a.personality.Patience {
			a.stuck = 0
			a.randomLeft = a.personality.RandomDuration
			a.randomWalks++
		}
	} else {
		a.stuck = 0
	}
	a.queue = seq
}

func (a *Agent) step() {
	action := a.queue[0]
	a.queue = a.queue[1:]
	a.frontier.SetInput(action)
	a.frontier.StepFrame()
	a.lastAction = action
	a.sinceCheckpoint++

	out := a.eval.Evaluate(a.frontier)
	a.lastKind = out.Kind
	if out.Kind == fitness.KindProgressing {
		a.lastProgress = out.Distance
	}
}

func (a *Agent) ID() string { return a.id }

func (a *Agent) Personality() Personality { return a.personality }

// Progress is the distance of the latest Progressing outcome, holding
// its last value through Failing and Transitional states.
func (a *Agent) Progress() uint64 { return a.lastProgress }

func (a *Agent) Outcome() fitness.Kind { return a.lastKind }

func (a *Agent) Mode() Mode {
	if a.randomLeft > 0 {
		return ModeRandomWalking
	}
	return ModeSearching
}

func (a *Agent) Ticks() uint64 { return a.ticks }

func (a *Agent) Reverts() uint64 { return a.reverts }

func (a *Agent) RandomWalks() uint64 { return a.randomWalks }

func (a *Agent) HistoryLen() int { return a.history.Len() }
