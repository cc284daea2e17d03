package swarm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"shellkick/internal/explore"
	"shellkick/internal/fitness"
)

// Snapshot is the per-agent result published after each tick. It is a
// value copy; holders never alias live agent state.
type Snapshot struct {
	AgentID  string       `json:"agent_id"`
	Tick     uint64       `json:"tick"`
	Progress uint64       `json:"progress"`
	Outcome  fitness.Kind `json:"outcome"`
	Mode     explore.Mode `json:"mode"`
}

// Observer receives aggregate results after every completed tick.
type Observer interface {
	ObserveTick(elapsed time.Duration, best uint64, reverts, randomWalks uint64)
}

type Config struct {
	Agents   []*explore.Agent
	Workers  int
	TickRate float64
	Logger   *slog.Logger
	Observer Observer
}

const logEveryTicks = 600

// Population runs a fixed agent set in lockstep. Each worker owns a
// static sublist of agents and processes it sequentially every tick;
// the only state crossing workers is the published snapshot, guarded
// by one lock per agent.
type Population struct {
	agents     []*explore.Agent
	partitions [][]int
	slots      []slot

	tickRate float64
	limiter  *rate.Limiter
	logger   *slog.Logger
	observer Observer

	ticks atomic.Uint64
}

type slot struct {
	mu   sync.Mutex
	snap Snapshot
}

func NewPopulation(cfg Config) (*Population, error) {
	if len(cfg.Agents) == 0 {
		return nil, fmt.Errorf("at least one agent is required")
	}
	for i, agent := range cfg.Agents {
		if agent == nil {
			return nil, fmt.Errorf("agent is nil at index %d", i)
		}
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(cfg.Agents) {
		workers = len(cfg.Agents)
	}
	tickRate := cfg.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	partitions := make([][]int, workers)
	for i := range cfg.Agents {
		w := i % workers
		partitions[w] = append(partitions[w], i)
	}

	p := &Population{
		agents:     cfg.Agents,
		partitions: partitions,
		slots:      make([]slot, len(cfg.Agents)),
		tickRate:   tickRate,
		limiter:    rate.NewLimiter(rate.Limit(tickRate), 1),
		logger:     logger,
		observer:   cfg.Observer,
	}
	for i, agent := range cfg.Agents {
		p.slots[i].snap = Snapshot{AgentID: agent.ID(), Mode: agent.Mode(), Outcome: agent.Outcome()}
	}
	return p, nil
}

// TickOnce advances every agent by exactly one frame and publishes
// snapshots. It returns after all workers have joined, so published
// results are valid for the tick as a whole.
func (p *Population) TickOnce() {
	tick := p.ticks.Load() + 1

	var wg sync.WaitGroup
	wg.Add(len(p.partitions))
	for _, part := range p.partitions {
		go func(indices []int) {
			defer wg.Done()
			for _, idx := range indices {
				agent := p.agents[idx]
				agent.Tick()

				snap := Snapshot{
					AgentID:  agent.ID(),
					Tick:     tick,
					Progress: agent.Progress(),
					Outcome:  agent.Outcome(),
					Mode:     agent.Mode(),
				}
				p.slots[idx].mu.Lock()
				p.slots[idx].snap = snap
				p.slots[idx].mu.Unlock()
			}
		}(part)
	}
	wg.Wait()

	p.ticks.Store(tick)
}

// Run drives ticks at the target rate until the context is cancelled.
// A tick that overruns its budget is not compensated for: the driver
// is best-effort real time and never skips ticks to catch up.
func (p *Population) Run(ctx context.Context) error {
	p.logger.Info("population started",
		"agents", len(p.agents),
		"workers", len(p.partitions),
		"tick_rate", p.tickRate,
	)
	defer func() {
		p.logger.Info("population stopped", "ticks", p.ticks.Load(), "best_progress", p.BestProgress())
	}()

	for {
		if err := p.limiter.Wait(ctx); err != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			// Wait also refuses when the remaining deadline cannot fit
			// the next tick slot. The run is over either way.
			return nil
		}
		start := time.Now()
		p.TickOnce()
		elapsed := time.Since(start)

		if p.observer != nil {
			best, reverts, randomWalks := p.aggregate()
			p.observer.ObserveTick(elapsed, best, reverts, randomWalks)
		}
		if tick := p.ticks.Load(); tick%logEveryTicks == 0 {
			p.logger.Debug("tick checkpoint", "tick", tick, "best_progress", p.BestProgress(), "last_tick", elapsed)
		}
	}
}

func (p *Population) aggregate() (best, reverts, randomWalks uint64) {
	for _, agent := range p.agents {
		if progress := agent.Progress(); progress > best {
			best = progress
		}
		reverts += agent.Reverts()
		randomWalks += agent.RandomWalks()
	}
	return best, reverts, randomWalks
}

// Snapshots copies the published per-agent results. Safe to call from
// any goroutine while the driver runs.
func (p *Population) Snapshots() []Snapshot {
	out := make([]Snapshot, len(p.slots))
	for i := range p.slots {
		p.slots[i].mu.Lock()
		out[i] = p.slots[i].snap
		p.slots[i].mu.Unlock()
	}
	return out
}

func (p *Population) BestProgress() uint64 {
	best := uint64(0)
	for _, snap := range p.Snapshots() {
		if snap.Progress > best {
			best = snap.Progress
		}
	}
	return best
}

func (p *Population) Ticks() uint64 {
	return p.ticks.Load()
}

func (p *Population) Agents() []*explore.Agent {
	return p.agents
}
