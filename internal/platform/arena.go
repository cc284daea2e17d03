package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"shellkick/internal/console"
	"shellkick/internal/explore"
	"shellkick/internal/fitness"
	"shellkick/internal/model"
	"shellkick/internal/storage"
	"shellkick/internal/swarm"
	"shellkick/internal/telemetry"
)

// ConsoleFactory builds a fresh console at its power-on state. All
// agents of a run share one world, so the factory is invoked once per
// agent with the same seed.
type ConsoleFactory func(seed uint64) console.Console

type ArenaConfig struct {
	Store      storage.Store
	Logger     *slog.Logger
	Supervisor SupervisorPolicy
}

type ExplorationConfig struct {
	RunID       string
	Console     string
	Agents      int
	Workers     int
	TickRate    float64
	Seed        int64
	Duration    time.Duration
	HistoryCap  int
	Rewind      explore.RewindPolicy
	Personality explore.Ranges
	SampleEvery time.Duration
}

type ExplorationResult struct {
	RunID        string
	Ticks        uint64
	BestProgress uint64
	Snapshots    []swarm.Snapshot
}

// Arena owns the store, the console registry, and the lifecycle of
// one exploration run at a time. Boundary failures (unknown console,
// store errors, a dead telemetry listener) are reported to the caller
// and never corrupt in-memory agent state.
type Arena struct {
	store    storage.Store
	logger   *slog.Logger
	sup      *Supervisor
	registry *prometheus.Registry
	metrics  *telemetry.Metrics

	mu       sync.RWMutex
	consoles map[string]ConsoleFactory
	started  bool
	current  *swarm.Population
}

func NewArena(cfg ArenaConfig) *Arena {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := prometheus.NewRegistry()
	a := &Arena{
		store:    cfg.Store,
		logger:   logger,
		registry: registry,
		metrics:  telemetry.NewMetrics(registry),
		consoles: make(map[string]ConsoleFactory),
	}
	a.sup = NewSupervisorWithHooks(cfg.Supervisor, SupervisorHooks{
		OnTaskRestart: func(name string, err error, restartCount int) {
			logger.Warn("task restarted", "task", name, "error", err, "restarts", restartCount)
		},
		OnTaskPermanentFailure: func(name string, err error, restartCount int) {
			logger.Error("task failed permanently", "task", name, "error", err, "restarts", restartCount)
		},
	})
	return a
}

func (a *Arena) Init(ctx context.Context) error {
	if a.store == nil {
		return fmt.Errorf("store is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return nil
	}
	if err := a.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	a.consoles["platformer"] = func(seed uint64) console.Console {
		return console.NewPlatformer(seed)
	}
	a.started = true
	return nil
}

func (a *Arena) RegisterConsole(name string, factory ConsoleFactory) error {
	if name == "" {
		return fmt.Errorf("console name is required")
	}
	if factory == nil {
		return fmt.Errorf("console factory is required")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return fmt.Errorf("arena is not initialized")
	}
	a.consoles[name] = factory
	return nil
}

func (a *Arena) Reset(ctx context.Context) error {
	resetter, ok := a.store.(storage.Resetter)
	if !ok {
		return fmt.Errorf("store does not support reset")
	}
	return resetter.Reset(ctx)
}

// ServeTelemetry exposes /metrics and the read-only /agents snapshot
// on the given address, supervised so a listener failure is retried
// without touching the run.
func (a *Arena) ServeTelemetry(listen string) error {
	if listen == "" {
		return fmt.Errorf("telemetry listen address is required")
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler(a.registry))
	mux.HandleFunc("/agents", a.handleAgents)

	spec := SupervisorChildSpec{Name: "telemetry", Restart: SupervisorRestartTransient}
	return a.sup.StartSpec(spec, func(ctx context.Context) error {
		server := &http.Server{Addr: listen, Handler: mux}
		errc := make(chan error, 1)
		go func() { errc <- server.ListenAndServe() }()
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
			return nil
		case err := <-errc:
			return err
		}
	})
}

func (a *Arena) handleAgents(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a.Snapshots())
}

// Snapshots returns the published per-agent results of the active run,
// or an empty slice when no run is live.
func (a *Arena) Snapshots() []swarm.Snapshot {
	a.mu.RLock()
	population := a.current
	a.mu.RUnlock()
	if population == nil {
		return []swarm.Snapshot{}
	}
	return population.Snapshots()
}

func (a *Arena) Shutdown() {
	a.sup.StopAll()
	a.mu.Lock()
	a.started = false
	a.current = nil
	a.mu.Unlock()
}

// RunExploration spawns a population against the named console and
// drives it until the context is done or the configured duration
// elapses, persisting the run summary, personalities, and sampled
// progress history.
func (a *Arena) RunExploration(ctx context.Context, cfg ExplorationConfig) (ExplorationResult, error) {
	a.mu.RLock()
	factory, ok := a.consoles[cfg.Console]
	started := a.started
	a.mu.RUnlock()

	if !started {
		return ExplorationResult{}, fmt.Errorf("arena is not initialized")
	}
	if !ok {
		return ExplorationResult{}, fmt.Errorf("console not registered: %s", cfg.Console)
	}
	if cfg.Agents <= 0 {
		return ExplorationResult{}, fmt.Errorf("agent count must be > 0")
	}
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 5 * time.Second
	}
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	evaluator, err := fitness.NewEvaluator(fitness.DefaultLayout())
	if err != nil {
		return ExplorationResult{}, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	agents := make([]*explore.Agent, 0, cfg.Agents)
	records := make([]model.AgentRecord, 0, cfg.Agents)
	for i := 0; i < cfg.Agents; i++ {
		personality, err := explore.SamplePersonality(rng, cfg.Personality)
		if err != nil {
			return ExplorationResult{}, fmt.Errorf("sample personality: %w", err)
		}
		agent, err := explore.NewAgent(explore.AgentConfig{
			ID:          uuid.NewString(),
			Console:     factory(uint64(cfg.Seed)),
			Personality: personality,
			Evaluator:   evaluator,
			HistoryCap:  cfg.HistoryCap,
			Rewind:      cfg.Rewind,
			Seed:        rng.Int63(),
		})
		if err != nil {
			return ExplorationResult{}, err
		}
		agents = append(agents, agent)
		records = append(records, toAgentRecord(agent, runID))
	}

	population, err := swarm.NewPopulation(swarm.Config{
		Agents:   agents,
		Workers:  cfg.Workers,
		TickRate: cfg.TickRate,
		Logger:   a.logger,
		Observer: a.metrics,
	})
	if err != nil {
		return ExplorationResult{}, err
	}

	run := model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:          runID,
		ConsoleName: cfg.Console,
		StartedAt:   time.Now().UTC(),
		AgentCount:  len(agents),
	}
	if err := a.store.SaveRun(ctx, run); err != nil {
		return ExplorationResult{}, err
	}
	if err := a.store.SaveAgents(ctx, runID, records); err != nil {
		return ExplorationResult{}, err
	}

	a.mu.Lock()
	a.current = population
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.current = nil
		a.mu.Unlock()
	}()

	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if cfg.Duration > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cfg.Duration)
	}
	defer cancel()

	var samples []model.ProgressSample
	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		err := population.Run(groupCtx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		ticker := time.NewTicker(cfg.SampleEvery)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				samples = appendProgress(samples, population)
			}
		}
	})
	if err := group.Wait(); err != nil {
		return ExplorationResult{}, err
	}

	samples = appendProgress(samples, population)
	snapshots := population.Snapshots()
	run.Ticks = population.Ticks()
	run.BestProgress = population.BestProgress()

	// The caller's context is usually done by now; final persistence
	// must still land.
	persistCtx := context.WithoutCancel(ctx)
	if err := a.store.SaveRun(persistCtx, run); err != nil {
		return ExplorationResult{}, err
	}
	if err := a.store.SaveProgress(persistCtx, runID, samples); err != nil {
		return ExplorationResult{}, err
	}

	return ExplorationResult{
		RunID:        runID,
		Ticks:        run.Ticks,
		BestProgress: run.BestProgress,
		Snapshots:    snapshots,
	}, nil
}

func appendProgress(samples []model.ProgressSample, population *swarm.Population) []model.ProgressSample {
	for _, snap := range population.Snapshots() {
		samples = append(samples, model.ProgressSample{
			AgentID:  snap.AgentID,
			Tick:     snap.Tick,
			Progress: snap.Progress,
			Outcome:  snap.Outcome.String(),
			Mode:     string(snap.Mode),
		})
	}
	return samples
}

func toAgentRecord(agent *explore.Agent, runID string) model.AgentRecord {
	p := agent.Personality()
	return model.AgentRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: storage.CurrentSchemaVersion,
			CodecVersion:  storage.CurrentCodecVersion,
		},
		ID:    agent.ID(),
		RunID: runID,
		Personality: model.PersonalityRecord{
			Patience:           p.Patience,
			RandomDuration:     p.RandomDuration,
			Horizon:            p.Horizon,
			MutationRate:       p.MutationRate,
			CandidateCount:     p.CandidateCount,
			CheckpointInterval: p.CheckpointInterval,
			RunBias:            p.RunBias,
		},
	}
}
