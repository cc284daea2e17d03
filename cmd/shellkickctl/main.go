package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shellkick/internal/config"
	"shellkick/internal/explore"
	"shellkick/internal/platform"
	"shellkick/internal/storage"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "peek":
		return runPeek(ctx, args[1:])
	case "validate":
		return runValidate(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shellkick.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	arena := platform.NewArena(platform.ArenaConfig{Store: store})
	if err := arena.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shellkick.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	arena := platform.NewArena(platform.ArenaConfig{Store: store})
	if err := arena.Init(ctx); err != nil {
		return err
	}
	if err := arena.Reset(ctx); err != nil {
		return err
	}

	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config (defaults apply when empty)")
	duration := fs.Duration("duration", 0, "override run duration (0 runs until interrupted)")
	agents := fs.Int("agents", 0, "override agent count")
	seed := fs.Int64("seed", 0, "override world and personality seed")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Run.Duration = *duration
		case "agents":
			cfg.Run.Agents = *agents
		case "seed":
			cfg.Run.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := storage.NewStore(cfg.Store.Backend, cfg.Store.SQLitePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	arena := platform.NewArena(platform.ArenaConfig{Store: store, Logger: logger})
	if err := arena.Init(ctx); err != nil {
		return err
	}
	defer arena.Shutdown()

	if cfg.Telemetry.Enabled {
		if err := arena.ServeTelemetry(cfg.Telemetry.Listen); err != nil {
			return err
		}
		logger.Info("telemetry listening", "addr", cfg.Telemetry.Listen)
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := arena.RunExploration(runCtx, platform.ExplorationConfig{
		Console:     cfg.Run.Console,
		Agents:      cfg.Run.Agents,
		Workers:     cfg.Run.Workers,
		TickRate:    cfg.Run.TickRate,
		Seed:        cfg.Run.Seed,
		Duration:    cfg.Run.Duration,
		HistoryCap:  cfg.Run.HistoryCap,
		Rewind:      explore.RewindPolicy{Short: cfg.Run.Rewind.Short, Long: cfg.Run.Rewind.Long},
		Personality: cfg.Run.Personality,
		SampleEvery: cfg.Run.SampleEvery,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run=%s ticks=%d best_progress=%d agents=%d\n",
		result.RunID, result.Ticks, result.BestProgress, len(result.Snapshots))
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shellkick.db", "sqlite database path")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		return json.NewEncoder(os.Stdout).Encode(runs)
	}
	for _, r := range runs {
		fmt.Printf("run=%s console=%s started=%s ticks=%d agents=%d best_progress=%d\n",
			r.ID, r.ConsoleName, r.StartedAt.Format(time.RFC3339), r.Ticks, r.AgentCount, r.BestProgress)
	}
	return nil
}

func runPeek(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("peek", flag.ContinueOnError)
	storeKind := fs.String("store", "memory", "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "shellkick.db", "sqlite database path")
	runID := fs.String("run", "", "run id to inspect")
	asJSON := fs.Bool("json", false, "emit JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return usageError("peek requires -run")
	}

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}

	run, ok, err := store.GetRun(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run not found: %s", *runID)
	}
	agents, _, err := store.GetAgents(ctx, *runID)
	if err != nil {
		return err
	}
	samples, _, err := store.GetProgress(ctx, *runID)
	if err != nil {
		return err
	}

	if *asJSON {
		return json.NewEncoder(os.Stdout).Encode(struct {
			Run      any `json:"run"`
			Agents   any `json:"agents"`
			Progress any `json:"progress"`
		}{run, agents, samples})
	}

	fmt.Printf("run=%s console=%s started=%s ticks=%d best_progress=%d\n",
		run.ID, run.ConsoleName, run.StartedAt.Format(time.RFC3339), run.Ticks, run.BestProgress)
	for _, a := range agents {
		p := a.Personality
		fmt.Printf("agent=%s patience=%d random_duration=%d horizon=%d mutation_rate=%.3f candidates=%d checkpoint_interval=%d run_bias=%t\n",
			a.ID, p.Patience, p.RandomDuration, p.Horizon, p.MutationRate, p.CandidateCount, p.CheckpointInterval, p.RunBias)
	}
	fmt.Printf("progress samples=%d\n", len(samples))
	return nil
}

func runValidate(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to YAML config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return usageError("validate requires -config")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	fmt.Printf("config ok: console=%s agents=%d workers=%d tick_rate=%.0f store=%s\n",
		cfg.Run.Console, cfg.Run.Agents, cfg.Run.Workers, cfg.Run.TickRate, cfg.Store.Backend)
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: shellkickctl <init|reset|run|runs|peek|validate> [flags]", msg)
}
