package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"shellkick/internal/explore"
)

// Config is the full run configuration loaded from a YAML file. Zero
// values are filled with defaults before validation, so a minimal file
// only needs to name what it overrides.
type Config struct {
	Run       Run       `yaml:"run"`
	Store     Store     `yaml:"store"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type Run struct {
	Console     string         `yaml:"console"`
	Agents      int            `yaml:"agents"`
	Workers     int            `yaml:"workers"`
	TickRate    float64        `yaml:"tick_rate"`
	Seed        int64          `yaml:"seed"`
	Duration    time.Duration  `yaml:"duration"`
	HistoryCap  int            `yaml:"history_cap"`
	Rewind      Rewind         `yaml:"rewind"`
	Personality explore.Ranges `yaml:"personality"`
	SampleEvery time.Duration  `yaml:"sample_every"`
}

type Rewind struct {
	Short int `yaml:"short"`
	Long  int `yaml:"long"`
}

type Store struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
}

type Telemetry struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

func Default() Config {
	return Config{
		Run: Run{
			Console:     "platformer",
			Agents:      64,
			Workers:     4,
			TickRate:    60,
			Seed:        1,
			Duration:    0,
			HistoryCap:  explore.DefaultHistoryCap,
			Rewind:      Rewind{Short: 150, Long: 3600},
			Personality: explore.DefaultRanges(),
			SampleEvery: 5 * time.Second,
		},
		Store: Store{
			Backend:    "memory",
			SQLitePath: "shellkick.db",
		},
		Telemetry: Telemetry{
			Enabled: false,
			Listen:  ":9154",
		},
	}
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Run.Console == "" {
		c.Run.Console = def.Run.Console
	}
	if c.Run.Agents <= 0 {
		c.Run.Agents = def.Run.Agents
	}
	if c.Run.Workers <= 0 {
		c.Run.Workers = def.Run.Workers
	}
	if c.Run.TickRate <= 0 {
		c.Run.TickRate = def.Run.TickRate
	}
	if c.Run.HistoryCap <= 0 {
		c.Run.HistoryCap = def.Run.HistoryCap
	}
	if c.Run.Rewind.Short <= 0 {
		c.Run.Rewind.Short = def.Run.Rewind.Short
	}
	if c.Run.Rewind.Long <= 0 {
		c.Run.Rewind.Long = def.Run.Rewind.Long
	}
	fillRanges(&c.Run.Personality, def.Run.Personality)
	if c.Run.SampleEvery <= 0 {
		c.Run.SampleEvery = def.Run.SampleEvery
	}
	if c.Store.Backend == "" {
		c.Store.Backend = def.Store.Backend
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = def.Store.SQLitePath
	}
	if c.Telemetry.Listen == "" {
		c.Telemetry.Listen = def.Telemetry.Listen
	}
}

// fillRanges defaults each unset sampling range independently, so a
// file can override one tunable without restating the rest.
func fillRanges(r *explore.Ranges, def explore.Ranges) {
	if r.Patience == (explore.IntRange{}) {
		r.Patience = def.Patience
	}
	if r.RandomDuration == (explore.IntRange{}) {
		r.RandomDuration = def.RandomDuration
	}
	if r.Horizon == (explore.IntRange{}) {
		r.Horizon = def.Horizon
	}
	if r.MutationRate == (explore.FloatRange{}) {
		r.MutationRate = def.MutationRate
	}
	if r.CandidateCount == (explore.IntRange{}) {
		r.CandidateCount = def.CandidateCount
	}
	if r.CheckpointInterval == (explore.IntRange{}) {
		r.CheckpointInterval = def.CheckpointInterval
	}
	if r.RunBiasChance == 0 {
		r.RunBiasChance = def.RunBiasChance
	}
}

func (c Config) Validate() error {
	if c.Run.Console == "" {
		return fmt.Errorf("run console is required")
	}
	if c.Run.Agents <= 0 {
		return fmt.Errorf("run agents must be > 0")
	}
	if c.Run.Workers <= 0 {
		return fmt.Errorf("run workers must be > 0")
	}
	if c.Run.TickRate <= 0 {
		return fmt.Errorf("run tick rate must be > 0")
	}
	if c.Run.HistoryCap <= 0 {
		return fmt.Errorf("run history cap must be > 0")
	}
	if c.Run.Rewind.Short <= 0 || c.Run.Rewind.Long < c.Run.Rewind.Short {
		return fmt.Errorf("rewind must satisfy 0 < short <= long")
	}
	if err := c.Run.Personality.Validate(); err != nil {
		return fmt.Errorf("personality ranges: %w", err)
	}
	switch c.Store.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unsupported store backend: %s", c.Store.Backend)
	}
	if c.Store.Backend == "sqlite" && c.Store.SQLitePath == "" {
		return fmt.Errorf("sqlite path is required for the sqlite backend")
	}
	return nil
}
