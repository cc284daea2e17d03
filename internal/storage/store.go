package storage

import (
	"context"

	"shellkick/internal/model"
)

// Store defines persistence operations for run telemetry: run
// summaries, spawned personalities, and sampled progress history.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveAgents(ctx context.Context, runID string, agents []model.AgentRecord) error
	GetAgents(ctx context.Context, runID string) ([]model.AgentRecord, bool, error)
	SaveProgress(ctx context.Context, runID string, samples []model.ProgressSample) error
	GetProgress(ctx context.Context, runID string) ([]model.ProgressSample, bool, error)
}

// Resetter is implemented by stores that can drop all persisted state.
type Resetter interface {
	Reset(ctx context.Context) error
}
