package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

type RunRecord struct {
	VersionedRecord
	ID           string    `json:"id"`
	ConsoleName  string    `json:"console_name"`
	StartedAt    time.Time `json:"started_at"`
	Ticks        uint64    `json:"ticks"`
	AgentCount   int       `json:"agent_count"`
	BestProgress uint64    `json:"best_progress"`
}

type AgentRecord struct {
	VersionedRecord
	ID          string            `json:"id"`
	RunID       string            `json:"run_id"`
	Personality PersonalityRecord `json:"personality"`
}

// PersonalityRecord mirrors the spawn-time tunables; published once,
// read-only thereafter.
type PersonalityRecord struct {
	Patience           int     `json:"patience"`
	RandomDuration     int     `json:"random_duration"`
	Horizon            int     `json:"horizon"`
	MutationRate       float64 `json:"mutation_rate"`
	CandidateCount     int     `json:"candidate_count"`
	CheckpointInterval int     `json:"checkpoint_interval"`
	RunBias            bool    `json:"run_bias"`
}

type ProgressSample struct {
	AgentID  string `json:"agent_id"`
	Tick     uint64 `json:"tick"`
	Progress uint64 `json:"progress"`
	Outcome  string `json:"outcome"`
	Mode     string `json:"mode"`
}
