package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"shellkick/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]model.RunRecord
	agents      map[string][]model.AgentRecord
	progress    map[string][]model.ProgressSample
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]model.RunRecord)
	s.agents = make(map[string][]model.AgentRecord)
	s.progress = make(map[string][]model.ProgressSample)
	return nil
}

func (s *MemoryStore) checkInitialized() error {
	if !s.initialized {
		return errors.New("memory store is not initialized")
	}
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return err
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkInitialized(); err != nil {
		return model.RunRecord{}, false, err
	}
	run, ok := s.runs[id]
	return run, ok, nil
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkInitialized(); err != nil {
		return nil, err
	}
	out := make([]model.RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (s *MemoryStore) SaveAgents(_ context.Context, runID string, agents []model.AgentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return err
	}
	s.agents[runID] = append([]model.AgentRecord(nil), agents...)
	return nil
}

func (s *MemoryStore) GetAgents(_ context.Context, runID string) ([]model.AgentRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkInitialized(); err != nil {
		return nil, false, err
	}
	agents, ok := s.agents[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.AgentRecord(nil), agents...), true, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, runID string, samples []model.ProgressSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkInitialized(); err != nil {
		return err
	}
	s.progress[runID] = append([]model.ProgressSample(nil), samples...)
	return nil
}

func (s *MemoryStore) GetProgress(_ context.Context, runID string) ([]model.ProgressSample, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkInitialized(); err != nil {
		return nil, false, err
	}
	samples, ok := s.progress[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.ProgressSample(nil), samples...), true, nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs = make(map[string]model.RunRecord)
	s.agents = make(map[string][]model.AgentRecord)
	s.progress = make(map[string][]model.ProgressSample)
	return nil
}
