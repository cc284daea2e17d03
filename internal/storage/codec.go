package storage

import (
	"encoding/json"
	"errors"

	"shellkick/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeAgents(agents []model.AgentRecord) ([]byte, error) {
	return json.Marshal(agents)
}

func DecodeAgents(data []byte) ([]model.AgentRecord, error) {
	var agents []model.AgentRecord
	if err := json.Unmarshal(data, &agents); err != nil {
		return nil, err
	}
	for _, agent := range agents {
		if err := checkVersion(agent.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return agents, nil
}

func EncodeProgress(samples []model.ProgressSample) ([]byte, error) {
	return json.Marshal(samples)
}

func DecodeProgress(data []byte) ([]model.ProgressSample, error) {
	var samples []model.ProgressSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
