package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the whole-namespace export format. Data keys are unprefixed.
type Snapshot struct {
	Data       map[string]json.RawMessage `json:"data"`
	Timestamp  string                     `json:"timestamp"`
	AppVersion string                     `json:"appVersion"`
}

// ParseSnapshot decodes an export file. Anything that is not exactly
// {data, timestamp, appVersion} with an object for data is rejected.
func ParseSnapshot(b []byte) (*Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()

	var raw struct {
		Data       map[string]json.RawMessage `json:"data"`
		Timestamp  *string                    `json:"timestamp"`
		AppVersion *string                    `json:"appVersion"`
	}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidSnapshot)
	}
	if raw.Data == nil {
		return nil, fmt.Errorf("%w: data is required (must be an object)", ErrInvalidSnapshot)
	}
	if raw.Timestamp == nil {
		return nil, fmt.Errorf("%w: timestamp is required", ErrInvalidSnapshot)
	}
	if raw.AppVersion == nil {
		return nil, fmt.Errorf("%w: appVersion is required", ErrInvalidSnapshot)
	}

	return &Snapshot{
		Data:       raw.Data,
		Timestamp:  *raw.Timestamp,
		AppVersion: *raw.AppVersion,
	}, nil
}

// Encode renders the snapshot the way export files are written.
func (s *Snapshot) Encode() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(b, '\n'), nil
}
