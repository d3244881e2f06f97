// Package savefile defines the exported game record: the JSON document
// written by file export and exchanged with the save-slot store. Loading a
// record reproduces the mission/hero collections and the active game mode;
// the timestamp is volatile and ignored by comparisons.
package savefile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"contagio/internal/domain"
)

const Version = "1.0"

type Record struct {
	Version        string                        `json:"version"`
	Timestamp      string                        `json:"timestamp"`
	GameMode       domain.GameMode               `json:"gameMode"`
	Missions       []domain.Mission              `json:"missions"`
	Heroes         []domain.Hero                 `json:"heroes"`
	StateLocations map[string]domain.Coordinates `json:"stateLocations,omitempty"`
}

// New snapshots the current session into an export record.
func New(mode domain.GameMode, missions []domain.Mission, heroes []domain.Hero, stateLocations map[string]domain.Coordinates, now time.Time) Record {
	return Record{
		Version:        Version,
		Timestamp:      now.UTC().Format(time.RFC3339),
		GameMode:       mode,
		Missions:       missions,
		Heroes:         heroes,
		StateLocations: stateLocations,
	}
}

func (r Record) Encode() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Decode parses and normalizes a record. Unknown fields are ignored and
// missing optional fields stay absent; invalid enum values are rejected so a
// corrupt save cannot smuggle an unrepresentable status into the engine.
func Decode(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("parse save record: %w", err)
	}
	if r.GameMode == "" {
		r.GameMode = domain.ModeHeroes
	}
	if !r.GameMode.Valid() {
		return Record{}, fmt.Errorf("save record: unknown game mode %q", r.GameMode)
	}
	seen := make(map[string]bool, len(r.Missions))
	for i, m := range r.Missions {
		if m.ID == "" {
			return Record{}, fmt.Errorf("save record: mission %d has no id", i)
		}
		if seen[m.ID] {
			return Record{}, fmt.Errorf("save record: duplicate mission id %q", m.ID)
		}
		seen[m.ID] = true
		if !m.Status.Valid() {
			return Record{}, fmt.Errorf("save record: mission %q has unknown status %q", m.ID, m.Status)
		}
		if !m.GameMode.Valid() {
			return Record{}, fmt.Errorf("save record: mission %q has unknown game mode %q", m.ID, m.GameMode)
		}
	}
	for i, h := range r.Heroes {
		if h.ID == "" {
			return Record{}, fmt.Errorf("save record: hero %d has no id", i)
		}
	}
	return r, nil
}

func (r Record) WriteFile(path string) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ReadFile(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	return Decode(data)
}

// Filename returns the conventional export name for a given day.
func Filename(now time.Time) string {
	return fmt.Sprintf("contagio_save_%s.json", now.UTC().Format("2006-01-02"))
}
