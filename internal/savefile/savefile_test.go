package savefile_test

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"contagio/internal/domain"
	"contagio/internal/savefile"
)

func sampleRecord(now time.Time) savefile.Record {
	return savefile.New(
		domain.ModeZombies,
		[]domain.Mission{{
			ID:           "m1",
			Title:        "ZONA CERO",
			Status:       domain.StatusCompleted,
			Dependencies: []string{},
			Objectives:   []domain.Objective{{ID: "o1", Text: "Sobrevivir", Completed: true}},
			GameMode:     domain.ModeZombies,
		}},
		[]domain.Hero{{ID: "h1", Name: "Wolverine", PersonalObjectives: []domain.Objective{}}},
		map[string]domain.Coordinates{"Illinois": {X: 670, Y: 220}},
		now,
	)
}

func TestRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	rec := sampleRecord(now)
	path := filepath.Join(t.TempDir(), "save.json")
	if err := rec.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := savefile.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(rec, got) {
		t.Fatalf("round trip mismatch:\nwrote %+v\nread  %+v", rec, got)
	}
	if got.Version != savefile.Version {
		t.Fatalf("version = %s", got.Version)
	}
}

func TestDecodeDefaultsEmptyMode(t *testing.T) {
	rec, err := savefile.Decode([]byte(`{"version":"1.0","missions":[],"heroes":[]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.GameMode != domain.ModeHeroes {
		t.Fatalf("mode = %s, want HEROES", rec.GameMode)
	}
}

func TestDecodeRejectsBadRecords(t *testing.T) {
	cases := map[string]string{
		"bad mode":       `{"gameMode":"ALIENS"}`,
		"bad status":     `{"missions":[{"id":"m","status":"DONE","gameMode":"HEROES"}]}`,
		"missing id":     `{"missions":[{"status":"LOCKED","gameMode":"HEROES"}]}`,
		"duplicate id":   `{"missions":[{"id":"m","status":"LOCKED","gameMode":"HEROES"},{"id":"m","status":"LOCKED","gameMode":"HEROES"}]}`,
		"hero no id":     `{"heroes":[{"name":"x"}]}`,
		"not json":       `{`,
	}
	for name, payload := range cases {
		if _, err := savefile.Decode([]byte(payload)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	if got := savefile.Filename(now); got != "contagio_save_2026-08-31.json" {
		t.Fatalf("filename = %s", got)
	}
}
