package flavor_test

import (
	"context"
	"testing"

	"contagio/internal/config"
	"contagio/internal/flavor"
)

func TestFallbackIsDeterministic(t *testing.T) {
	zone := config.ZoneConfig{ID: 3, Name: "El Imperio de la Carne", Boss: "Kingpin"}
	d := flavor.Fallback{}.Generate(context.Background(), zone, 4)
	if d.Title != "Operación Kingpin #5" {
		t.Fatalf("title = %q", d.Title)
	}
	if d.Description == "" {
		t.Fatal("empty description")
	}
	if len(d.Objectives) != 3 {
		t.Fatalf("objectives = %d, want 3", len(d.Objectives))
	}
	again := flavor.Fallback{}.Generate(context.Background(), zone, 4)
	if again.Title != d.Title {
		t.Fatalf("not deterministic: %q vs %q", again.Title, d.Title)
	}
}

func TestFallbackHandlesUnknownZone(t *testing.T) {
	d := flavor.Fallback{}.Generate(context.Background(), config.ZoneConfig{}, 0)
	if d.Title != "Operación Zona Desconocida #1" {
		t.Fatalf("title = %q", d.Title)
	}
}

func TestGeminiWithoutKeyFallsBack(t *testing.T) {
	zone := config.ZoneConfig{ID: 1, Name: "El Nuevo Edén", Boss: "Magneto"}
	g := flavor.Gemini{}
	d := g.Generate(context.Background(), zone, 0)
	if d.Title != "Operación Magneto #1" {
		t.Fatalf("title = %q, want fallback briefing", d.Title)
	}
}

func TestNewPicksGeneratorByKey(t *testing.T) {
	if _, ok := flavor.New("", "", nil).(flavor.Fallback); !ok {
		t.Fatal("empty key should give the fallback generator")
	}
	if _, ok := flavor.New("key", "", nil).(flavor.Gemini); !ok {
		t.Fatal("key should give the Gemini generator")
	}
}
