package app_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"contagio/internal/app"
	"contagio/internal/db"
	"contagio/internal/domain"
	"contagio/internal/migrate"
	"contagio/internal/repo"
	"contagio/internal/savefile"
)

func newTestRepo(t *testing.T) *repo.Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &repo.Repo{DB: conn}
}

func TestBootstrapSeedsWhenNothingSaved(t *testing.T) {
	s, err := app.Bootstrap(context.Background(), app.Options{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	s.Do(func() {
		if s.Mode() != domain.ModeHeroes {
			t.Errorf("mode = %s", s.Mode())
		}
		if got := len(s.Store.Missions()); got != 7 {
			t.Errorf("missions = %d, want seed campaign", got)
		}
		if got := len(s.Store.Heroes()); got != 6 {
			t.Errorf("heroes = %d, want seed campaign", got)
		}
	})
}

func TestBootstrapPrefersSaveFile(t *testing.T) {
	rec := savefile.New(domain.ModeZombies,
		[]domain.Mission{{ID: "only", Title: "t", Status: domain.StatusAvailable, GameMode: domain.ModeZombies}},
		nil, nil, time.Now())
	path := filepath.Join(t.TempDir(), "save.json")
	if err := rec.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := app.Bootstrap(context.Background(), app.Options{SaveFile: path})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	s.Do(func() {
		if s.Mode() != domain.ModeZombies {
			t.Errorf("mode = %s", s.Mode())
		}
		if got := len(s.Store.Missions()); got != 1 {
			t.Errorf("missions = %d, want 1", got)
		}
	})
}

func TestAutosaveSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	s, err := app.Bootstrap(ctx, app.Options{Repo: r, OwnerID: "alice"})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	var addErr error
	s.Do(func() {
		_, addErr = s.Engine.AddMission(ctx, domain.Mission{Title: "new work"}, "alice")
	})
	if addErr != nil {
		t.Fatalf("add: %v", addErr)
	}

	// A second session against the same store picks up the autosave
	// instead of re-seeding.
	again, err := app.Bootstrap(ctx, app.Options{Repo: r, OwnerID: "alice"})
	if err != nil {
		t.Fatalf("rebootstrap: %v", err)
	}
	again.Do(func() {
		if got := len(again.Store.Missions()); got != 8 {
			t.Errorf("missions after restart = %d, want 8", got)
		}
	})
}

func TestModeSwitchClearsSelection(t *testing.T) {
	s, err := app.Bootstrap(context.Background(), app.Options{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	s.Do(func() {
		if err := s.Select("kraven-hunt"); err != nil {
			t.Fatalf("select: %v", err)
		}
		if _, ok := s.Selected(); !ok {
			t.Fatal("nothing selected")
		}
		if err := s.SetMode(domain.ModeZombies); err != nil {
			t.Fatalf("set mode: %v", err)
		}
		if _, ok := s.Selected(); ok {
			t.Fatal("selection survived a mode switch")
		}
	})
}

func TestSelectRejectsLockedAndWrongMode(t *testing.T) {
	s, err := app.Bootstrap(context.Background(), app.Options{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	s.Do(func() {
		// lord-kingpin is seeded LOCKED.
		if err := s.Select("lord-kingpin"); err == nil {
			t.Error("selected a locked mission")
		}
		// patient-zero is on the zombies board while the session starts in HEROES.
		if err := s.Select("patient-zero"); err == nil {
			t.Error("selected a mission from the other mode")
		}
	})
}

func TestSelectionClearsWhenMissionRelocks(t *testing.T) {
	ctx := context.Background()
	s, err := app.Bootstrap(ctx, app.Options{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	s.Do(func() {
		if err := s.Select("kraven-hunt"); err != nil {
			t.Fatalf("select: %v", err)
		}
		if _, err := s.Engine.SetStatus(ctx, "kraven-hunt", domain.StatusCompleted, "tester"); err != nil {
			t.Fatalf("complete: %v", err)
		}
		if _, ok := s.Selected(); !ok {
			t.Fatal("completed mission should stay selected")
		}
		if err := s.Engine.DeleteMission(ctx, "kraven-hunt", "tester"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, ok := s.Selected(); ok {
			t.Fatal("selection survived mission deletion")
		}
	})
}

func TestSnapshotAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := app.Bootstrap(ctx, app.Options{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	var rec savefile.Record
	s.Do(func() {
		if err := s.SetMode(domain.ModeZombies); err != nil {
			t.Fatalf("set mode: %v", err)
		}
		rec = s.Snapshot()
	})
	if rec.GameMode != domain.ModeZombies {
		t.Fatalf("snapshot mode = %s", rec.GameMode)
	}

	other, err := app.Bootstrap(ctx, app.Options{})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	other.Do(func() {
		other.Load(rec)
		if other.Mode() != domain.ModeZombies {
			t.Errorf("mode after load = %s", other.Mode())
		}
		if got := len(other.Store.Missions()); got != len(rec.Missions) {
			t.Errorf("missions after load = %d, want %d", got, len(rec.Missions))
		}
	})
}
