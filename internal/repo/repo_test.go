package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"contagio/internal/db"
	"contagio/internal/domain"
	"contagio/internal/events"
	"contagio/internal/migrate"
	"contagio/internal/repo"
	"contagio/internal/savefile"
)

func newTestRepo(t *testing.T) repo.Repo {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return repo.Repo{DB: conn}
}

func testRecord() savefile.Record {
	return savefile.New(
		domain.ModeHeroes,
		[]domain.Mission{{ID: "m1", Title: "t", Status: domain.StatusAvailable, GameMode: domain.ModeHeroes}},
		[]domain.Hero{{ID: "h1", Name: "Spider-Man"}},
		nil,
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	)
}

func TestSlotRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	rec := testRecord()
	if err := r.PutSlot(ctx, "alice", "campaign-1", rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := r.GetSlot(ctx, "alice", "campaign-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.GameMode != rec.GameMode || len(got.Missions) != 1 || got.Missions[0].ID != "m1" {
		t.Fatalf("slot mismatch: %+v", got)
	}
}

func TestPutSlotOverwrites(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	rec := testRecord()
	if err := r.PutSlot(ctx, "alice", "s", rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	rec.GameMode = domain.ModeZombies
	if err := r.PutSlot(ctx, "alice", "s", rec); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := r.GetSlot(ctx, "alice", "s")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.GameMode != domain.ModeZombies {
		t.Fatalf("mode = %s after overwrite", got.GameMode)
	}
	slots, err := r.ListSlots(ctx, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("slots = %d, want 1", len(slots))
	}
}

func TestSlotsAreScopedByOwner(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	if err := r.PutSlot(ctx, "alice", "s", testRecord()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := r.GetSlot(ctx, "bob", "s"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
	slots, err := r.ListSlots(ctx, "bob")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("bob sees %d slots", len(slots))
	}
}

func TestDeleteSlot(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	if err := r.PutSlot(ctx, "alice", "s", testRecord()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := r.DeleteSlot(ctx, "alice", "s"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.DeleteSlot(ctx, "alice", "s"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListEventsNewestFirst(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	w := &events.Writer{DB: r.DB}
	for _, typ := range []string{"mission.created", "mission.status", "mission.deleted"} {
		if err := w.Append(ctx, typ, "mission", "m1", "tester", events.EventPayload{"k": "v"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := r.ListEvents(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if got[0].Type != "mission.deleted" || got[1].Type != "mission.status" {
		t.Fatalf("order wrong: %s, %s", got[0].Type, got[1].Type)
	}
	if got[0].ActorID != "tester" || got[0].EntityID != "m1" {
		t.Fatalf("row = %+v", got[0])
	}
}
