package store_test

import (
	"testing"

	"contagio/internal/domain"
	"contagio/internal/store"
)

func TestSnapshotsDoNotAliasStoreState(t *testing.T) {
	s := store.New()
	s.ReplaceMissions([]domain.Mission{{
		ID:           "m1",
		Dependencies: []string{"p1"},
		Objectives:   []domain.Objective{{ID: "o1", Text: "x"}},
	}})
	snap := s.Missions()
	snap[0].Dependencies[0] = "mutated"
	snap[0].Objectives[0].Completed = true

	m, _ := s.Mission("m1")
	if m.Dependencies[0] != "p1" {
		t.Fatalf("store dependency mutated through snapshot: %v", m.Dependencies)
	}
	if m.Objectives[0].Completed {
		t.Fatal("store objective mutated through snapshot")
	}
}

func TestUpsertKeepsSlotOrder(t *testing.T) {
	s := store.New()
	s.ReplaceMissions([]domain.Mission{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	s.UpsertMission(domain.Mission{ID: "b", Title: "updated"})
	missions := s.Missions()
	if missions[1].ID != "b" || missions[1].Title != "updated" {
		t.Fatalf("replace moved or lost the mission: %v", missions)
	}
	s.UpsertMission(domain.Mission{ID: "d"})
	if got := s.Missions()[3].ID; got != "d" {
		t.Fatalf("insert not appended: %s", got)
	}
}

func TestRemoveMission(t *testing.T) {
	s := store.New()
	s.ReplaceMissions([]domain.Mission{{ID: "a"}, {ID: "b"}})
	if !s.RemoveMission("a") {
		t.Fatal("remove reported false for existing id")
	}
	if s.RemoveMission("a") {
		t.Fatal("remove reported true for missing id")
	}
	if _, ok := s.Mission("a"); ok {
		t.Fatal("mission still present after remove")
	}
}

func TestOnChangeFiresOnWrites(t *testing.T) {
	s := store.New()
	var fired int
	s.OnChange(func() { fired++ })
	s.UpsertMission(domain.Mission{ID: "a"})
	s.UpsertHero(domain.Hero{ID: "h"})
	s.RemoveMission("a")
	s.SetStateLocation("New York", domain.Coordinates{X: 1, Y: 2})
	if fired != 4 {
		t.Fatalf("hook fired %d times, want 4", fired)
	}
}

func TestHeroCloneCopiesAssignmentPointer(t *testing.T) {
	s := store.New()
	target := "m1"
	s.UpsertHero(domain.Hero{ID: "h", AssignedMissionID: &target})
	h, _ := s.Hero("h")
	*h.AssignedMissionID = "other"
	again, _ := s.Hero("h")
	if *again.AssignedMissionID != "m1" {
		t.Fatalf("assignment mutated through snapshot: %s", *again.AssignedMissionID)
	}
}
