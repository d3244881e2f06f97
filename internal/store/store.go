// Package store owns the canonical mission and hero collections. It is a pure
// data holder: id uniqueness is the only rule enforced here, all domain
// validation lives in the engine. Access is single-threaded by design — every
// mutation runs on the main event path between user interactions.
package store

import (
	"errors"

	"contagio/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Store keeps missions and heroes in insertion order (stable UI ordering),
// plus the per-state label coordinates reported by the map layout.
type Store struct {
	missions       []domain.Mission
	heroes         []domain.Hero
	stateLocations map[string]domain.Coordinates
	onChange       func()
}

func New() *Store {
	return &Store{stateLocations: map[string]domain.Coordinates{}}
}

// OnChange registers a hook fired after every write. The session uses it to
// autosave; nothing in the core depends on it.
func (s *Store) OnChange(fn func()) {
	s.onChange = fn
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Missions returns a deep copy of the mission collection. Callers may mutate
// the result freely; the store only changes through its own write methods.
func (s *Store) Missions() []domain.Mission {
	return CloneMissions(s.missions)
}

func (s *Store) Heroes() []domain.Hero {
	return CloneHeroes(s.heroes)
}

func (s *Store) Mission(id string) (domain.Mission, bool) {
	for _, m := range s.missions {
		if m.ID == id {
			return cloneMission(m), true
		}
	}
	return domain.Mission{}, false
}

func (s *Store) Hero(id string) (domain.Hero, bool) {
	for _, h := range s.heroes {
		if h.ID == id {
			return cloneHero(h), true
		}
	}
	return domain.Hero{}, false
}

func (s *Store) ReplaceMissions(missions []domain.Mission) {
	s.missions = CloneMissions(missions)
	s.notify()
}

func (s *Store) ReplaceHeroes(heroes []domain.Hero) {
	s.heroes = CloneHeroes(heroes)
	s.notify()
}

// UpsertMission inserts or replaces by id, keeping the original slot on
// replace so display order is stable.
func (s *Store) UpsertMission(m domain.Mission) {
	for i := range s.missions {
		if s.missions[i].ID == m.ID {
			s.missions[i] = cloneMission(m)
			s.notify()
			return
		}
	}
	s.missions = append(s.missions, cloneMission(m))
	s.notify()
}

// RemoveMission deletes by id and reports whether anything was removed.
// Dependency cleanup is the engine's job, not the store's.
func (s *Store) RemoveMission(id string) bool {
	for i := range s.missions {
		if s.missions[i].ID == id {
			s.missions = append(s.missions[:i], s.missions[i+1:]...)
			s.notify()
			return true
		}
	}
	return false
}

func (s *Store) UpsertHero(h domain.Hero) {
	for i := range s.heroes {
		if s.heroes[i].ID == h.ID {
			s.heroes[i] = cloneHero(h)
			s.notify()
			return
		}
	}
	s.heroes = append(s.heroes, cloneHero(h))
	s.notify()
}

func (s *Store) RemoveHero(id string) bool {
	for i := range s.heroes {
		if s.heroes[i].ID == id {
			s.heroes = append(s.heroes[:i], s.heroes[i+1:]...)
			s.notify()
			return true
		}
	}
	return false
}

func (s *Store) StateLocations() map[string]domain.Coordinates {
	out := make(map[string]domain.Coordinates, len(s.stateLocations))
	for k, v := range s.stateLocations {
		out[k] = v
	}
	return out
}

func (s *Store) SetStateLocation(state string, c domain.Coordinates) {
	s.stateLocations[state] = c
	s.notify()
}

func (s *Store) ReplaceStateLocations(locations map[string]domain.Coordinates) {
	s.stateLocations = make(map[string]domain.Coordinates, len(locations))
	for k, v := range locations {
		s.stateLocations[k] = v
	}
	s.notify()
}

// CloneMissions deep-copies a mission slice, including objective and
// dependency slices, so snapshots never alias store state.
func CloneMissions(in []domain.Mission) []domain.Mission {
	if in == nil {
		return nil
	}
	out := make([]domain.Mission, len(in))
	for i, m := range in {
		out[i] = cloneMission(m)
	}
	return out
}

func CloneHeroes(in []domain.Hero) []domain.Hero {
	if in == nil {
		return nil
	}
	out := make([]domain.Hero, len(in))
	for i, h := range in {
		out[i] = cloneHero(h)
	}
	return out
}

func cloneMission(m domain.Mission) domain.Mission {
	if m.Objectives != nil {
		m.Objectives = append([]domain.Objective(nil), m.Objectives...)
	}
	if m.Dependencies != nil {
		m.Dependencies = append([]string(nil), m.Dependencies...)
	}
	return m
}

func cloneHero(h domain.Hero) domain.Hero {
	if h.PersonalObjectives != nil {
		h.PersonalObjectives = append([]domain.Objective(nil), h.PersonalObjectives...)
	}
	if h.AssignedMissionID != nil {
		id := *h.AssignedMissionID
		h.AssignedMissionID = &id
	}
	return h
}
