package engine

import (
	"contagio/internal/domain"
	"contagio/internal/metrics"
	"contagio/internal/store"
)

// modeKey scopes dependency lookups to a single game mode. A dependency on an
// id from the other mode is indistinguishable from a dangling id: the parent
// is never found, so the child never unlocks.
type modeKey struct {
	mode domain.GameMode
	id   string
}

func indexByMode(missions []domain.Mission) map[modeKey]int {
	idx := make(map[modeKey]int, len(missions))
	for i, m := range missions {
		idx[modeKey{m.GameMode, m.ID}] = i
	}
	return idx
}

// Resolve recomputes dependent mission statuses after a single direct status
// write. The input snapshot is not mutated; the returned slice is the new
// state of the whole collection.
//
// applied is the status that was just written. A completion triggers the
// forward cascade: LOCKED missions whose dependencies have all reached
// COMPLETED are promoted to AVAILABLE, repeatedly, until a full scan changes
// nothing — so one call unlocks transitive descendants. Anything else
// triggers the backward cascade: every non-completed mission is re-derived
// against its parents and forced back to LOCKED if any parent is not
// COMPLETED. Neither direction ever demotes a COMPLETED mission.
//
// Cyclic dependency sets are not detected; their members simply never satisfy
// the unlock condition and stay LOCKED. See Unsatisfiable for a diagnostic.
func Resolve(missions []domain.Mission, applied domain.MissionStatus) []domain.Mission {
	out := store.CloneMissions(missions)
	if applied == domain.StatusCompleted {
		cascadeUnlock(out)
	} else {
		cascadeRelock(out)
	}
	return out
}

func cascadeUnlock(missions []domain.Mission) {
	idx := indexByMode(missions)
	for changed := true; changed; {
		changed = false
		metrics.CascadePasses.Inc()
		for i := range missions {
			if missions[i].Status != domain.StatusLocked {
				continue
			}
			if allParentsCompleted(missions, idx, missions[i]) {
				missions[i].Status = domain.StatusAvailable
				metrics.CascadePromotions.Inc()
				changed = true
			}
		}
	}
}

func cascadeRelock(missions []domain.Mission) {
	idx := indexByMode(missions)
	for changed := true; changed; {
		changed = false
		metrics.CascadePasses.Inc()
		for i := range missions {
			if missions[i].Status == domain.StatusCompleted || missions[i].Status == domain.StatusLocked {
				continue
			}
			if hasUnfinishedParent(missions, idx, missions[i]) {
				missions[i].Status = domain.StatusLocked
				metrics.CascadeDemotions.Inc()
				changed = true
			}
		}
	}
}

// allParentsCompleted is the unlock condition: every dependency resolves to a
// COMPLETED mission of the same mode. Vacuously true for an empty set; false
// as soon as one parent is missing.
func allParentsCompleted(missions []domain.Mission, idx map[modeKey]int, m domain.Mission) bool {
	for _, dep := range m.Dependencies {
		i, ok := idx[modeKey{m.GameMode, dep}]
		if !ok || missions[i].Status != domain.StatusCompleted {
			return false
		}
	}
	return true
}

// hasUnfinishedParent is the relock condition. A dangling dependency does not
// count as unfinished here: it blocks unlocking, but it never forces an
// already-available mission back to LOCKED.
func hasUnfinishedParent(missions []domain.Mission, idx map[modeKey]int, m domain.Mission) bool {
	for _, dep := range m.Dependencies {
		if i, ok := idx[modeKey{m.GameMode, dep}]; ok && missions[i].Status != domain.StatusCompleted {
			return true
		}
	}
	return false
}

// Unsatisfiable returns the ids of missions that can never leave LOCKED no
// matter how the campaign plays out: members of dependency cycles and
// children of dangling or cross-mode dependency ids. Pure diagnostic — the
// cascade itself never consults it.
func Unsatisfiable(missions []domain.Mission) []string {
	idx := indexByMode(missions)
	satisfiable := make(map[modeKey]bool, len(missions))
	for changed := true; changed; {
		changed = false
		for _, m := range missions {
			key := modeKey{m.GameMode, m.ID}
			if satisfiable[key] {
				continue
			}
			ok := true
			for _, dep := range m.Dependencies {
				depKey := modeKey{m.GameMode, dep}
				if _, exists := idx[depKey]; !exists || !satisfiable[depKey] {
					ok = false
					break
				}
			}
			if ok {
				satisfiable[key] = true
				changed = true
			}
		}
	}
	var out []string
	for _, m := range missions {
		if !satisfiable[modeKey{m.GameMode, m.ID}] {
			out = append(out, m.ID)
		}
	}
	return out
}
