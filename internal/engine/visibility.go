package engine

import "contagio/internal/domain"

// Visible derives the fog-of-war map surface: missions of the active mode
// that are not LOCKED. Locked missions exist in the store but are never
// handed to the map renderer, so undiscovered content stays invisible rather
// than shown-but-disabled.
func Visible(missions []domain.Mission, mode domain.GameMode) []domain.Mission {
	out := []domain.Mission{}
	for _, m := range missions {
		if m.GameMode == mode && m.Status != domain.StatusLocked {
			out = append(out, m)
		}
	}
	return out
}

// Assignable is the narrower bunker-view filter: only AVAILABLE missions are
// offered as hero assignment targets. The bunker sees both modes, so no mode
// filter applies here.
func Assignable(missions []domain.Mission) []domain.Mission {
	out := []domain.Mission{}
	for _, m := range missions {
		if m.Status == domain.StatusAvailable {
			out = append(out, m)
		}
	}
	return out
}
