package domain

// GameMode selects one of the two parallel campaign universes. Missions in
// different modes never interact with each other's dependency graph.
type GameMode string

const (
	ModeHeroes  GameMode = "HEROES"
	ModeZombies GameMode = "ZOMBIES"
)

func (m GameMode) Valid() bool {
	return m == ModeHeroes || m == ModeZombies
}

// MissionStatus is the three-state mission machine: LOCKED until every
// dependency is COMPLETED, then AVAILABLE, then COMPLETED. Only an explicit
// request moves a mission out of COMPLETED; the cascade never does.
type MissionStatus string

const (
	StatusLocked    MissionStatus = "LOCKED"
	StatusAvailable MissionStatus = "AVAILABLE"
	StatusCompleted MissionStatus = "COMPLETED"
)

func (s MissionStatus) Valid() bool {
	return s == StatusLocked || s == StatusAvailable || s == StatusCompleted
}

// Coordinates is a renderer position. Last write wins; no domain invariant.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Objective struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Mission is a quest node pinned to the map. Dependencies are mission ids
// within the same game mode; a dependency that never resolves (dangling id,
// cross-mode reference, cycle) simply keeps the mission LOCKED forever.
type Mission struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Objectives    []Objective   `json:"objectives"`
	ZoneID        int           `json:"zoneId"`
	Position      Coordinates   `json:"position"`
	Status        MissionStatus `json:"status"`
	Dependencies  []string      `json:"dependencies"`
	LocationState string        `json:"locationState,omitempty"`
	GameMode      GameMode      `json:"gameMode"`
}

// DependsOn reports whether id is in the mission's dependency set.
func (m Mission) DependsOn(id string) bool {
	for _, d := range m.Dependencies {
		if d == id {
			return true
		}
	}
	return false
}

// Hero is a recruitable character. AssignedMissionID is a weak reference: it
// may point at a mission that is no longer AVAILABLE, or at nothing at all,
// and is displayed as-is.
type Hero struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	PhotoURL           string      `json:"photoUrl"`
	Bio                string      `json:"bio"`
	PersonalObjectives []Objective `json:"personalObjectives"`
	AssignedMissionID  *string     `json:"assignedMissionId,omitempty"`
}

// BossZone is a boss-controlled territory. Informational grouping only.
type BossZone struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	BossName    string `json:"bossName"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// ZoneLabel is a background map label anchored at map coordinates.
type ZoneLabel struct {
	ZoneID      int        `json:"zoneId"`
	Text        string     `json:"text"`
	Coordinates [2]float64 `json:"coordinates"`
}
