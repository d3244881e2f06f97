package server

import (
	"contagio/internal/domain"
	"contagio/internal/repo"
)

// Request payloads

type CreateMissionRequest struct {
	ID            *string                  `json:"id,omitempty"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description,omitempty"`
	Objectives    []ObjectiveRequest       `json:"objectives,omitempty"`
	Zone          int                      `json:"zone"`
	Position      *domain.Coordinates      `json:"position,omitempty"`
	Status        *domain.MissionStatus    `json:"status,omitempty" enum:"LOCKED,AVAILABLE,COMPLETED"`
	Dependencies  []string                 `json:"dependencies,omitempty"`
	LocationState string                   `json:"locationState,omitempty"`
	GameMode      *domain.GameMode         `json:"gameMode,omitempty" enum:"HEROES,ZOMBIES"`
}

type ObjectiveRequest struct {
	ID        *string `json:"id,omitempty"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed,omitempty"`
}

type UpdateMissionRequest struct {
	Title         *string             `json:"title,omitempty"`
	Description   *string             `json:"description,omitempty"`
	Objectives    []ObjectiveRequest  `json:"objectives,omitempty"`
	Zone          *int                `json:"zone,omitempty"`
	Position      *domain.Coordinates `json:"position,omitempty"`
	LocationState *string             `json:"locationState,omitempty"`
}

type SetStatusRequest struct {
	Status domain.MissionStatus `json:"status" enum:"LOCKED,AVAILABLE,COMPLETED"`
}

type AddDependencyRequest struct {
	ParentID string `json:"parentId"`
}

type GenerateMissionRequest struct {
	Zone          int                 `json:"zone"`
	Position      *domain.Coordinates `json:"position,omitempty"`
	LocationState string              `json:"locationState,omitempty"`
	GameMode      *domain.GameMode    `json:"gameMode,omitempty" enum:"HEROES,ZOMBIES"`
	Dependencies  []string            `json:"dependencies,omitempty"`
}

type CreateHeroRequest struct {
	ID         *string            `json:"id,omitempty"`
	Name       string             `json:"name"`
	PhotoURL   string             `json:"photoUrl,omitempty"`
	Bio        string             `json:"bio,omitempty"`
	Objectives []ObjectiveRequest `json:"personalObjectives,omitempty"`
}

type UpdateHeroRequest struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photoUrl,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

type AssignHeroRequest struct {
	MissionID *string `json:"missionId"`
}

type AddObjectiveRequest struct {
	Text string `json:"text"`
}

type SetModeRequest struct {
	GameMode domain.GameMode `json:"gameMode" enum:"HEROES,ZOMBIES"`
}

type SelectMissionRequest struct {
	MissionID string `json:"missionId"`
}

// Response payloads. Mission and Hero marshal with their domain tags, which
// are already the wire shape the save format uses.

type SessionResponse struct {
	GameMode          domain.GameMode `json:"gameMode" enum:"HEROES,ZOMBIES"`
	SelectedMissionID *string         `json:"selectedMissionId,omitempty"`
	MissionCount      int             `json:"missionCount"`
	HeroCount         int             `json:"heroCount"`
}

type SlotResponse struct {
	Slot      string `json:"slot"`
	Version   string `json:"version"`
	GameMode  string `json:"gameMode"`
	CreatedAt string `json:"createdAt" format:"date-time"`
	UpdatedAt string `json:"updatedAt" format:"date-time"`
}

func slotResponse(s repo.Slot) SlotResponse {
	return SlotResponse{
		Slot:      s.Name,
		Version:   s.Version,
		GameMode:  s.GameMode,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func mapSlots(in []repo.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(in))
	for _, s := range in {
		out = append(out, slotResponse(s))
	}
	return out
}

type ZoneResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Boss        string `json:"boss"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entityKind"`
	EntityID   string `json:"entityId,omitempty"`
	ActorID    string `json:"actorId,omitempty"`
	Payload    string `json:"payload,omitempty"`
}

func mapEvents(in []repo.Event) []EventResponse {
	out := make([]EventResponse, 0, len(in))
	for _, e := range in {
		out = append(out, EventResponse{
			ID: e.ID, TS: e.TS, Type: e.Type,
			EntityKind: e.EntityKind, EntityID: e.EntityID,
			ActorID: e.ActorID, Payload: e.Payload,
		})
	}
	return out
}

func convertObjectives(in []ObjectiveRequest) []domain.Objective {
	out := make([]domain.Objective, 0, len(in))
	for _, o := range in {
		obj := domain.Objective{Text: o.Text, Completed: o.Completed}
		if o.ID != nil {
			obj.ID = *o.ID
		}
		out = append(out, obj)
	}
	return out
}
