package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"contagio/internal/app"
	"contagio/internal/config"
	"contagio/internal/domain"
	"contagio/internal/flavor"
	"contagio/internal/store"
)

type MissionPath struct {
	MissionID string `path:"mission_id"`
}

type missionBody struct {
	Body domain.Mission `json:"body"`
}

func registerMissions(api huma.API, session *app.Session, campaign *config.Campaign, gen flavor.Generator) {
	huma.Register(api, huma.Operation{
		OperationID: "list-missions",
		Method:      http.MethodGet,
		Path:        "/missions",
		Summary:     "List all missions",
		Description: "The unfiltered collection, both modes, locked included. The board views are /missions/visible and /missions/assignable.",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Mission `json:"body"`
	}, error) {
		var out []domain.Mission
		session.Do(func() { out = session.Store.Missions() })
		if out == nil {
			out = []domain.Mission{}
		}
		return &struct {
			Body []domain.Mission `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-visible-missions",
		Method:      http.MethodGet,
		Path:        "/missions/visible",
		Summary:     "Visible board for the active mode",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Mission `json:"body"`
	}, error) {
		var out []domain.Mission
		session.Do(func() { out = session.Visible() })
		return &struct {
			Body []domain.Mission `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-assignable-missions",
		Method:      http.MethodGet,
		Path:        "/missions/assignable",
		Summary:     "Missions heroes can be assigned to",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Mission `json:"body"`
	}, error) {
		var out []domain.Mission
		session.Do(func() { out = session.Assignable() })
		return &struct {
			Body []domain.Mission `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-mission",
		Method:      http.MethodGet,
		Path:        "/missions/{mission_id}",
		Summary:     "Get mission",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *MissionPath) (*missionBody, error) {
		var m domain.Mission
		var ok bool
		session.Do(func() { m, ok = session.Store.Mission(input.MissionID) })
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "not_found", "mission not found", nil)
		}
		return &missionBody{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-mission",
		Method:        http.MethodPost,
		Path:          "/missions",
		Summary:       "Create mission",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateMissionRequest `json:"body"`
	}) (*missionBody, error) {
		if input.Body.Title == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "title is required", nil)
		}
		m := missionFromRequest(input.Body)
		var opErr error
		session.Do(func() {
			m, opErr = session.Engine.AddMission(ctx, m, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &missionBody{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "generate-mission",
		Method:        http.MethodPost,
		Path:          "/missions/generate",
		Summary:       "Create mission with generated briefing",
		Description:   "Title, description and starter objectives come from the briefing generator, themed to the target zone.",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body GenerateMissionRequest `json:"body"`
	}) (*missionBody, error) {
		zone, ok := campaign.Zone(input.Body.Zone)
		if !ok {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "unknown zone", nil)
		}
		var existing int
		session.Do(func() {
			for _, m := range session.Store.Missions() {
				if m.ZoneID == zone.ID {
					existing++
				}
			}
		})
		// Model call happens outside the session lock.
		details := gen.Generate(ctx, zone, existing)
		m := domain.Mission{
			Title:         details.Title,
			Description:   details.Description,
			ZoneID:        zone.ID,
			Dependencies:  input.Body.Dependencies,
			LocationState: input.Body.LocationState,
		}
		for _, text := range details.Objectives {
			m.Objectives = append(m.Objectives, domain.Objective{Text: text})
		}
		if input.Body.Position != nil {
			m.Position = *input.Body.Position
		}
		if input.Body.GameMode != nil {
			m.GameMode = *input.Body.GameMode
		}
		var opErr error
		session.Do(func() {
			m, opErr = session.Engine.AddMission(ctx, m, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &missionBody{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-mission",
		Method:      http.MethodPatch,
		Path:        "/missions/{mission_id}",
		Summary:     "Update mission fields",
		Description: "Edits descriptive fields only. Status changes go through the status endpoint so the cascade always runs.",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		MissionPath
		Body UpdateMissionRequest `json:"body"`
	}) (*missionBody, error) {
		var m domain.Mission
		var opErr error
		session.Do(func() {
			cur, ok := session.Store.Mission(input.MissionID)
			if !ok {
				opErr = store.ErrNotFound
				return
			}
			applyMissionUpdate(&cur, input.Body)
			m, opErr = session.Engine.UpdateMission(ctx, cur, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &missionBody{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-mission",
		Method:        http.MethodDelete,
		Path:          "/missions/{mission_id}",
		Summary:       "Delete mission",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *MissionPath) (*struct{}, error) {
		var opErr error
		session.Do(func() {
			opErr = session.Engine.DeleteMission(ctx, input.MissionID, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-mission-status",
		Method:      http.MethodPut,
		Path:        "/missions/{mission_id}/status",
		Summary:     "Set mission status",
		Description: "Writes the status, then re-resolves the whole graph: completions unlock waiting children transitively, regressions re-lock downstream work.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		MissionPath
		Body SetStatusRequest `json:"body"`
	}) (*missionBody, error) {
		var m domain.Mission
		var opErr error
		session.Do(func() {
			m, opErr = session.Engine.SetStatus(ctx, input.MissionID, input.Body.Status, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &missionBody{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-mission-dependency",
		Method:      http.MethodPost,
		Path:        "/missions/{mission_id}/dependencies",
		Summary:     "Add a dependency",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		MissionPath
		Body AddDependencyRequest `json:"body"`
	}) (*missionBody, error) {
		if input.Body.ParentID == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "parentId is required", nil)
		}
		var m domain.Mission
		var opErr error
		session.Do(func() {
			m, opErr = session.Engine.AddDependency(ctx, input.MissionID, input.Body.ParentID, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &missionBody{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-mission",
		Method:      http.MethodPut,
		Path:        "/missions/{mission_id}/position",
		Summary:     "Move mission marker",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		MissionPath
		Body domain.Coordinates `json:"body"`
	}) (*missionBody, error) {
		var m domain.Mission
		var opErr error
		session.Do(func() {
			m, opErr = session.Engine.MoveMission(ctx, input.MissionID, input.Body, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &missionBody{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-mission-objective",
		Method:      http.MethodPost,
		Path:        "/missions/{mission_id}/objectives/{objective_id}/toggle",
		Summary:     "Toggle an objective",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		MissionPath
		ObjectiveID string `path:"objective_id"`
	}) (*missionBody, error) {
		var m domain.Mission
		var opErr error
		session.Do(func() {
			m, opErr = session.Engine.ToggleObjective(ctx, input.MissionID, input.ObjectiveID, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &missionBody{Body: m}, nil
	})
}

func missionFromRequest(req CreateMissionRequest) domain.Mission {
	m := domain.Mission{
		Title:         req.Title,
		Description:   req.Description,
		Objectives:    convertObjectives(req.Objectives),
		ZoneID:        req.Zone,
		Dependencies:  req.Dependencies,
		LocationState: req.LocationState,
	}
	if req.ID != nil {
		m.ID = *req.ID
	}
	if req.Position != nil {
		m.Position = *req.Position
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.GameMode != nil {
		m.GameMode = *req.GameMode
	}
	return m
}

func applyMissionUpdate(m *domain.Mission, req UpdateMissionRequest) {
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Objectives != nil {
		m.Objectives = convertObjectives(req.Objectives)
	}
	if req.Zone != nil {
		m.ZoneID = *req.Zone
	}
	if req.Position != nil {
		m.Position = *req.Position
	}
	if req.LocationState != nil {
		m.LocationState = *req.LocationState
	}
}
