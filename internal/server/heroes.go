package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"contagio/internal/app"
	"contagio/internal/domain"
	"contagio/internal/store"
)

type HeroPath struct {
	HeroID string `path:"hero_id"`
}

type heroBody struct {
	Body domain.Hero `json:"body"`
}

func registerHeroes(api huma.API, session *app.Session) {
	huma.Register(api, huma.Operation{
		OperationID: "list-heroes",
		Method:      http.MethodGet,
		Path:        "/heroes",
		Summary:     "List heroes",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Hero `json:"body"`
	}, error) {
		var out []domain.Hero
		session.Do(func() { out = session.Store.Heroes() })
		if out == nil {
			out = []domain.Hero{}
		}
		return &struct {
			Body []domain.Hero `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-hero",
		Method:      http.MethodGet,
		Path:        "/heroes/{hero_id}",
		Summary:     "Get hero",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *HeroPath) (*heroBody, error) {
		var h domain.Hero
		var ok bool
		session.Do(func() { h, ok = session.Store.Hero(input.HeroID) })
		if !ok {
			return nil, newAPIError(http.StatusNotFound, "not_found", "hero not found", nil)
		}
		return &heroBody{Body: h}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-hero",
		Method:        http.MethodPost,
		Path:          "/heroes",
		Summary:       "Create hero",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateHeroRequest `json:"body"`
	}) (*heroBody, error) {
		if input.Body.Name == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "name is required", nil)
		}
		h := domain.Hero{
			Name:               input.Body.Name,
			PhotoURL:           input.Body.PhotoURL,
			Bio:                input.Body.Bio,
			PersonalObjectives: convertObjectives(input.Body.Objectives),
		}
		if input.Body.ID != nil {
			h.ID = *input.Body.ID
		}
		var opErr error
		session.Do(func() {
			h, opErr = session.Engine.AddHero(ctx, h, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &heroBody{Body: h}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-hero",
		Method:      http.MethodPatch,
		Path:        "/heroes/{hero_id}",
		Summary:     "Update hero fields",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HeroPath
		Body UpdateHeroRequest `json:"body"`
	}) (*heroBody, error) {
		var h domain.Hero
		var opErr error
		session.Do(func() {
			cur, ok := session.Store.Hero(input.HeroID)
			if !ok {
				opErr = store.ErrNotFound
				return
			}
			if input.Body.Name != nil {
				cur.Name = *input.Body.Name
			}
			if input.Body.PhotoURL != nil {
				cur.PhotoURL = *input.Body.PhotoURL
			}
			if input.Body.Bio != nil {
				cur.Bio = *input.Body.Bio
			}
			h, opErr = session.Engine.UpdateHero(ctx, cur, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &heroBody{Body: h}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-hero",
		Method:        http.MethodDelete,
		Path:          "/heroes/{hero_id}",
		Summary:       "Delete hero",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *HeroPath) (*struct{}, error) {
		var opErr error
		session.Do(func() {
			opErr = session.Engine.DeleteHero(ctx, input.HeroID, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-hero",
		Method:      http.MethodPut,
		Path:        "/heroes/{hero_id}/assignment",
		Summary:     "Assign hero to a mission",
		Description: "A null missionId clears the assignment.",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HeroPath
		Body AssignHeroRequest `json:"body"`
	}) (*heroBody, error) {
		var h domain.Hero
		var opErr error
		session.Do(func() {
			h, opErr = session.Engine.AssignHero(ctx, input.HeroID, input.Body.MissionID, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &heroBody{Body: h}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-hero-objective",
		Method:        http.MethodPost,
		Path:          "/heroes/{hero_id}/objectives",
		Summary:       "Add personal objective",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HeroPath
		Body AddObjectiveRequest `json:"body"`
	}) (*heroBody, error) {
		if input.Body.Text == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "text is required", nil)
		}
		var h domain.Hero
		var opErr error
		session.Do(func() {
			h, opErr = session.Engine.AddHeroObjective(ctx, input.HeroID, input.Body.Text, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &heroBody{Body: h}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-hero-objective",
		Method:      http.MethodPost,
		Path:        "/heroes/{hero_id}/objectives/{objective_id}/toggle",
		Summary:     "Toggle personal objective",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HeroPath
		ObjectiveID string `path:"objective_id"`
	}) (*heroBody, error) {
		var h domain.Hero
		var opErr error
		session.Do(func() {
			h, opErr = session.Engine.ToggleHeroObjective(ctx, input.HeroID, input.ObjectiveID, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &heroBody{Body: h}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "remove-hero-objective",
		Method:        http.MethodDelete,
		Path:          "/heroes/{hero_id}/objectives/{objective_id}",
		Summary:       "Remove personal objective",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		HeroPath
		ObjectiveID string `path:"objective_id"`
	}) (*struct{}, error) {
		var opErr error
		session.Do(func() {
			_, opErr = session.Engine.RemoveHeroObjective(ctx, input.HeroID, input.ObjectiveID, actorID(ctx))
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return nil, nil
	})
}
