package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"contagio/internal/app"
	"contagio/internal/metrics"
	"contagio/internal/repo"
	"contagio/internal/savefile"
)

type slotPath struct {
	Slot string `path:"slot" pattern:"^[a-zA-Z0-9_-]+$" maxLength:"64"`
}

func registerSaves(api huma.API, session *app.Session, r *repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "export-save",
		Method:      http.MethodGet,
		Path:        "/save/export",
		Summary:     "Export the session as a save record",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body savefile.Record `json:"body"`
	}, error) {
		var rec savefile.Record
		session.Do(func() { rec = session.Snapshot() })
		metrics.SaveOperations.WithLabelValues("export", "ok").Inc()
		return &struct {
			Body savefile.Record `json:"body"`
		}{Body: rec}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "import-save",
		Method:      http.MethodPost,
		Path:        "/save/import",
		Summary:     "Replace the session from a save record",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body savefile.Record `json:"body"`
	}) (*struct {
		Body SessionResponse `json:"body"`
	}, error) {
		// Round-trip through Decode so imports hit the same validation a
		// file load does.
		raw, err := input.Body.Encode()
		if err != nil {
			return nil, handleError(err)
		}
		rec, err := savefile.Decode(raw)
		if err != nil {
			metrics.SaveOperations.WithLabelValues("import", "error").Inc()
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		var resp SessionResponse
		session.Do(func() {
			session.Load(rec)
			resp.GameMode = session.Mode()
			resp.MissionCount = len(session.Store.Missions())
			resp.HeroCount = len(session.Store.Heroes())
		})
		metrics.SaveOperations.WithLabelValues("import", "ok").Inc()
		return &struct {
			Body SessionResponse `json:"body"`
		}{Body: resp}, nil
	})

	// Slot endpoints are per-player and need an authenticated principal.

	huma.Register(api, huma.Operation{
		OperationID: "list-save-slots",
		Method:      http.MethodGet,
		Path:        "/save/slots",
		Summary:     "List save slots",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []SlotResponse `json:"body"`
	}, error) {
		playerID, authErr := playerIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if r == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "save store not configured", nil)
		}
		items, err := r.ListSlots(ctx, playerID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []SlotResponse `json:"body"`
		}{Body: mapSlots(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "store-save-slot",
		Method:      http.MethodPut,
		Path:        "/save/slots/{slot}",
		Summary:     "Store the session in a slot",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, input *slotPath) (*struct {
		Body savefile.Record `json:"body"`
	}, error) {
		playerID, authErr := playerIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if r == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "save store not configured", nil)
		}
		var rec savefile.Record
		session.Do(func() { rec = session.Snapshot() })
		if err := r.PutSlot(ctx, playerID, input.Slot, rec); err != nil {
			metrics.SaveOperations.WithLabelValues("slot_store", "error").Inc()
			return nil, handleError(err)
		}
		metrics.SaveOperations.WithLabelValues("slot_store", "ok").Inc()
		return &struct {
			Body savefile.Record `json:"body"`
		}{Body: rec}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-save-slot",
		Method:      http.MethodGet,
		Path:        "/save/slots/{slot}",
		Summary:     "Read a save slot",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *slotPath) (*struct {
		Body savefile.Record `json:"body"`
	}, error) {
		playerID, authErr := playerIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if r == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "save store not configured", nil)
		}
		rec, err := r.GetSlot(ctx, playerID, input.Slot)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body savefile.Record `json:"body"`
		}{Body: rec}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "load-save-slot",
		Method:      http.MethodPost,
		Path:        "/save/slots/{slot}/load",
		Summary:     "Load a slot into the session",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *slotPath) (*struct {
		Body SessionResponse `json:"body"`
	}, error) {
		playerID, authErr := playerIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if r == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "save store not configured", nil)
		}
		rec, err := r.GetSlot(ctx, playerID, input.Slot)
		if err != nil {
			metrics.SaveOperations.WithLabelValues("slot_load", "error").Inc()
			return nil, handleError(err)
		}
		var resp SessionResponse
		session.Do(func() {
			session.Load(rec)
			resp.GameMode = session.Mode()
			resp.MissionCount = len(session.Store.Missions())
			resp.HeroCount = len(session.Store.Heroes())
		})
		metrics.SaveOperations.WithLabelValues("slot_load", "ok").Inc()
		return &struct {
			Body SessionResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-save-slot",
		Method:        http.MethodDelete,
		Path:          "/save/slots/{slot}",
		Summary:       "Delete a save slot",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *slotPath) (*struct{}, error) {
		playerID, authErr := playerIDFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if r == nil {
			return nil, newAPIError(http.StatusNotFound, "not_found", "save store not configured", nil)
		}
		if err := r.DeleteSlot(ctx, playerID, input.Slot); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}
