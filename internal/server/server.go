// Package server exposes the game over HTTP: the board, mutations, session
// state and the save-slot store. Handlers funnel every touch of the session
// through its lock; the API never observes a half-resolved cascade.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contagio/internal/app"
	"contagio/internal/config"
	"contagio/internal/domain"
	"contagio/internal/flavor"
	"contagio/internal/repo"
	"contagio/internal/store"
)

// Config for the HTTP API handler.
type Config struct {
	Session  *app.Session
	Repo     *repo.Repo
	Flavor   flavor.Generator
	Campaign *config.Campaign
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"mission not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Contagio Cero API.
func New(cfg Config) (http.Handler, error) {
	if cfg.Session == nil {
		return nil, errors.New("server: session required")
	}
	if cfg.Campaign == nil {
		cfg.Campaign = cfg.Session.Campaign
	}
	if cfg.Flavor == nil {
		cfg.Flavor = flavor.Fallback{}
	}
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(cfg.Auth))
	router.Handle("/metrics", promhttp.Handler())

	hcfg := huma.DefaultConfig("Contagio Cero API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerSession(group, cfg.Session)
	registerMissions(group, cfg.Session, cfg.Campaign, cfg.Flavor)
	registerHeroes(group, cfg.Session)
	registerSaves(group, cfg.Session, cfg.Repo)
	registerCampaign(group, cfg.Campaign)
	registerEvents(group, cfg.Repo)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "invalid") || strings.Contains(lowered, "unknown") || strings.Contains(lowered, "required"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Contagio Cero API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerSession(api huma.API, session *app.Session) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/session",
		Summary:     "Session state",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body SessionResponse `json:"body"`
	}, error) {
		var resp SessionResponse
		session.Do(func() {
			resp.GameMode = session.Mode()
			if m, ok := session.Selected(); ok {
				id := m.ID
				resp.SelectedMissionID = &id
			}
			resp.MissionCount = len(session.Store.Missions())
			resp.HeroCount = len(session.Store.Heroes())
		})
		return &struct {
			Body SessionResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-mode",
		Method:      http.MethodPut,
		Path:        "/session/mode",
		Summary:     "Switch game mode",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body SetModeRequest `json:"body"`
	}) (*struct {
		Body SessionResponse `json:"body"`
	}, error) {
		var opErr error
		var resp SessionResponse
		session.Do(func() {
			if opErr = session.SetMode(input.Body.GameMode); opErr != nil {
				return
			}
			resp.GameMode = session.Mode()
			resp.MissionCount = len(session.Store.Missions())
			resp.HeroCount = len(session.Store.Heroes())
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &struct {
			Body SessionResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "select-mission",
		Method:      http.MethodPut,
		Path:        "/session/selection",
		Summary:     "Select a mission",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body SelectMissionRequest `json:"body"`
	}) (*struct {
		Body domain.Mission `json:"body"`
	}, error) {
		var opErr error
		var selected domain.Mission
		session.Do(func() {
			if opErr = session.Select(input.Body.MissionID); opErr != nil {
				return
			}
			selected, _ = session.Selected()
		})
		if opErr != nil {
			return nil, handleError(opErr)
		}
		return &struct {
			Body domain.Mission `json:"body"`
		}{Body: selected}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "deselect-mission",
		Method:        http.MethodDelete,
		Path:          "/session/selection",
		Summary:       "Clear the selection",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		session.Do(session.Deselect)
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reset-session",
		Method:      http.MethodPost,
		Path:        "/session/reset",
		Summary:     "Reset to the campaign seed",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body SessionResponse `json:"body"`
	}, error) {
		var resp SessionResponse
		session.Do(func() {
			session.Reset()
			resp.GameMode = session.Mode()
			resp.MissionCount = len(session.Store.Missions())
			resp.HeroCount = len(session.Store.Heroes())
		})
		return &struct {
			Body SessionResponse `json:"body"`
		}{Body: resp}, nil
	})
}

func registerCampaign(api huma.API, campaign *config.Campaign) {
	huma.Register(api, huma.Operation{
		OperationID: "list-zones",
		Method:      http.MethodGet,
		Path:        "/campaign/zones",
		Summary:     "Boss zone catalog",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []ZoneResponse `json:"body"`
	}, error) {
		out := make([]ZoneResponse, 0, len(campaign.Zones))
		for _, z := range campaign.Zones {
			out = append(out, ZoneResponse{ID: z.ID, Name: z.Name, Boss: z.Boss, Color: z.Color, Description: z.Description})
		}
		return &struct {
			Body []ZoneResponse `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-zone-labels",
		Method:      http.MethodGet,
		Path:        "/campaign/labels",
		Summary:     "Map label placement",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.ZoneLabel `json:"body"`
	}, error) {
		return &struct {
			Body []domain.ZoneLabel `json:"body"`
		}{Body: campaign.ZoneLabels()}, nil
	})
}

func registerEvents(api huma.API, r *repo.Repo) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Recent mutation journal",
	}, func(ctx context.Context, input *struct {
		Limit int `query:"limit" default:"50" minimum:"1" maximum:"500"`
	}) (*struct {
		Body []EventResponse `json:"body"`
	}, error) {
		if r == nil {
			return &struct {
				Body []EventResponse `json:"body"`
			}{Body: []EventResponse{}}, nil
		}
		items, err := r.ListEvents(ctx, input.Limit)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []EventResponse `json:"body"`
		}{Body: mapEvents(items)}, nil
	})
}
