// Package flavor produces briefing text for freshly created missions: a
// title, a short description, and a starter objective list themed to the
// boss zone the mission lands in. Generation is best-effort; callers always
// get usable details even when no model is reachable.
package flavor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"contagio/internal/config"
	"contagio/internal/metrics"
)

// Details is a generated mission briefing.
type Details struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
}

// Generator produces briefing details for a new mission in a zone.
// existingCount is how many missions the zone already has, so generated
// titles can stay distinct.
type Generator interface {
	Generate(ctx context.Context, zone config.ZoneConfig, existingCount int) Details
}

var stockObjectives = []string{
	"Asegurar perímetro",
	"Recuperar datos",
	"Extracción táctica",
}

// Fallback is the deterministic generator used when no API key is
// configured or the model call fails.
type Fallback struct{}

func (Fallback) Generate(_ context.Context, zone config.ZoneConfig, existingCount int) Details {
	boss := zone.Boss
	if boss == "" {
		boss = "Zona Desconocida"
	}
	return Details{
		Title:       fmt.Sprintf("Operación %s #%d", boss, existingCount+1),
		Description: fmt.Sprintf("Misión de reconocimiento en el territorio de %s.", boss),
		Objectives:  append([]string(nil), stockObjectives...),
	}
}

// Gemini generates briefings via the Gemini API and falls back to the
// deterministic generator on any error.
type Gemini struct {
	APIKey string
	Model  string
	Logger *log.Logger
}

const defaultModel = "gemini-2.5-flash"

func (g Gemini) Generate(ctx context.Context, zone config.ZoneConfig, existingCount int) Details {
	d, err := g.generate(ctx, zone, existingCount)
	if err != nil {
		metrics.FlavorFallbacks.Inc()
		if g.Logger != nil {
			g.Logger.Printf("flavor: falling back to stock briefing: %v", err)
		}
		return Fallback{}.Generate(ctx, zone, existingCount)
	}
	return d
}

func (g Gemini) generate(ctx context.Context, zone config.ZoneConfig, existingCount int) (Details, error) {
	if g.APIKey == "" {
		return Details{}, fmt.Errorf("no api key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.APIKey})
	if err != nil {
		return Details{}, fmt.Errorf("create client: %w", err)
	}
	model := g.Model
	if model == "" {
		model = defaultModel
	}
	prompt := fmt.Sprintf(`Eres el narrador de un juego de mesa post-apocalíptico ambientado en unos Estados Unidos invadidos por zombies.
Genera una misión nueva para la zona %q, controlada por %s. %s
La zona ya tiene %d misiones; la nueva debe tener un título distinto.
Responde SOLO con JSON: {"title": "...", "description": "...", "objectives": ["...", "..."]}
El título va en mayúsculas, la descripción tiene 2-3 frases en español y hay 2 o 3 objetivos cortos.`,
		zone.Name, zone.Boss, zone.Description, existingCount)

	resp, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return Details{}, fmt.Errorf("generate content: %w", err)
	}
	var d Details
	if err := json.Unmarshal([]byte(resp.Text()), &d); err != nil {
		return Details{}, fmt.Errorf("parse model response: %w", err)
	}
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return Details{}, fmt.Errorf("model returned empty title")
	}
	if len(d.Objectives) == 0 {
		d.Objectives = append([]string(nil), stockObjectives...)
	}
	return d, nil
}

// New picks the Gemini generator when a key is configured, the fallback
// otherwise.
func New(apiKey, model string, logger *log.Logger) Generator {
	if apiKey == "" {
		return Fallback{}
	}
	return Gemini{APIKey: apiKey, Model: model, Logger: logger}
}
