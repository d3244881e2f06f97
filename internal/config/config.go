package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"contagio/internal/domain"
)

// Campaign models campaign.yml: the boss zone catalog, the state→zone
// mapping used by the map renderer, and the seed missions/heroes loaded when
// no save exists.
type Campaign struct {
	Campaign struct {
		ID    string `yaml:"id"`
		Title string `yaml:"title"`
	} `yaml:"campaign"`
	Zones      []ZoneConfig   `yaml:"zones"`
	StateZones map[string]int `yaml:"state_zones"`
	Labels     []LabelConfig  `yaml:"labels"`
	Seed       SeedConfig     `yaml:"seed"`
}

type ZoneConfig struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Boss        string `yaml:"boss"`
	Color       string `yaml:"color"`
	Description string `yaml:"description"`
}

type LabelConfig struct {
	Zone        int        `yaml:"zone"`
	Text        string     `yaml:"text"`
	Coordinates [2]float64 `yaml:"coordinates"`
}

type SeedConfig struct {
	Mode     string          `yaml:"mode"`
	Missions []MissionConfig `yaml:"missions"`
	Heroes   []HeroConfig    `yaml:"heroes"`
}

type MissionConfig struct {
	ID            string            `yaml:"id"`
	Title         string            `yaml:"title"`
	Description   string            `yaml:"description"`
	Objectives    []ObjectiveConfig `yaml:"objectives"`
	Zone          int               `yaml:"zone"`
	Position      PositionConfig    `yaml:"position"`
	Status        string            `yaml:"status"`
	Dependencies  []string          `yaml:"dependencies"`
	LocationState string            `yaml:"location_state"`
	Mode          string            `yaml:"mode"`
}

type ObjectiveConfig struct {
	ID        string `yaml:"id"`
	Text      string `yaml:"text"`
	Completed bool   `yaml:"completed"`
}

type PositionConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type HeroConfig struct {
	ID         string            `yaml:"id"`
	Name       string            `yaml:"name"`
	PhotoURL   string            `yaml:"photo_url"`
	Bio        string            `yaml:"bio"`
	Objectives []ObjectiveConfig `yaml:"objectives"`
}

// Path returns the campaign file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "campaign.yml")
}

// Load reads and validates the campaign config from a workspace.
func Load(workspace string) (*Campaign, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("campaign %s not found; run 'contagio seed --write-config' or omit to use the built-in campaign", Path(workspace))
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil when no campaign file exists.
func LoadOptional(workspace string) (*Campaign, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates campaign config from raw YAML bytes.
func FromYAML(data []byte) (*Campaign, error) {
	var c Campaign
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid campaign yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func FromFile(path string) (*Campaign, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the built-in campaign.
func Default() *Campaign {
	c, err := FromYAML([]byte(defaultTemplate))
	if err != nil {
		panic(fmt.Sprintf("built-in campaign invalid: %v", err))
	}
	return c
}

// GenerateDefault returns the default campaign YAML for writing to disk.
func GenerateDefault() string {
	return defaultTemplate
}

// Validate checks internal consistency: unique ids, known zones, seed
// dependencies that stay inside their own game mode.
func (c *Campaign) Validate() error {
	if c.Campaign.ID == "" {
		return fmt.Errorf("campaign.id is required")
	}
	zoneIDs := map[int]bool{}
	for _, z := range c.Zones {
		if zoneIDs[z.ID] {
			return fmt.Errorf("duplicate zone id %d", z.ID)
		}
		zoneIDs[z.ID] = true
		if z.Name == "" {
			return fmt.Errorf("zone %d has no name", z.ID)
		}
	}
	for state, zone := range c.StateZones {
		if !zoneIDs[zone] {
			return fmt.Errorf("state %q maps to unknown zone %d", state, zone)
		}
	}
	for _, l := range c.Labels {
		if !zoneIDs[l.Zone] {
			return fmt.Errorf("label %q references unknown zone %d", l.Text, l.Zone)
		}
	}
	if c.Seed.Mode != "" && !domain.GameMode(c.Seed.Mode).Valid() {
		return fmt.Errorf("seed.mode %q is not a game mode", c.Seed.Mode)
	}
	type scoped struct {
		mode string
		id   string
	}
	seen := map[scoped]bool{}
	ids := map[string]bool{}
	for _, m := range c.Seed.Missions {
		if m.ID == "" {
			return fmt.Errorf("seed mission %q has no id", m.Title)
		}
		if ids[m.ID] {
			return fmt.Errorf("duplicate seed mission id %q", m.ID)
		}
		ids[m.ID] = true
		if m.Status != "" && !domain.MissionStatus(m.Status).Valid() {
			return fmt.Errorf("seed mission %q has unknown status %q", m.ID, m.Status)
		}
		if m.Mode != "" && !domain.GameMode(m.Mode).Valid() {
			return fmt.Errorf("seed mission %q has unknown mode %q", m.ID, m.Mode)
		}
		if !zoneIDs[m.Zone] {
			return fmt.Errorf("seed mission %q references unknown zone %d", m.ID, m.Zone)
		}
		seen[scoped{m.Mode, m.ID}] = true
	}
	for _, m := range c.Seed.Missions {
		for _, dep := range m.Dependencies {
			if !seen[scoped{m.Mode, dep}] {
				return fmt.Errorf("seed mission %q depends on %q, which is not seeded in mode %s", m.ID, dep, m.Mode)
			}
		}
	}
	heroIDs := map[string]bool{}
	for _, h := range c.Seed.Heroes {
		if h.ID == "" {
			return fmt.Errorf("seed hero %q has no id", h.Name)
		}
		if heroIDs[h.ID] {
			return fmt.Errorf("duplicate seed hero id %q", h.ID)
		}
		heroIDs[h.ID] = true
	}
	return nil
}

// Zone returns the zone config by id.
func (c *Campaign) Zone(id int) (ZoneConfig, bool) {
	for _, z := range c.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return ZoneConfig{}, false
}

// BossZones converts the zone catalog to domain form.
func (c *Campaign) BossZones() []domain.BossZone {
	out := make([]domain.BossZone, 0, len(c.Zones))
	for _, z := range c.Zones {
		out = append(out, domain.BossZone{
			ID:          z.ID,
			Name:        z.Name,
			BossName:    z.Boss,
			Color:       z.Color,
			Description: z.Description,
		})
	}
	return out
}

// ZoneLabels converts the label list to domain form.
func (c *Campaign) ZoneLabels() []domain.ZoneLabel {
	out := make([]domain.ZoneLabel, 0, len(c.Labels))
	for _, l := range c.Labels {
		out = append(out, domain.ZoneLabel{ZoneID: l.Zone, Text: l.Text, Coordinates: l.Coordinates})
	}
	return out
}

// SeedMode is the active mode a fresh session starts in.
func (c *Campaign) SeedMode() domain.GameMode {
	if m := domain.GameMode(c.Seed.Mode); m.Valid() {
		return m
	}
	return domain.ModeHeroes
}

// SeedMissions converts the seed list to domain missions.
func (c *Campaign) SeedMissions() []domain.Mission {
	out := make([]domain.Mission, 0, len(c.Seed.Missions))
	for _, m := range c.Seed.Missions {
		mode := domain.GameMode(m.Mode)
		if !mode.Valid() {
			mode = domain.ModeHeroes
		}
		status := domain.MissionStatus(m.Status)
		if !status.Valid() {
			if len(m.Dependencies) == 0 {
				status = domain.StatusAvailable
			} else {
				status = domain.StatusLocked
			}
		}
		deps := m.Dependencies
		if deps == nil {
			deps = []string{}
		}
		out = append(out, domain.Mission{
			ID:            m.ID,
			Title:         m.Title,
			Description:   m.Description,
			Objectives:    convertObjectives(m.Objectives),
			ZoneID:        m.Zone,
			Position:      domain.Coordinates{X: m.Position.X, Y: m.Position.Y},
			Status:        status,
			Dependencies:  deps,
			LocationState: m.LocationState,
			GameMode:      mode,
		})
	}
	return out
}

// SeedHeroes converts the seed list to domain heroes.
func (c *Campaign) SeedHeroes() []domain.Hero {
	out := make([]domain.Hero, 0, len(c.Seed.Heroes))
	for _, h := range c.Seed.Heroes {
		out = append(out, domain.Hero{
			ID:                 h.ID,
			Name:               h.Name,
			PhotoURL:           h.PhotoURL,
			Bio:                h.Bio,
			PersonalObjectives: convertObjectives(h.Objectives),
		})
	}
	return out
}

func convertObjectives(in []ObjectiveConfig) []domain.Objective {
	out := make([]domain.Objective, 0, len(in))
	for _, o := range in {
		out = append(out, domain.Objective{ID: o.ID, Text: o.Text, Completed: o.Completed})
	}
	return out
}
