package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contagio/internal/config"
	"contagio/internal/domain"
)

func TestDefaultCampaignIsValid(t *testing.T) {
	c := config.Default()
	if c.Campaign.ID != "contagio-cero" {
		t.Fatalf("campaign id = %s", c.Campaign.ID)
	}
	if len(c.Zones) != 5 {
		t.Fatalf("zones = %d, want 5", len(c.Zones))
	}
	if len(c.Seed.Missions) != 7 {
		t.Fatalf("seed missions = %d, want 7", len(c.Seed.Missions))
	}
	if len(c.Seed.Heroes) != 6 {
		t.Fatalf("seed heroes = %d, want 6", len(c.Seed.Heroes))
	}
}

func TestSeedMissionsStatusesAndModes(t *testing.T) {
	missions := config.Default().SeedMissions()
	byID := map[string]domain.Mission{}
	for _, m := range missions {
		byID[m.ID] = m
	}
	if byID["bunker-alpha"].Status != domain.StatusCompleted {
		t.Fatalf("bunker-alpha = %s", byID["bunker-alpha"].Status)
	}
	if byID["patient-zero"].GameMode != domain.ModeZombies {
		t.Fatalf("patient-zero mode = %s", byID["patient-zero"].GameMode)
	}
	if byID["kraven-hunt"].Status != domain.StatusAvailable {
		t.Fatalf("kraven-hunt = %s", byID["kraven-hunt"].Status)
	}
	if byID["lord-kingpin"].Status != domain.StatusLocked {
		t.Fatalf("lord-kingpin = %s", byID["lord-kingpin"].Status)
	}
	if !byID["lord-kingpin"].DependsOn("vestibulo-condenados") {
		t.Fatalf("lord-kingpin deps = %v", byID["lord-kingpin"].Dependencies)
	}
}

func TestValidateRejectsBrokenCampaigns(t *testing.T) {
	cases := map[string]string{
		"unknown zone in state map": `
campaign: {id: c, title: C}
zones: [{id: 0, name: Z}]
state_zones: {Texas: 9}
`,
		"duplicate mission id": `
campaign: {id: c, title: C}
zones: [{id: 0, name: Z}]
seed:
  missions:
    - {id: m1, title: A, zone: 0, mode: HEROES}
    - {id: m1, title: B, zone: 0, mode: HEROES}
`,
		"cross-mode seed dependency": `
campaign: {id: c, title: C}
zones: [{id: 0, name: Z}]
seed:
  missions:
    - {id: m1, title: A, zone: 0, mode: ZOMBIES}
    - {id: m2, title: B, zone: 0, mode: HEROES, dependencies: [m1]}
`,
		"unknown status": `
campaign: {id: c, title: C}
zones: [{id: 0, name: Z}]
seed:
  missions:
    - {id: m1, title: A, zone: 0, mode: HEROES, status: DONE}
`,
	}
	for name, yml := range cases {
		if _, err := config.FromYAML([]byte(yml)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadMissingFileMentionsSeedCommand(t *testing.T) {
	_, err := config.Load(t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "seed --write-config") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()
	c, err := config.LoadOptional(dir)
	if err != nil || c != nil {
		t.Fatalf("missing file: c=%v err=%v", c, err)
	}
	path := filepath.Join(dir, "campaign.yml")
	if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err = config.LoadOptional(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c == nil || c.Campaign.ID != "contagio-cero" {
		t.Fatalf("unexpected campaign: %+v", c)
	}
}

func TestSeedDefaultsStatusFromDependencies(t *testing.T) {
	c, err := config.FromYAML([]byte(`
campaign: {id: c, title: C}
zones: [{id: 0, name: Z}]
seed:
  missions:
    - {id: root, title: A, zone: 0, mode: HEROES}
    - {id: leaf, title: B, zone: 0, mode: HEROES, dependencies: [root]}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	missions := c.SeedMissions()
	if missions[0].Status != domain.StatusAvailable {
		t.Fatalf("root = %s, want AVAILABLE", missions[0].Status)
	}
	if missions[1].Status != domain.StatusLocked {
		t.Fatalf("leaf = %s, want LOCKED", missions[1].Status)
	}
}
