// Package engine fronts the store with intent-level mutations and runs the
// dependency resolution cascade after every status-affecting write. All
// operations are total: malformed graphs, dangling ids and cycles degrade to
// permanently locked missions rather than errors.
package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"contagio/internal/domain"
	"contagio/internal/events"
	"contagio/internal/metrics"
	"contagio/internal/store"
)

type Engine struct {
	Store  *store.Store
	Events *events.Writer
	Logger *log.Logger
	Now    func() time.Time
}

func New(st *store.Store) Engine {
	return Engine{Store: st, Now: time.Now}
}

func (e Engine) record(ctx context.Context, evtType, entityKind, entityID, actorID string, payload events.EventPayload) {
	if err := e.Events.Append(ctx, evtType, entityKind, entityID, actorID, payload); err != nil {
		e.logger().Printf("event journal append failed (type=%s entity=%s): %v", evtType, entityID, err)
	}
}

func (e Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.Default()
}

// AddMission inserts a mission. Missing ids are generated; a missing status
// derives from the dependency set (AVAILABLE when empty, LOCKED otherwise).
// A mission created already COMPLETED runs the forward cascade, since it may
// immediately satisfy waiting children.
func (e Engine) AddMission(ctx context.Context, m domain.Mission, actorID string) (domain.Mission, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if !m.GameMode.Valid() {
		m.GameMode = domain.ModeHeroes
	}
	if !m.Status.Valid() {
		if len(m.Dependencies) == 0 {
			m.Status = domain.StatusAvailable
		} else {
			m.Status = domain.StatusLocked
		}
	}
	for i := range m.Objectives {
		if m.Objectives[i].ID == "" {
			m.Objectives[i].ID = uuid.New().String()
		}
	}
	if m.Objectives == nil {
		m.Objectives = []domain.Objective{}
	}
	if m.Dependencies == nil {
		m.Dependencies = []string{}
	}
	e.Store.UpsertMission(m)
	if m.Status == domain.StatusCompleted {
		e.Store.ReplaceMissions(Resolve(e.Store.Missions(), domain.StatusCompleted))
	}
	metrics.Mutations.WithLabelValues("mission.add").Inc()
	e.record(ctx, "mission.created", "mission", m.ID, actorID, events.EventPayload{"title": m.Title, "status": m.Status, "mode": m.GameMode})
	return m, nil
}

// UpdateMission is a whole-record replace for field edits (title,
// description, objectives, position, location). It never triggers the
// cascade; status changes go through SetStatus.
func (e Engine) UpdateMission(ctx context.Context, m domain.Mission, actorID string) (domain.Mission, error) {
	if _, ok := e.Store.Mission(m.ID); !ok {
		return domain.Mission{}, store.ErrNotFound
	}
	e.Store.UpsertMission(m)
	metrics.Mutations.WithLabelValues("mission.update").Inc()
	e.record(ctx, "mission.updated", "mission", m.ID, actorID, events.EventPayload{"title": m.Title})
	return m, nil
}

// MoveMission writes a new renderer position. Last write wins.
func (e Engine) MoveMission(ctx context.Context, id string, pos domain.Coordinates, actorID string) (domain.Mission, error) {
	m, ok := e.Store.Mission(id)
	if !ok {
		return domain.Mission{}, store.ErrNotFound
	}
	m.Position = pos
	e.Store.UpsertMission(m)
	metrics.Mutations.WithLabelValues("mission.move").Inc()
	e.record(ctx, "mission.moved", "mission", id, actorID, events.EventPayload{"x": pos.X, "y": pos.Y})
	return m, nil
}

// DeleteMission removes the mission and strips its id from every remaining
// mission's dependency set. Referential cleanup only: no cascade runs, former
// dependents keep their current status. Heroes pointing at the mission keep
// their now-stale assignment.
func (e Engine) DeleteMission(ctx context.Context, id, actorID string) error {
	if !e.Store.RemoveMission(id) {
		return store.ErrNotFound
	}
	missions := e.Store.Missions()
	for i := range missions {
		if !missions[i].DependsOn(id) {
			continue
		}
		deps := missions[i].Dependencies[:0]
		for _, d := range missions[i].Dependencies {
			if d != id {
				deps = append(deps, d)
			}
		}
		missions[i].Dependencies = deps
	}
	e.Store.ReplaceMissions(missions)
	metrics.Mutations.WithLabelValues("mission.delete").Inc()
	e.record(ctx, "mission.deleted", "mission", id, actorID, nil)
	return nil
}

// SetStatus is the only entry point into the cascade. The requested status is
// written directly to the target, then the whole collection is re-resolved to
// its fixed point before anything else observes the change.
func (e Engine) SetStatus(ctx context.Context, id string, status domain.MissionStatus, actorID string) (domain.Mission, error) {
	if !status.Valid() {
		return domain.Mission{}, errInvalidStatus(status)
	}
	missions := e.Store.Missions()
	found := false
	for i := range missions {
		if missions[i].ID == id {
			missions[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return domain.Mission{}, store.ErrNotFound
	}
	resolved := Resolve(missions, status)
	e.Store.ReplaceMissions(resolved)
	metrics.Mutations.WithLabelValues("mission.status").Inc()
	e.record(ctx, "mission.status", "mission", id, actorID, events.EventPayload{"status": status})
	for _, m := range resolved {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Mission{}, store.ErrNotFound
}

// AddDependency links child to parent and re-evaluates the child on the spot:
// if the parent (same mode) is already COMPLETED the child's status is left
// alone, otherwise the child is forced to LOCKED — even out of COMPLETED.
// Self-references and duplicate edges are no-ops.
func (e Engine) AddDependency(ctx context.Context, childID, parentID, actorID string) (domain.Mission, error) {
	child, ok := e.Store.Mission(childID)
	if !ok {
		return domain.Mission{}, store.ErrNotFound
	}
	if childID == parentID || child.DependsOn(parentID) {
		return child, nil
	}
	child.Dependencies = append(child.Dependencies, parentID)
	parentDone := false
	if parent, ok := e.Store.Mission(parentID); ok && parent.GameMode == child.GameMode {
		parentDone = parent.Status == domain.StatusCompleted
	}
	if !parentDone {
		child.Status = domain.StatusLocked
	}
	e.Store.UpsertMission(child)
	metrics.Mutations.WithLabelValues("mission.dependency").Inc()
	e.record(ctx, "mission.dependency.added", "mission", childID, actorID, events.EventPayload{"parent": parentID})
	return child, nil
}

// ToggleObjective flips one objective's completed flag. Objectives never feed
// the dependency graph, so no cascade runs.
func (e Engine) ToggleObjective(ctx context.Context, missionID, objectiveID, actorID string) (domain.Mission, error) {
	m, ok := e.Store.Mission(missionID)
	if !ok {
		return domain.Mission{}, store.ErrNotFound
	}
	found := false
	for i := range m.Objectives {
		if m.Objectives[i].ID == objectiveID {
			m.Objectives[i].Completed = !m.Objectives[i].Completed
			found = true
			break
		}
	}
	if !found {
		return domain.Mission{}, store.ErrNotFound
	}
	e.Store.UpsertMission(m)
	metrics.Mutations.WithLabelValues("mission.objective").Inc()
	e.record(ctx, "mission.objective.toggled", "mission", missionID, actorID, events.EventPayload{"objective": objectiveID})
	return m, nil
}

// --- hero operations: write only to the hero collection, never the engine ---

func (e Engine) AddHero(ctx context.Context, h domain.Hero, actorID string) (domain.Hero, error) {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if h.PersonalObjectives == nil {
		h.PersonalObjectives = []domain.Objective{}
	}
	for i := range h.PersonalObjectives {
		if h.PersonalObjectives[i].ID == "" {
			h.PersonalObjectives[i].ID = uuid.New().String()
		}
	}
	e.Store.UpsertHero(h)
	metrics.Mutations.WithLabelValues("hero.add").Inc()
	e.record(ctx, "hero.created", "hero", h.ID, actorID, events.EventPayload{"name": h.Name})
	return h, nil
}

func (e Engine) UpdateHero(ctx context.Context, h domain.Hero, actorID string) (domain.Hero, error) {
	if _, ok := e.Store.Hero(h.ID); !ok {
		return domain.Hero{}, store.ErrNotFound
	}
	e.Store.UpsertHero(h)
	metrics.Mutations.WithLabelValues("hero.update").Inc()
	e.record(ctx, "hero.updated", "hero", h.ID, actorID, nil)
	return h, nil
}

func (e Engine) DeleteHero(ctx context.Context, id, actorID string) error {
	if !e.Store.RemoveHero(id) {
		return store.ErrNotFound
	}
	metrics.Mutations.WithLabelValues("hero.delete").Inc()
	e.record(ctx, "hero.deleted", "hero", id, actorID, nil)
	return nil
}

// AssignHero points a hero at a mission id, or clears the assignment when
// missionID is nil. The reference is a label: the target does not have to
// exist or be AVAILABLE, and nothing here consults the dependency graph.
func (e Engine) AssignHero(ctx context.Context, heroID string, missionID *string, actorID string) (domain.Hero, error) {
	h, ok := e.Store.Hero(heroID)
	if !ok {
		return domain.Hero{}, store.ErrNotFound
	}
	h.AssignedMissionID = missionID
	e.Store.UpsertHero(h)
	metrics.Mutations.WithLabelValues("hero.assign").Inc()
	payload := events.EventPayload{}
	if missionID != nil {
		payload["mission"] = *missionID
	}
	e.record(ctx, "hero.assigned", "hero", heroID, actorID, payload)
	return h, nil
}

func (e Engine) AddHeroObjective(ctx context.Context, heroID, text, actorID string) (domain.Hero, error) {
	h, ok := e.Store.Hero(heroID)
	if !ok {
		return domain.Hero{}, store.ErrNotFound
	}
	h.PersonalObjectives = append(h.PersonalObjectives, domain.Objective{ID: uuid.New().String(), Text: text})
	e.Store.UpsertHero(h)
	metrics.Mutations.WithLabelValues("hero.objective").Inc()
	e.record(ctx, "hero.objective.added", "hero", heroID, actorID, events.EventPayload{"text": text})
	return h, nil
}

func (e Engine) ToggleHeroObjective(ctx context.Context, heroID, objectiveID, actorID string) (domain.Hero, error) {
	h, ok := e.Store.Hero(heroID)
	if !ok {
		return domain.Hero{}, store.ErrNotFound
	}
	found := false
	for i := range h.PersonalObjectives {
		if h.PersonalObjectives[i].ID == objectiveID {
			h.PersonalObjectives[i].Completed = !h.PersonalObjectives[i].Completed
			found = true
			break
		}
	}
	if !found {
		return domain.Hero{}, store.ErrNotFound
	}
	e.Store.UpsertHero(h)
	metrics.Mutations.WithLabelValues("hero.objective").Inc()
	e.record(ctx, "hero.objective.toggled", "hero", heroID, actorID, events.EventPayload{"objective": objectiveID})
	return h, nil
}

func (e Engine) RemoveHeroObjective(ctx context.Context, heroID, objectiveID, actorID string) (domain.Hero, error) {
	h, ok := e.Store.Hero(heroID)
	if !ok {
		return domain.Hero{}, store.ErrNotFound
	}
	kept := h.PersonalObjectives[:0]
	found := false
	for _, o := range h.PersonalObjectives {
		if o.ID == objectiveID {
			found = true
			continue
		}
		kept = append(kept, o)
	}
	if !found {
		return domain.Hero{}, store.ErrNotFound
	}
	h.PersonalObjectives = kept
	e.Store.UpsertHero(h)
	metrics.Mutations.WithLabelValues("hero.objective").Inc()
	e.record(ctx, "hero.objective.removed", "hero", heroID, actorID, events.EventPayload{"objective": objectiveID})
	return h, nil
}
