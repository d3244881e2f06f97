// Package app assembles a playable session: the in-memory store and engine,
// the active game mode, the table's current selection, and the save plumbing
// that makes state survive restarts.
package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"contagio/internal/config"
	"contagio/internal/domain"
	"contagio/internal/engine"
	"contagio/internal/events"
	"contagio/internal/metrics"
	"contagio/internal/repo"
	"contagio/internal/savefile"
	"contagio/internal/store"
)

// AutosaveSlot is the slot name the session writes after every mutation when
// a save store is attached.
const AutosaveSlot = "autosave"

// Session is the unit of play: one board, one active mode, at most one
// selected mission. All access goes through Do, which serializes callers —
// the store itself is not safe for concurrent use.
type Session struct {
	mu sync.Mutex

	Store    *store.Store
	Engine   engine.Engine
	Campaign *config.Campaign

	mode       domain.GameMode
	selectedID string

	repo    *repo.Repo
	ownerID string
	logger  *log.Logger
	now     func() time.Time
}

// Options configures session bootstrap. SaveFile, when set, wins over the
// autosave slot; with neither present the campaign seed is loaded.
type Options struct {
	Campaign *config.Campaign
	SaveFile string
	Repo     *repo.Repo
	OwnerID  string
	Events   *events.Writer
	Logger   *log.Logger
	Now      func() time.Time
}

// Bootstrap builds a session from the first state source that answers:
// an explicit save file, the owner's autosave slot, then the campaign seed.
func Bootstrap(ctx context.Context, opts Options) (*Session, error) {
	if opts.Campaign == nil {
		opts.Campaign = config.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OwnerID == "" {
		opts.OwnerID = "local"
	}
	st := store.New()
	eng := engine.New(st)
	eng.Events = opts.Events
	eng.Logger = opts.Logger
	eng.Now = opts.Now

	s := &Session{
		Store:    st,
		Engine:   eng,
		Campaign: opts.Campaign,
		repo:     opts.Repo,
		ownerID:  opts.OwnerID,
		logger:   opts.Logger,
		now:      opts.Now,
	}

	switch {
	case opts.SaveFile != "":
		rec, err := savefile.ReadFile(opts.SaveFile)
		if err != nil {
			return nil, err
		}
		s.load(rec)
	case opts.Repo != nil:
		rec, err := opts.Repo.GetSlot(ctx, opts.OwnerID, AutosaveSlot)
		if err == nil {
			s.load(rec)
			break
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		s.seed()
	default:
		s.seed()
	}

	// Autosave after every mutation once bootstrap is done.
	if s.repo != nil {
		st.OnChange(func() { s.autosave(ctx) })
	}
	return s, nil
}

func (s *Session) seed() {
	s.Store.ReplaceMissions(s.Campaign.SeedMissions())
	s.Store.ReplaceHeroes(s.Campaign.SeedHeroes())
	s.mode = s.Campaign.SeedMode()
	s.selectedID = ""
}

func (s *Session) load(rec savefile.Record) {
	s.Store.ReplaceMissions(rec.Missions)
	s.Store.ReplaceHeroes(rec.Heroes)
	s.Store.ReplaceStateLocations(rec.StateLocations)
	s.mode = rec.GameMode
	s.selectedID = ""
}

func (s *Session) autosave(ctx context.Context) {
	rec := savefile.New(s.mode, s.Store.Missions(), s.Store.Heroes(), s.Store.StateLocations(), s.now())
	if err := s.repo.PutSlot(ctx, s.ownerID, AutosaveSlot, rec); err != nil {
		metrics.SaveOperations.WithLabelValues("autosave", "error").Inc()
		if s.logger != nil {
			s.logger.Printf("autosave failed: %v", err)
		}
		return
	}
	metrics.SaveOperations.WithLabelValues("autosave", "ok").Inc()
}

// Do runs fn with exclusive access to the session. Every read and mutation
// from concurrent callers goes through here.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// Mode returns the active game mode. Callers inside Do only.
func (s *Session) Mode() domain.GameMode { return s.mode }

// SetMode switches the active mode and clears the selection: the selected
// mission belongs to the outgoing mode's board.
func (s *Session) SetMode(mode domain.GameMode) error {
	if !mode.Valid() {
		return errors.New("unknown game mode")
	}
	if mode != s.mode {
		s.mode = mode
		s.selectedID = ""
	}
	return nil
}

// Select marks a mission as the table's focus. Only missions visible in the
// active mode can be selected.
func (s *Session) Select(id string) error {
	m, ok := s.Store.Mission(id)
	if !ok {
		return store.ErrNotFound
	}
	if m.GameMode != s.mode || m.Status == domain.StatusLocked {
		return store.ErrNotFound
	}
	s.selectedID = id
	return nil
}

func (s *Session) Deselect() { s.selectedID = "" }

// Selected returns the focused mission, re-read from the store so status
// changes since selection are reflected. A vanished or re-locked mission
// clears the selection.
func (s *Session) Selected() (domain.Mission, bool) {
	if s.selectedID == "" {
		return domain.Mission{}, false
	}
	m, ok := s.Store.Mission(s.selectedID)
	if !ok || m.GameMode != s.mode || m.Status == domain.StatusLocked {
		s.selectedID = ""
		return domain.Mission{}, false
	}
	return m, true
}

// Visible returns the active mode's visible board.
func (s *Session) Visible() []domain.Mission {
	return engine.Visible(s.Store.Missions(), s.mode)
}

// Assignable returns the missions heroes can be pointed at.
func (s *Session) Assignable() []domain.Mission {
	return engine.Assignable(s.Store.Missions())
}

// Snapshot produces the export record for the current state.
func (s *Session) Snapshot() savefile.Record {
	return savefile.New(s.mode, s.Store.Missions(), s.Store.Heroes(), s.Store.StateLocations(), s.now())
}

// Load replaces the whole session state from an imported record.
func (s *Session) Load(rec savefile.Record) {
	s.load(rec)
}

// Reset discards all state and reloads the campaign seed.
func (s *Session) Reset() {
	s.seed()
}

// Persist writes the autosave slot immediately. Store writes autosave on
// their own; this is for session-only changes like a mode switch.
func (s *Session) Persist(ctx context.Context) {
	if s.repo != nil {
		s.autosave(ctx)
	}
}
