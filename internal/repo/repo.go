package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"contagio/internal/savefile"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// Slot is a named save stored server-side for an owner. The payload is the
// same JSON document the file export produces.
type Slot struct {
	OwnerID   string
	Name      string
	Version   string
	GameMode  string
	CreatedAt string
	UpdatedAt string
}

// PutSlot stores or replaces a save slot.
func (r Repo) PutSlot(ctx context.Context, ownerID, slot string, rec savefile.Record) error {
	payload, err := rec.Encode()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO saves(owner_id,slot,version,game_mode,payload_json,created_at,updated_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(owner_id,slot) DO UPDATE SET
			version=excluded.version,
			game_mode=excluded.game_mode,
			payload_json=excluded.payload_json,
			updated_at=excluded.updated_at`,
		ownerID, slot, rec.Version, string(rec.GameMode), string(payload), now, now)
	return err
}

// GetSlot loads and decodes a save slot.
func (r Repo) GetSlot(ctx context.Context, ownerID, slot string) (savefile.Record, error) {
	var payload string
	err := r.DB.QueryRowContext(ctx, `SELECT payload_json FROM saves WHERE owner_id=? AND slot=?`, ownerID, slot).Scan(&payload)
	if err == sql.ErrNoRows {
		return savefile.Record{}, ErrNotFound
	}
	if err != nil {
		return savefile.Record{}, err
	}
	return savefile.Decode([]byte(payload))
}

// ListSlots lists an owner's save slots, newest first.
func (r Repo) ListSlots(ctx context.Context, ownerID string) ([]Slot, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT owner_id,slot,version,game_mode,created_at,updated_at
		FROM saves WHERE owner_id=? ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.OwnerID, &s.Name, &s.Version, &s.GameMode, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r Repo) DeleteSlot(ctx context.Context, ownerID, slot string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM saves WHERE owner_id=? AND slot=?`, ownerID, slot)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Event is a journal row as read back for the log command.
type Event struct {
	ID         int64
	TS         string
	Type       string
	EntityKind string
	EntityID   string
	ActorID    string
	Payload    string
}

// ListEvents returns the most recent journal entries, newest first.
func (r Repo) ListEvents(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id,ts,type,entity_kind,COALESCE(entity_id,''),COALESCE(actor_id,''),COALESCE(payload_json,'')
		FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &e.EntityID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
