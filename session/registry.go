// Package session stores the mapping from session id to user id.
//
// Three backends share the Registry contract: an in-process map, redis and
// the SQL database (the user_sessions table). Lookups of unknown ids return
// (nil, nil); deleting an unknown id is a no-op.
package session

import (
	"context"
	"time"

	apperrors "github.com/kbukum/sessionauth/errors"
)

// Searchable record fields.
const (
	FieldSessionID = "session_id"
	FieldUserID    = "user_id"
)

// Record is one issued session.
type Record struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry persists session records keyed by session id.
type Registry interface {
	// Put stores rec under sessionID, replacing any previous record.
	Put(ctx context.Context, sessionID string, rec Record) error
	// Get returns the record for sessionID, or (nil, nil) when there is none.
	Get(ctx context.Context, sessionID string) (*Record, error)
	// Delete removes the record for sessionID. Unknown ids are not an error.
	Delete(ctx context.Context, sessionID string) error
	// FindByField returns every record whose field equals value.
	FindByField(ctx context.Context, field, value string) ([]Record, error)
}

func checkField(field string) error {
	switch field {
	case FieldSessionID, FieldUserID:
		return nil
	default:
		return apperrors.InvalidCriteria(field)
	}
}

func (r Record) field(name string) string {
	if name == FieldUserID {
		return r.UserID
	}
	return r.SessionID
}

func prepare(sessionID string, rec Record, now func() time.Time) Record {
	rec.SessionID = sessionID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now()
	}
	return rec
}
