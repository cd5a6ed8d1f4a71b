// Package audit provides the audit trail contract.
// Entries record who did what to which entity; the storage layer
// compresses payloads and keeps them append-only.
package audit

import (
	"context"
	"time"

	"medistock/internal/core/id"
)

// Action classifies an audit entry.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionReceive Action = "receive"
	ActionCancel  Action = "cancel"
	ActionLogin   Action = "login"
)

// Entry is a single audit record.
type Entry struct {
	ID         id.ID          `db:"id" json:"id"`
	Action     Action         `db:"action" json:"action"`
	EntityType string         `db:"entity_type" json:"entityType"`
	EntityID   string         `db:"entity_id" json:"entityId"`
	UserID     string         `db:"user_id" json:"userId,omitempty"`
	Details    map[string]any `db:"-" json:"details,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}

// NewEntry creates an audit entry with a generated ID and timestamp.
func NewEntry(action Action, entityType, entityID string) Entry {
	return Entry{
		ID:         id.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  time.Now().UTC(),
	}
}

// WithUser attaches the acting user.
func (e Entry) WithUser(userID string) Entry {
	e.UserID = userID
	return e
}

// WithDetail attaches a key/value pair to the entry payload.
func (e Entry) WithDetail(key string, value any) Entry {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Logger records audit entries. Implementations must not fail the
// business operation: errors are logged and swallowed.
type Logger interface {
	Record(ctx context.Context, entry Entry)
}

// Nop is a Logger that discards entries. Useful in tests.
type Nop struct{}

func (Nop) Record(ctx context.Context, entry Entry) {}
