package notifications

import (
	"context"
	"time"

	"medistock/internal/core/id"
)

// Repository defines notification persistence.
type Repository interface {
	Create(ctx context.Context, n Notification) error
	GetByID(ctx context.Context, notificationID id.ID) (Notification, error)

	// ExistsRecent reports whether a notification of the given type for
	// the medicine was created after the cutoff (deduplication).
	ExistsRecent(ctx context.Context, nType Type, medicineID id.ID, since time.Time) (bool, error)

	List(ctx context.Context, filter ListFilter) ([]Notification, error)

	MarkRead(ctx context.Context, notificationID id.ID) error
	MarkAllRead(ctx context.Context) (int64, error)

	Delete(ctx context.Context, notificationID id.ID) error
	DeleteRead(ctx context.Context) (int64, error)

	GetSummary(ctx context.Context) (Summary, error)
}

// ListFilter for filtering notifications.
type ListFilter struct {
	Type       *Type
	Priority   *Priority
	UnreadOnly bool
	Limit      int
	Offset     int
}
