// Package notifications provides inventory alerts: low stock, out of
// stock, expiring and expired medicines.
package notifications

import (
	"time"

	"medistock/internal/core/id"
)

// Type classifies a notification.
type Type string

const (
	TypeLowStock     Type = "low_stock"
	TypeOutOfStock   Type = "out_of_stock"
	TypeExpiringSoon Type = "expiring_soon"
	TypeExpired      Type = "expired"
)

// Priority orders notifications for display.
type Priority string

const (
	PriorityInfo     Priority = "info"
	PriorityWarning  Priority = "warning"
	PriorityCritical Priority = "critical"
)

// Notification is a generated inventory alert.
type Notification struct {
	ID id.ID `db:"id" json:"id"`

	Type     Type     `db:"type" json:"type"`
	Priority Priority `db:"priority" json:"priority"`

	Title   string `db:"title" json:"title"`
	Message string `db:"message" json:"message"`

	MedicineID   id.ID  `db:"medicine_id" json:"medicineId"`
	MedicineName string `db:"medicine_name" json:"medicineName"`

	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewNotification creates a notification with generated ID.
func NewNotification(nType Type, priority Priority, title, message string, medicineID id.ID, medicineName string) Notification {
	return Notification{
		ID:           id.New(),
		Type:         nType,
		Priority:     priority,
		Title:        title,
		Message:      message,
		MedicineID:   medicineID,
		MedicineName: medicineName,
		CreatedAt:    time.Now().UTC(),
	}
}

// DedupWindow is how long a notification of the same type for the same
// medicine suppresses a new one.
func (t Type) DedupWindow() time.Duration {
	switch t {
	case TypeExpiringSoon, TypeExpired:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Summary aggregates unread notifications.
type Summary struct {
	ByPriority  map[Priority]int64 `json:"byPriority"`
	ByType      map[Type]int64     `json:"byType"`
	TotalUnread int64              `json:"totalUnread"`
}
