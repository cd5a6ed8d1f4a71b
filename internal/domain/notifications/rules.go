package notifications

import (
	"fmt"
	"time"

	"medistock/internal/domain/catalogs/medicine"
)

// Expiry rule thresholds.
const (
	ExpiringSoonWindow = 30 * 24 * time.Hour
	ExpiryCritical     = 7 * 24 * time.Hour
)

// EvaluateMedicine applies the alert rules to one medicine and returns
// the notifications it currently warrants. Pure function; deduplication
// against recent alerts happens in the service.
func EvaluateMedicine(m *medicine.Medicine, now time.Time) []Notification {
	var out []Notification

	switch {
	case m.IsOutOfStock():
		out = append(out, NewNotification(
			TypeOutOfStock, PriorityCritical,
			"Out of Stock",
			fmt.Sprintf("%s is out of stock. Immediate reorder required!", m.Name),
			m.ID, m.Name,
		))
	case m.IsLowStock():
		out = append(out, NewNotification(
			TypeLowStock, PriorityWarning,
			"Low Stock Alert",
			fmt.Sprintf("%s is running low. Current stock: %d, Minimum level: %d", m.Name, m.Quantity, m.MinStockLevel),
			m.ID, m.Name,
		))
	}

	if m.ExpiryDate != nil {
		switch {
		case m.IsExpired(now):
			out = append(out, NewNotification(
				TypeExpired, PriorityCritical,
				"Medicine Expired",
				fmt.Sprintf("%s has expired. Remove from inventory immediately!", m.Name),
				m.ID, m.Name,
			))
		case m.ExpiresWithin(now, ExpiringSoonWindow):
			days := int(m.ExpiryDate.Sub(now).Hours() / 24)
			priority := PriorityWarning
			if m.ExpiresWithin(now, ExpiryCritical) {
				priority = PriorityCritical
			}
			out = append(out, NewNotification(
				TypeExpiringSoon, priority,
				"Medicine Expiring Soon",
				fmt.Sprintf("%s will expire in %d days (Expiry: %s)", m.Name, days, m.ExpiryDate.Format("2006-01-02")),
				m.ID, m.Name,
			))
		}
	}

	return out
}
