// Package medicine provides the Medicine catalog.
// Medicines are the stock-keeping units of the pharmacy: every bill line
// and purchase order line references one.
package medicine

import (
	"context"
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/types"
)

// DefaultGSTRate is applied when a medicine has no explicit rate.
var DefaultGSTRate = types.MustMoney("18")

// Medicine represents a stock-keeping unit of the pharmacy.
type Medicine struct {
	entity.Catalog

	// Category groups medicines for reporting (e.g. "Antibiotics")
	Category string `db:"category" json:"category"`

	// Manufacturer is the producing company
	Manufacturer *string `db:"manufacturer" json:"manufacturer,omitempty"`

	// Description is a free-form note
	Description *string `db:"description" json:"description,omitempty"`

	// Price is the unit selling price
	Price types.Money `db:"price" json:"price"`

	// GSTRate is the tax percentage applied on sale; nil means the default rate
	GSTRate *types.Money `db:"gst_rate" json:"gstRate,omitempty"`

	// Quantity is the on-hand stock. It is maintained exclusively by the
	// stock register; direct writes bypass movement history.
	Quantity int `db:"quantity" json:"quantity"`

	// MinStockLevel triggers low-stock notifications when quantity drops below it
	MinStockLevel int `db:"min_stock_level" json:"minStockLevel"`

	// ExpiryDate of the current batch
	ExpiryDate *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	// BatchNumber of the current batch, updated on PO receipt
	BatchNumber *string `db:"batch_number" json:"batchNumber,omitempty"`
}

// NewMedicine creates a new Medicine with required fields.
func NewMedicine(code, name, category string, price types.Money) *Medicine {
	return &Medicine{
		Catalog:       entity.NewCatalog(code, name),
		Category:      category,
		Price:         price,
		MinStockLevel: 10,
	}
}

// Validate implements entity.Validatable interface.
func (m *Medicine) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if m.Category == "" {
		return apperror.NewValidation("category is required").
			WithDetail("field", "category")
	}

	if m.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price").
			WithDetail("value", m.Price.String())
	}

	if m.MinStockLevel < 0 {
		return apperror.NewValidation("min stock level must not be negative").
			WithDetail("field", "minStockLevel")
	}

	if m.GSTRate != nil && (m.GSTRate.IsNegative() || m.GSTRate.GreaterThan(types.MustMoney("100"))) {
		return apperror.NewValidation("gst rate must be between 0 and 100").
			WithDetail("field", "gstRate").
			WithDetail("value", m.GSTRate.String())
	}

	return nil
}

// EffectiveGSTRate returns the medicine rate or the default when unset.
func (m *Medicine) EffectiveGSTRate() types.Money {
	if m.GSTRate != nil {
		return *m.GSTRate
	}
	return DefaultGSTRate
}

// IsLowStock returns true when quantity is at or below the minimum level
// but not zero.
func (m *Medicine) IsLowStock() bool {
	return m.Quantity > 0 && m.Quantity <= m.MinStockLevel
}

// IsOutOfStock returns true when nothing is on hand.
func (m *Medicine) IsOutOfStock() bool {
	return m.Quantity <= 0
}

// IsExpired returns true when the expiry date has passed.
func (m *Medicine) IsExpired(now time.Time) bool {
	return m.ExpiryDate != nil && m.ExpiryDate.Before(now)
}

// ExpiresWithin returns true when the medicine expires within d from now
// (and has not expired yet).
func (m *Medicine) ExpiresWithin(now time.Time, d time.Duration) bool {
	if m.ExpiryDate == nil || m.IsExpired(now) {
		return false
	}
	return m.ExpiryDate.Sub(now) <= d
}
