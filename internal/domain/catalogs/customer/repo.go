package customer

import (
	"context"
	"time"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain"
)

// Repository defines the interface for Customer persistence.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// FindByPhone retrieves a customer by phone number.
	FindByPhone(ctx context.Context, phone string) (*Customer, error)

	// AddPurchase increments total_purchases and bumps last_purchase_at.
	AddPurchase(ctx context.Context, id id.ID, amount types.Money, at time.Time) error
}
