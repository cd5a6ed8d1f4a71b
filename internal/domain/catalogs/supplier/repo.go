package supplier

import (
	"context"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain"
)

// Repository defines the interface for Supplier persistence.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// SetActive toggles the active flag.
	SetActive(ctx context.Context, id id.ID, active bool) error

	// AddOrder increments total_orders (called when a purchase order
	// is created).
	AddOrder(ctx context.Context, id id.ID) error

	// AddOrderAmount adds to total_amount (called when a purchase
	// order is received).
	AddOrderAmount(ctx context.Context, id id.ID, amount types.Money) error

	// HardDelete physically removes a supplier without order history.
	HardDelete(ctx context.Context, id id.ID) error
}
