package medicine

import (
	"context"
	"time"

	"medistock/internal/core/id"
	"medistock/internal/domain"
)

// Repository defines the interface for Medicine persistence.
type Repository interface {
	domain.CatalogRepository[*Medicine]

	// GetForUpdate retrieves medicine with row lock (for transactional updates).
	GetForUpdate(ctx context.Context, id id.ID) (*Medicine, error)

	// ListAll returns every non-deleted medicine (inventory scans).
	ListAll(ctx context.Context) ([]*Medicine, error)

	// ListLowStock returns medicines with 0 < quantity <= min_stock_level.
	ListLowStock(ctx context.Context) ([]*Medicine, error)

	// ListOutOfStock returns medicines with quantity = 0.
	ListOutOfStock(ctx context.Context) ([]*Medicine, error)

	// ListExpiring returns medicines expiring before the given date
	// (expired ones included).
	ListExpiring(ctx context.Context, before time.Time) ([]*Medicine, error)

	// ListCategories returns distinct category names.
	ListCategories(ctx context.Context) ([]string, error)

	// UpdateBatch sets the current batch number and expiry date
	// (called on purchase order receipt).
	UpdateBatch(ctx context.Context, id id.ID, batchNumber string, expiryDate *time.Time) error
}
