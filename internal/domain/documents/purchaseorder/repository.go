package purchaseorder

import (
	"context"
	"time"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain"
)

// Repository defines operations for purchase order documents.
type Repository interface {
	Create(ctx context.Context, doc *PurchaseOrder) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error)
	Update(ctx context.Context, doc *PurchaseOrder) error
	Delete(ctx context.Context, docID id.ID) error

	// GetForUpdate locks the order row for a state transition.
	GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error)

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error)

	// CountBySupplier reports orders referencing a supplier
	// (any status; drives supplier soft-delete).
	CountBySupplier(ctx context.Context, supplierID id.ID) (int, error)

	GetStats(ctx context.Context, filter StatsFilter) (Stats, error)
}

// ListFilter for filtering purchase orders.
type ListFilter struct {
	domain.ListFilter

	SupplierID *id.ID
	Status     *Status
	DateFrom   *time.Time
	DateTo     *time.Time
}

// StatsFilter scopes order statistics.
type StatsFilter struct {
	SupplierID *id.ID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// StatusStats aggregates orders in one status.
type StatusStats struct {
	Count  int64       `json:"count"`
	Amount types.Money `json:"amount"`
}

// Stats aggregates purchase orders.
type Stats struct {
	TotalOrders int64                  `json:"totalOrders"`
	TotalAmount types.Money            `json:"totalAmount"`
	ByStatus    map[Status]StatusStats `json:"byStatus"`
}
