package bill

import (
	"context"
	"time"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain"
)

// Repository defines operations for bill documents.
type Repository interface {
	Create(ctx context.Context, doc *Bill) error
	GetByID(ctx context.Context, docID id.ID) (*Bill, error)
	GetByNumber(ctx context.Context, number string) (*Bill, error)
	Delete(ctx context.Context, docID id.ID) error

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error)

	GetStats(ctx context.Context, from, to time.Time) (Stats, error)
}

// ListFilter for filtering bills.
type ListFilter struct {
	domain.ListFilter

	CustomerPhone *string
	PaymentMode   *PaymentMode
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Stats aggregates bills over a period.
type Stats struct {
	BillCount    int64       `json:"billCount"`
	TotalRevenue types.Money `json:"totalRevenue"`
	TotalGST     types.Money `json:"totalGst"`
	AverageBill  types.Money `json:"averageBill"`

	// ByPaymentMode breaks revenue down by payment mode
	ByPaymentMode map[PaymentMode]types.Money `json:"byPaymentMode"`
}
