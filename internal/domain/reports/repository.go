package reports

import (
	"context"
	"time"
)

// Repository defines report data access.
type Repository interface {
	GetSalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error)
	GetInventoryReport(ctx context.Context, asOf time.Time) (*InventoryReport, error)
	GetCustomerReport(ctx context.Context, from, to time.Time, limit int) (*CustomerReport, error)
}
