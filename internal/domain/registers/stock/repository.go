// Package stock provides the stock accumulation register.
package stock

import (
	"context"
	"time"

	"medistock/internal/core/entity"
	"medistock/internal/core/id"
)

// Repository defines operations for the stock register.
type Repository interface {
	// Movement operations

	// CreateMovements batch inserts movements and applies them to balances
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// DeleteMovementsByRecorder removes all movements for a document and
	// rolls their effect back out of the balances
	DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error

	// GetMovementsByRecorder retrieves all movements for a document
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)

	// Balance operations

	// GetBalance returns the current balance for a medicine
	GetBalance(ctx context.Context, medicineID id.ID) (entity.StockBalance, error)

	// GetBalanceForUpdate returns the balance with a row lock for stock control
	GetBalanceForUpdate(ctx context.Context, medicineID id.ID) (entity.StockBalance, error)

	// Reporting

	// GetMovementHistory returns movement history for a medicine
	GetMovementHistory(ctx context.Context, medicineID id.ID, filter MovementFilter) ([]entity.StockMovement, error)

	// GetTurnover calculates receipt and expense totals for a period
	GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error)

	// Maintenance

	// RecalculateBalance rebuilds a medicine balance from its movements
	RecalculateBalance(ctx context.Context, medicineID id.ID) error
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	RecordType *entity.RecordType
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// TurnoverFilter for turnover reports.
type TurnoverFilter struct {
	MedicineID *id.ID
	FromDate   time.Time
	ToDate     time.Time
}

// Turnover represents receipt/expense totals.
type Turnover struct {
	MedicineID     id.ID `json:"medicineId,omitempty"`
	OpeningBalance int   `json:"openingBalance"`
	Receipt        int   `json:"receipt"`
	Expense        int   `json:"expense"`
	ClosingBalance int   `json:"closingBalance"`
}
