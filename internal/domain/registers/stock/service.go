// Package stock provides the stock accumulation register service.
package stock

import (
	"context"
	"fmt"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/pkg/logger"
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller; every mutating method assumes
// it runs inside one.
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// StockRequirement represents a stock check request.
type StockRequirement struct {
	MedicineID  id.ID
	RequiredQty int
}

// RecordMovements records stock movements from a document.
// Expense movements are checked against row-locked balances first, so a
// concurrent document competing for the same medicine blocks until this
// transaction commits and then sees the decremented balance.
func (s *Service) RecordMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if m.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
		}
		if id.IsNil(m.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: recorder_id is required", i))
		}
		if id.IsNil(m.MedicineID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: medicine_id is required", i))
		}
	}

	if err := s.checkExpenses(ctx, movements); err != nil {
		return err
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "recorded stock movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)

	return nil
}

// checkExpenses validates availability for expense movements with
// pessimistic locking. Requirements are aggregated per medicine so a
// document with two lines of the same medicine is checked once against
// the combined quantity.
func (s *Service) checkExpenses(ctx context.Context, movements []entity.StockMovement) error {
	required := make(map[id.ID]int)
	for _, m := range movements {
		if m.RecordType == entity.RecordTypeExpense {
			required[m.MedicineID] += m.Quantity
		}
	}

	for medicineID, qty := range required {
		balance, err := s.repo.GetBalanceForUpdate(ctx, medicineID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", medicineID, err)
		}

		if balance.Quantity < qty {
			return apperror.NewInsufficientStock(medicineID.String(), qty, balance.Quantity)
		}
	}

	return nil
}

// CheckStock validates stock availability with pessimistic locking
// without recording anything.
func (s *Service) CheckStock(ctx context.Context, items []StockRequirement) error {
	for _, item := range items {
		balance, err := s.repo.GetBalanceForUpdate(ctx, item.MedicineID)
		if err != nil {
			return fmt.Errorf("get balance for %s: %w", item.MedicineID, err)
		}

		if balance.Quantity < item.RequiredQty {
			return apperror.NewInsufficientStock(item.MedicineID.String(), item.RequiredQty, balance.Quantity)
		}
	}

	return nil
}

// ReverseMovements removes movements for a document and restores the
// balances they affected. Used when a bill is deleted.
func (s *Service) ReverseMovements(ctx context.Context, recorderID id.ID) error {
	if err := s.repo.DeleteMovementsByRecorder(ctx, recorderID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	logger.Info(ctx, "reversed stock movements", "recorder_id", recorderID)

	return nil
}

// GetAvailability returns the on-hand quantity for a medicine.
func (s *Service) GetAvailability(ctx context.Context, medicineID id.ID) (int, error) {
	balance, err := s.repo.GetBalance(ctx, medicineID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance.Quantity, nil
}

// GetMovementHistory returns the movement history for a medicine.
func (s *Service) GetMovementHistory(ctx context.Context, medicineID id.ID, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, medicineID, filter)
}

// GetMovementsByRecorder returns all movements recorded by a document.
func (s *Service) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	return s.repo.GetMovementsByRecorder(ctx, recorderID)
}

// GetTurnover calculates receipt/expense totals for the period.
func (s *Service) GetTurnover(ctx context.Context, filter TurnoverFilter) (Turnover, error) {
	return s.repo.GetTurnover(ctx, filter)
}
