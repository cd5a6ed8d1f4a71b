package medicine

import (
	"context"
	"fmt"
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/core/tx"
	"medistock/internal/domain"
	"medistock/internal/domain/registers/stock"
	"medistock/pkg/logger"
	"medistock/pkg/numerator"
)

// DefaultExpiryWindow is the lookahead used by the expiring-medicines list.
const DefaultExpiryWindow = 90 * 24 * time.Hour

// Service provides business logic for the Medicine catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Medicine]
	repo      Repository
	stock     *stock.Service
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new Medicine service.
func NewService(
	repo Repository,
	stockSvc *stock.Service,
	txManager tx.Manager,
	num *numerator.Service,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Medicine]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "medicine",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		stock:          stockSvc,
		txManager:      txManager,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

// prepareForCreate generates a code when none was provided.
func (s *Service) prepareForCreate(ctx context.Context, m *Medicine) error {
	if m.Code == "" {
		cfg := numerator.DefaultConfig("MED")
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		m.Code = code
	}
	return nil
}

// Create inserts a medicine. The initial quantity goes through the stock
// register so the ledger history starts at the opening balance instead
// of an untracked number.
func (s *Service) Create(ctx context.Context, m *Medicine) error {
	if err := m.Validate(ctx); err != nil {
		if apperror.IsAppError(err) {
			return err
		}
		return apperror.NewValidation(err.Error())
	}
	if m.Quantity < 0 {
		return apperror.NewValidation("quantity must not be negative").
			WithDetail("field", "quantity")
	}

	if err := s.Hooks().RunBeforeCreate(ctx, m); err != nil {
		return err
	}

	initialQty := m.Quantity
	m.Quantity = 0

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, m); err != nil {
			return fmt.Errorf("create medicine: %w", err)
		}
		if initialQty > 0 {
			movement := entity.NewStockMovement(
				m.ID, "StockAdjustment", time.Now().UTC(),
				entity.RecordTypeReceipt, m.ID, initialQty, "",
			)
			if err := s.stock.RecordMovements(ctx, []entity.StockMovement{movement}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.Quantity = initialQty
	return nil
}

// SetQuantity adjusts the on-hand quantity to the target value through
// the stock register, preserving movement history.
func (s *Service) SetQuantity(ctx context.Context, medicineID id.ID, quantity int) (*Medicine, error) {
	if quantity < 0 {
		return nil, apperror.NewValidation("quantity must not be negative").
			WithDetail("field", "quantity")
	}

	var updated *Medicine
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := s.repo.GetForUpdate(ctx, medicineID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("medicine", medicineID.String())
			}
			return err
		}

		delta := quantity - m.Quantity
		if delta != 0 {
			recordType := entity.RecordTypeReceipt
			if delta < 0 {
				recordType = entity.RecordTypeExpense
				delta = -delta
			}
			movement := entity.NewStockMovement(
				id.New(), "StockAdjustment", time.Now().UTC(),
				recordType, medicineID, delta, "",
			)
			if err := s.stock.RecordMovements(ctx, []entity.StockMovement{movement}); err != nil {
				return err
			}
		}

		m.Quantity = quantity
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "adjusted medicine stock",
		"medicine_id", medicineID,
		"quantity", quantity,
	)

	return updated, nil
}

// ListAll returns every non-deleted medicine.
func (s *Service) ListAll(ctx context.Context) ([]*Medicine, error) {
	return s.repo.ListAll(ctx)
}

// ListLowStock returns medicines at or below their minimum stock level.
func (s *Service) ListLowStock(ctx context.Context) ([]*Medicine, error) {
	return s.repo.ListLowStock(ctx)
}

// ListOutOfStock returns medicines with nothing on hand.
func (s *Service) ListOutOfStock(ctx context.Context) ([]*Medicine, error) {
	return s.repo.ListOutOfStock(ctx)
}

// ListExpiring returns medicines whose expiry date falls within the
// window. Zero window means the default 90 days.
func (s *Service) ListExpiring(ctx context.Context, window time.Duration) ([]*Medicine, error) {
	if window <= 0 {
		window = DefaultExpiryWindow
	}
	return s.repo.ListExpiring(ctx, time.Now().Add(window))
}

// ListCategories returns the distinct medicine categories.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

// UpdateBatch sets the current batch number and expiry date.
// Called from purchase order receipt inside the receive transaction.
func (s *Service) UpdateBatch(ctx context.Context, medicineID id.ID, batchNumber string, expiryDate *time.Time) error {
	return s.repo.UpdateBatch(ctx, medicineID, batchNumber, expiryDate)
}

// GetMovementHistory returns the stock ledger for one medicine.
func (s *Service) GetMovementHistory(ctx context.Context, medicineID id.ID, filter stock.MovementFilter) ([]entity.StockMovement, error) {
	if exists, err := s.repo.Exists(ctx, medicineID); err != nil {
		return nil, err
	} else if !exists {
		return nil, apperror.NewNotFound("medicine", medicineID.String())
	}
	return s.stock.GetMovementHistory(ctx, medicineID, filter)
}
