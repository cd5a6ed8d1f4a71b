package supplier

import (
	"context"
	"fmt"
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/core/tx"
	"medistock/internal/core/types"
	"medistock/internal/domain"
	"medistock/pkg/logger"
	"medistock/pkg/numerator"
)

// OrderCounter reports how many purchase orders reference a supplier.
// Implemented by the purchase order repository.
type OrderCounter interface {
	CountBySupplier(ctx context.Context, supplierID id.ID) (int, error)
}

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo      Repository
	orders    OrderCounter
	txManager tx.Manager
	numerator *numerator.Service
}

// NewService creates a new Supplier service.
func NewService(repo Repository, orders OrderCounter, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "supplier",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		orders:         orders,
		txManager:      txManager,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, sup *Supplier) error {
	if sup.Code == "" {
		cfg := numerator.DefaultConfig("SUP")
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		sup.Code = code
	}
	return nil
}

// Delete removes a supplier. A supplier with purchase order history is
// deactivated instead, so old orders keep a valid reference.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) (deactivated bool, err error) {
	if _, err := s.GetByID(ctx, supplierID); err != nil {
		return false, err
	}

	orderCount, err := s.orders.CountBySupplier(ctx, supplierID)
	if err != nil {
		return false, fmt.Errorf("count supplier orders: %w", err)
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if orderCount > 0 {
			deactivated = true
			return s.repo.SetActive(ctx, supplierID, false)
		}
		return s.repo.HardDelete(ctx, supplierID)
	})
	if err != nil {
		return false, err
	}

	logger.Info(ctx, "deleted supplier",
		"supplier_id", supplierID,
		"deactivated", deactivated,
		"order_count", orderCount,
	)

	return deactivated, nil
}

// Activate re-enables a deactivated supplier.
func (s *Service) Activate(ctx context.Context, supplierID id.ID) error {
	if _, err := s.GetByID(ctx, supplierID); err != nil {
		return err
	}
	return s.repo.SetActive(ctx, supplierID, true)
}

// RequireActive loads a supplier and fails when it cannot receive orders.
func (s *Service) RequireActive(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	sup, err := s.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !sup.Active {
		return nil, apperror.NewInvalidState("supplier is inactive").
			WithDetail("supplier_id", supplierID.String())
	}
	return sup, nil
}

// RecordOrderCreated bumps the supplier's order count when a purchase
// order is created. Called inside the create transaction.
func (s *Service) RecordOrderCreated(ctx context.Context, supplierID id.ID) error {
	if err := s.repo.AddOrder(ctx, supplierID); err != nil {
		return fmt.Errorf("record order created: %w", err)
	}
	return nil
}

// RecordReceivedOrder adds a received order's total to the supplier's
// running amount. Called inside the receive transaction.
func (s *Service) RecordReceivedOrder(ctx context.Context, supplierID id.ID, amount types.Money) error {
	if err := s.repo.AddOrderAmount(ctx, supplierID, amount); err != nil {
		return fmt.Errorf("record received order: %w", err)
	}
	return nil
}
