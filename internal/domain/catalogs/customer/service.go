package customer

import (
	"context"
	"fmt"
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/core/tx"
	"medistock/internal/core/types"
	"medistock/internal/domain"
	"medistock/pkg/numerator"
)

// Service provides business logic for the Customer catalog.
type Service struct {
	*domain.CatalogService[*Customer]
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Customer service.
func NewService(repo Repository, txManager tx.Manager, num *numerator.Service) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "customer",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      num,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkPhoneUnique)

	return svc
}

// prepareForCreate handles code generation and phone uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, c *Customer) error {
	if c.Code == "" {
		cfg := numerator.DefaultConfig("CUST")
		code, err := s.numerator.GetNextNumber(ctx, cfg, nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}

	return s.checkPhoneUnique(ctx, c)
}

func (s *Service) checkPhoneUnique(ctx context.Context, c *Customer) error {
	existing, err := s.repo.FindByPhone(ctx, c.Phone)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != c.ID {
		return apperror.NewConflict("customer with this phone already exists").
			WithDetail("phone", c.Phone)
	}
	return nil
}

// FindByPhone retrieves a customer by phone number.
func (s *Service) FindByPhone(ctx context.Context, phone string) (*Customer, error) {
	c, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("customer", phone)
		}
		return nil, err
	}
	return c, nil
}

// RecordPurchase adds a bill amount to the customer running totals.
// Called from bill creation inside the bill transaction.
func (s *Service) RecordPurchase(ctx context.Context, customerID id.ID, amount types.Money, at time.Time) error {
	if err := s.repo.AddPurchase(ctx, customerID, amount, at); err != nil {
		return fmt.Errorf("record purchase: %w", err)
	}
	return nil
}
