package bill

import (
	"context"
	"fmt"
	"time"

	"medistock/internal/core/apperror"
	appctx "medistock/internal/core/context"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/core/tx"
	"medistock/internal/core/types"
	"medistock/internal/domain"
	"medistock/internal/domain/audit"
	"medistock/internal/domain/catalogs/customer"
	"medistock/internal/domain/catalogs/medicine"
	"medistock/internal/domain/registers/stock"
	"medistock/pkg/logger"
	"medistock/pkg/numerator"
)

// MedicineReader loads medicines for bill lines.
type MedicineReader interface {
	GetByID(ctx context.Context, medicineID id.ID) (*medicine.Medicine, error)
}

// CustomerLedger links bills to registered customers.
type CustomerLedger interface {
	FindByPhone(ctx context.Context, phone string) (*customer.Customer, error)
	RecordPurchase(ctx context.Context, customerID id.ID, amount types.Money, at time.Time) error
}

// Service provides business operations for bills.
type Service struct {
	repo      Repository
	stock     *stock.Service
	medicines MedicineReader
	customers CustomerLedger
	numerator *numerator.Service
	txManager tx.Manager
	audit     audit.Logger
}

// NewService creates a new bill service.
func NewService(
	repo Repository,
	stockSvc *stock.Service,
	medicines MedicineReader,
	customers CustomerLedger,
	num *numerator.Service,
	txManager tx.Manager,
	auditLog audit.Logger,
) *Service {
	if auditLog == nil {
		auditLog = audit.Nop{}
	}
	return &Service{
		repo:      repo,
		stock:     stockSvc,
		medicines: medicines,
		customers: customers,
		numerator: num,
		txManager: txManager,
		audit:     auditLog,
	}
}

// Create creates a bill and decrements stock in a single transaction.
// Prices and names come from the catalog, not from the caller.
// When stock is insufficient for any line, nothing is persisted.
func (s *Service) Create(ctx context.Context, doc *Bill) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.resolveLines(ctx, doc); err != nil {
			return err
		}
		doc.RecalculateTotals()

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		if err := s.linkCustomer(ctx, doc); err != nil {
			return err
		}

		if doc.Number == "" {
			cfg := numerator.DefaultConfig(NumeratorPrefix)
			number, err := s.numerator.GetNextNumber(ctx, cfg, &numerator.Options{Strategy: NumeratorStrategy}, doc.Date)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			doc.Number = number
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		movements := make([]entity.StockMovement, 0, len(doc.Lines))
		for _, line := range doc.Lines {
			movements = append(movements, entity.NewStockMovement(
				doc.ID, "Bill", doc.Date,
				entity.RecordTypeExpense, line.MedicineID, line.Quantity, "",
			))
		}
		if err := s.stock.RecordMovements(ctx, movements); err != nil {
			return err
		}

		if doc.CustomerID != nil {
			if err := s.customers.RecordPurchase(ctx, *doc.CustomerID, doc.GrandTotal, doc.Date); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, audit.NewEntry(audit.ActionCreate, "Bill", doc.ID.String()).
		WithUser(appctx.GetUserID(ctx)).
		WithDetail("number", doc.Number).
		WithDetail("grand_total", doc.GrandTotal.String()))

	logger.Info(ctx, "bill created",
		"id", doc.ID,
		"number", doc.Number,
		"grand_total", doc.GrandTotal,
	)
	return nil
}

// resolveLines loads catalog data for each line: current name and price.
func (s *Service) resolveLines(ctx context.Context, doc *Bill) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if id.IsNil(line.MedicineID) {
			return apperror.NewValidation("medicine is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}

		med, err := s.medicines.GetByID(ctx, line.MedicineID)
		if err != nil {
			return err
		}
		if med.DeletionMark {
			return apperror.NewInvalidState("medicine is deleted").
				WithDetail("medicine_id", med.ID.String())
		}

		line.MedicineName = med.Name
		line.Price = med.Price
	}
	return nil
}

// linkCustomer resolves the customer by phone when one is registered.
// Walk-in sales with an unknown phone are fine.
func (s *Service) linkCustomer(ctx context.Context, doc *Bill) error {
	if doc.CustomerID != nil || doc.CustomerPhone == nil || *doc.CustomerPhone == "" {
		return nil
	}

	c, err := s.customers.FindByPhone(ctx, *doc.CustomerPhone)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	doc.CustomerID = &c.ID
	return nil
}

// GetByID retrieves a bill with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Bill, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("bill", docID.String())
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// GetByNumber retrieves a bill by its document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Bill, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("bill", number)
		}
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Delete removes a bill and restores the stock it consumed.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.stock.ReverseMovements(ctx, docID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, audit.NewEntry(audit.ActionDelete, "Bill", docID.String()).
		WithUser(appctx.GetUserID(ctx)).
		WithDetail("number", doc.Number))

	logger.Info(ctx, "bill deleted, stock restored", "id", docID, "number", doc.Number)
	return nil
}

// List retrieves bills with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error) {
	return s.repo.List(ctx, filter)
}

// GetStats aggregates bills over a period.
func (s *Service) GetStats(ctx context.Context, from, to time.Time) (Stats, error) {
	return s.repo.GetStats(ctx, from, to)
}
