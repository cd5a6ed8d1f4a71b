package purchaseorder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"medistock/internal/core/apperror"
	appctx "medistock/internal/core/context"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/core/tx"
	"medistock/internal/core/types"
	"medistock/internal/domain"
	"medistock/internal/domain/audit"
	"medistock/internal/domain/catalogs/medicine"
	"medistock/internal/domain/catalogs/supplier"
	"medistock/internal/domain/registers/stock"
	"medistock/pkg/logger"
	"medistock/pkg/numerator"
)

// SupplierGateway is the slice of the supplier service the orders need.
type SupplierGateway interface {
	RequireActive(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error)
	RecordOrderCreated(ctx context.Context, supplierID id.ID) error
	RecordReceivedOrder(ctx context.Context, supplierID id.ID, amount types.Money) error
}

// MedicineGateway is the slice of the medicine service the orders need.
type MedicineGateway interface {
	GetByID(ctx context.Context, medicineID id.ID) (*medicine.Medicine, error)
	UpdateBatch(ctx context.Context, medicineID id.ID, batchNumber string, expiryDate *time.Time) error
}

// ReceiptItem describes the received quantity for one ordered medicine.
type ReceiptItem struct {
	MedicineID       id.ID      `json:"medicineId"`
	QuantityReceived int        `json:"quantityReceived"`
	BatchNumber      string     `json:"batchNumber"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty"`
}

// ReceiveRequest carries the receipt details.
type ReceiveRequest struct {
	Items         []ReceiptItem `json:"items"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

// Service provides business operations for purchase orders.
type Service struct {
	repo      Repository
	stock     *stock.Service
	suppliers SupplierGateway
	medicines MedicineGateway
	numerator *numerator.Service
	txManager tx.Manager
	audit     audit.Logger
}

// NewService creates a new purchase order service.
func NewService(
	repo Repository,
	stockSvc *stock.Service,
	suppliers SupplierGateway,
	medicines MedicineGateway,
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
		suppliers: suppliers,
		medicines: medicines,
		numerator: num,
		txManager: txManager,
		audit:     auditLog,
	}
}

// Create creates a pending order against an active supplier.
// Medicine names are denormalized from the catalog; unit costs come
// from the caller since purchase prices differ from selling prices.
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder) error {
	sup, err := s.suppliers.RequireActive(ctx, doc.SupplierID)
	if err != nil {
		return err
	}
	doc.SupplierName = sup.Name
	doc.Status = StatusPending

	if err := s.resolveLines(ctx, doc); err != nil {
		return err
	}
	doc.RecalculateTotal()

	if err := doc.Validate(ctx); err != nil {
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

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return s.suppliers.RecordOrderCreated(ctx, doc.SupplierID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, audit.NewEntry(audit.ActionCreate, "PurchaseOrder", doc.ID.String()).
		WithUser(appctx.GetUserID(ctx)).
		WithDetail("number", doc.Number).
		WithDetail("supplier_id", doc.SupplierID.String()))

	logger.Info(ctx, "purchase order created", "id", doc.ID, "number", doc.Number)
	return nil
}

func (s *Service) resolveLines(ctx context.Context, doc *PurchaseOrder) error {
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
		line.MedicineName = med.Name
	}
	return nil
}

// GetByID retrieves an order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase order", docID.String())
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

// Update replaces the contents of a pending order.
func (s *Service) Update(ctx context.Context, doc *PurchaseOrder) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx, doc.ID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("purchase order", doc.ID.String())
			}
			return err
		}
		if err := current.CanModify(); err != nil {
			return err
		}

		// Immutable fields carry over from the stored document.
		doc.Number = current.Number
		doc.Status = current.Status
		doc.SupplierID = current.SupplierID
		doc.SupplierName = current.SupplierName
		doc.Version = current.Version

		if err := s.resolveLines(ctx, doc); err != nil {
			return err
		}
		doc.RecalculateTotal()

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Approve moves a pending order to Approved.
func (s *Service) Approve(ctx context.Context, docID id.ID, notes *string) (*PurchaseOrder, error) {
	var doc *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lockOrder(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CanApprove(); err != nil {
			return err
		}

		doc.MarkApproved(appctx.GetUserID(ctx), notes)
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEntry(audit.ActionApprove, "PurchaseOrder", docID.String()).
		WithUser(appctx.GetUserID(ctx)).
		WithDetail("number", doc.Number))

	logger.Info(ctx, "purchase order approved", "id", docID, "number", doc.Number)
	return doc, nil
}

// Receive moves an approved order to Received: stock goes up by the
// received quantities, medicine batches are refreshed and the supplier
// running totals grow. Everything happens in one transaction.
func (s *Service) Receive(ctx context.Context, docID id.ID, req ReceiveRequest) (*PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, apperror.NewValidation("at least one received item is required").
			WithDetail("field", "items")
	}
	if !IsValidPaymentStatus(req.PaymentStatus) {
		return nil, apperror.NewValidation("invalid payment status").
			WithDetail("field", "paymentStatus").
			WithDetail("value", string(req.PaymentStatus))
	}

	var doc *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lockOrder(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CanReceive(); err != nil {
			return err
		}

		if err := s.applyReceipt(ctx, doc, req); err != nil {
			return err
		}

		if err := s.suppliers.RecordReceivedOrder(ctx, doc.SupplierID, doc.TotalAmount); err != nil {
			return err
		}

		doc.MarkReceived(appctx.GetUserID(ctx), req.PaymentStatus)

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		return s.repo.SaveLines(ctx, doc.ID, doc.Lines)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEntry(audit.ActionReceive, "PurchaseOrder", docID.String()).
		WithUser(appctx.GetUserID(ctx)).
		WithDetail("number", doc.Number).
		WithDetail("payment_status", string(req.PaymentStatus)))

	logger.Info(ctx, "purchase order received", "id", docID, "number", doc.Number)
	return doc, nil
}

// applyReceipt matches receipt items to order lines and records the
// stock receipts.
func (s *Service) applyReceipt(ctx context.Context, doc *PurchaseOrder, req ReceiveRequest) error {
	byMedicine := make(map[id.ID]*Line, len(doc.Lines))
	for i := range doc.Lines {
		byMedicine[doc.Lines[i].MedicineID] = &doc.Lines[i]
	}

	movements := make([]entity.StockMovement, 0, len(req.Items))
	for i, item := range req.Items {
		line, ok := byMedicine[item.MedicineID]
		if !ok {
			return apperror.NewValidation("received medicine is not on the order").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("medicine_id", item.MedicineID.String())
		}
		if item.QuantityReceived <= 0 {
			return apperror.NewValidation("received quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.BatchNumber == "" {
			return apperror.NewValidation("batch number is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}

		line.QuantityReceived = item.QuantityReceived
		line.BatchNumber = &item.BatchNumber
		line.ExpiryDate = item.ExpiryDate

		movements = append(movements, entity.NewStockMovement(
			doc.ID, "PurchaseOrder", time.Now().UTC(),
			entity.RecordTypeReceipt, item.MedicineID, item.QuantityReceived, item.BatchNumber,
		))

		if err := s.medicines.UpdateBatch(ctx, item.MedicineID, item.BatchNumber, item.ExpiryDate); err != nil {
			return fmt.Errorf("update medicine batch: %w", err)
		}
	}

	return s.stock.RecordMovements(ctx, movements)
}

// Cancel cancels a pending or approved order. A reason is required.
func (s *Service) Cancel(ctx context.Context, docID id.ID, reason *string) (*PurchaseOrder, error) {
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return nil, apperror.NewValidation("cancellation reason is required").
			WithDetail("field", "reason")
	}

	var doc *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.lockOrder(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CanCancel(); err != nil {
			return err
		}

		doc.MarkCancelled(reason)
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.NewEntry(audit.ActionCancel, "PurchaseOrder", docID.String()).
		WithUser(appctx.GetUserID(ctx)).
		WithDetail("number", doc.Number))

	logger.Info(ctx, "purchase order cancelled", "id", docID, "number", doc.Number)
	return doc, nil
}

// Delete removes an order that never affected stock.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.lockOrder(ctx, docID)
		if err != nil {
			return err
		}
		if err := doc.CanDelete(); err != nil {
			return err
		}
		return s.repo.Delete(ctx, docID)
	})
}

func (s *Service) lockOrder(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("purchase order", docID.String())
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

// List retrieves orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}

// GetStats aggregates purchase orders.
func (s *Service) GetStats(ctx context.Context, filter StatsFilter) (Stats, error) {
	return s.repo.GetStats(ctx, filter)
}

// CountBySupplier reports orders referencing a supplier.
func (s *Service) CountBySupplier(ctx context.Context, supplierID id.ID) (int, error) {
	return s.repo.CountBySupplier(ctx, supplierID)
}
