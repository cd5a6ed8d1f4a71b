// Package purchaseorder provides the PurchaseOrder document and its
// lifecycle: Pending -> Approved -> Received, with cancellation allowed
// before receipt.
package purchaseorder

import (
	"context"
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/core/types"
)

// Status is the lifecycle state of a purchase order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus of a received order.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// PurchaseOrder represents an order placed with a supplier.
type PurchaseOrder struct {
	entity.Document

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// SupplierName denormalized at creation time
	SupplierName string `db:"supplier_name" json:"supplierName"`

	Status Status `db:"status" json:"status"`

	// ExpectedDelivery is the requested delivery date
	ExpectedDelivery *time.Time `db:"expected_delivery" json:"expectedDelivery,omitempty"`

	// Notes is a free-form order comment
	Notes *string `db:"notes" json:"notes,omitempty"`

	// Approval trail
	ApprovedBy    *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	ApprovalNotes *string    `db:"approval_notes" json:"approvalNotes,omitempty"`

	// Receipt trail
	ReceivedBy    *string        `db:"received_by" json:"receivedBy,omitempty"`
	ReceivedAt    *time.Time     `db:"received_at" json:"receivedAt,omitempty"`
	PaymentStatus *PaymentStatus `db:"payment_status" json:"paymentStatus,omitempty"`

	// Cancellation trail
	CancelledAt        *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellationReason,omitempty"`

	// TotalAmount calculated from lines
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: ordered items
	Lines []Line `db:"-" json:"items"`
}

// Line represents an ordered item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	MedicineID id.ID `db:"medicine_id" json:"medicineId"`

	// MedicineName denormalized at creation time
	MedicineName string `db:"medicine_name" json:"medicineName"`

	Quantity int         `db:"quantity" json:"quantity"`
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`
	Total    types.Money `db:"total" json:"total"`

	// Receipt details, filled when the order is received
	QuantityReceived int        `db:"quantity_received" json:"quantityReceived"`
	BatchNumber      *string    `db:"batch_number" json:"batchNumber,omitempty"`
	ExpiryDate       *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`
}

// NewPurchaseOrder creates a pending order for a supplier.
func NewPurchaseOrder(supplierID id.ID, supplierName string) *PurchaseOrder {
	return &PurchaseOrder{
		Document:     entity.NewDocument(),
		SupplierID:   supplierID,
		SupplierName: supplierName,
		Status:       StatusPending,
		TotalAmount:  types.Zero(),
		Lines:        make([]Line, 0),
	}
}

// AddLine adds an ordered item and recalculates the total.
func (p *PurchaseOrder) AddLine(medicineID id.ID, medicineName string, quantity int, unitCost types.Money) {
	line := Line{
		LineID:       id.New(),
		LineNo:       len(p.Lines) + 1,
		MedicineID:   medicineID,
		MedicineName: medicineName,
		Quantity:     quantity,
		UnitCost:     unitCost,
		Total:        types.Round2(unitCost.Mul(types.NewMoneyFromInt(int64(quantity)))),
	}

	p.Lines = append(p.Lines, line)
	p.RecalculateTotal()
}

// RecalculateTotal recomputes line totals and the order total.
func (p *PurchaseOrder) RecalculateTotal() {
	total := types.Zero()
	for i := range p.Lines {
		line := &p.Lines[i]
		line.Total = types.Round2(line.UnitCost.Mul(types.NewMoneyFromInt(int64(line.Quantity))))
		total = total.Add(line.Total)
	}
	p.TotalAmount = types.Round2(total)
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if !isValidStatus(p.Status) {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(p.Status))
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, line := range p.Lines {
		if id.IsNil(line.MedicineID) {
			return apperror.NewValidation("medicine is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if !line.UnitCost.IsPositive() {
			return apperror.NewValidation("unit cost must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// --- State machine ---

// CanApprove reports whether the order may move to Approved.
func (p *PurchaseOrder) CanApprove() error {
	return p.requireStatus("approve", StatusPending)
}

// CanReceive reports whether the order may move to Received.
func (p *PurchaseOrder) CanReceive() error {
	return p.requireStatus("receive", StatusApproved)
}

// CanCancel reports whether the order may be cancelled.
// Received orders already changed stock and cannot be cancelled.
func (p *PurchaseOrder) CanCancel() error {
	return p.requireStatus("cancel", StatusPending, StatusApproved)
}

// CanModify reports whether the order contents may still change.
func (p *PurchaseOrder) CanModify() error {
	return p.requireStatus("modify", StatusPending)
}

// CanDelete reports whether the order may be removed entirely.
func (p *PurchaseOrder) CanDelete() error {
	return p.requireStatus("delete", StatusPending, StatusCancelled)
}

func (p *PurchaseOrder) requireStatus(verb string, allowed ...Status) error {
	for _, s := range allowed {
		if p.Status == s {
			return nil
		}
	}
	return apperror.NewInvalidState("cannot "+verb+" purchase order in status "+string(p.Status)).
		WithDetail("order_id", p.ID.String()).
		WithDetail("status", string(p.Status))
}

// MarkApproved records the approval and moves the order forward.
func (p *PurchaseOrder) MarkApproved(approvedBy string, notes *string) {
	now := time.Now().UTC()
	p.Status = StatusApproved
	p.ApprovedBy = &approvedBy
	p.ApprovedAt = &now
	p.ApprovalNotes = notes
	p.Touch()
}

// MarkReceived records the receipt.
func (p *PurchaseOrder) MarkReceived(receivedBy string, paymentStatus PaymentStatus) {
	now := time.Now().UTC()
	p.Status = StatusReceived
	p.ReceivedBy = &receivedBy
	p.ReceivedAt = &now
	p.PaymentStatus = &paymentStatus
	p.Touch()
}

// MarkCancelled records the cancellation.
func (p *PurchaseOrder) MarkCancelled(reason *string) {
	now := time.Now().UTC()
	p.Status = StatusCancelled
	p.CancelledAt = &now
	p.CancellationReason = reason
	p.Touch()
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// IsValidPaymentStatus checks a payment status value.
func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}
