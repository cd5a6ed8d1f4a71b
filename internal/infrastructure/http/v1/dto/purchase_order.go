package dto

import (
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain/documents/purchaseorder"
)

// --- Request DTOs ---

// PurchaseOrderItemRequest is one ordered item.
type PurchaseOrderItemRequest struct {
	MedicineID string      `json:"medicineId" binding:"required"`
	Quantity   int         `json:"quantity" binding:"required,min=1"`
	UnitCost   types.Money `json:"unitCost"`
}

// CreatePurchaseOrderRequest is the request body for creating an order.
type CreatePurchaseOrderRequest struct {
	SupplierID       string                     `json:"supplierId" binding:"required"`
	ExpectedDelivery *time.Time                 `json:"expectedDelivery"`
	Notes            *string                    `json:"notes"`
	Date             *time.Time                 `json:"date"`
	Items            []PurchaseOrderItemRequest `json:"items" binding:"required,min=1"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePurchaseOrderRequest) ToEntity() (*purchaseorder.PurchaseOrder, error) {
	supplierID, err := id.Parse(r.SupplierID)
	if err != nil {
		return nil, apperror.NewValidation("invalid supplier id").
			WithDetail("field", "supplierId")
	}

	// Supplier name is filled by the service from the catalog.
	p := purchaseorder.NewPurchaseOrder(supplierID, "")
	p.ExpectedDelivery = r.ExpectedDelivery
	p.Notes = r.Notes
	if r.Date != nil {
		p.Date = *r.Date
	}

	if err := applyOrderItems(p, r.Items); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePurchaseOrderRequest replaces the contents of a pending order.
type UpdatePurchaseOrderRequest struct {
	ExpectedDelivery *time.Time                 `json:"expectedDelivery"`
	Notes            *string                    `json:"notes"`
	Items            []PurchaseOrderItemRequest `json:"items" binding:"required,min=1"`
	Version          int                        `json:"version" binding:"required,min=1"`
}

// ToEntity builds the replacement document. Immutable fields are
// carried over by the service from the stored order.
func (r *UpdatePurchaseOrderRequest) ToEntity(orderID id.ID) (*purchaseorder.PurchaseOrder, error) {
	p := purchaseorder.NewPurchaseOrder(id.Nil(), "")
	p.ID = orderID
	p.ExpectedDelivery = r.ExpectedDelivery
	p.Notes = r.Notes
	p.Version = r.Version

	if err := applyOrderItems(p, r.Items); err != nil {
		return nil, err
	}
	return p, nil
}

func applyOrderItems(p *purchaseorder.PurchaseOrder, items []PurchaseOrderItemRequest) error {
	for i, item := range items {
		medicineID, err := id.Parse(item.MedicineID)
		if err != nil {
			return apperror.NewValidation("invalid medicine id").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		p.AddLine(medicineID, "", item.Quantity, item.UnitCost)
	}
	return nil
}

// ApprovePurchaseOrderRequest carries optional approval notes.
type ApprovePurchaseOrderRequest struct {
	Notes *string `json:"notes"`
}

// ReceiveItemRequest is the received quantity for one ordered medicine.
type ReceiveItemRequest struct {
	MedicineID       string     `json:"medicineId" binding:"required"`
	QuantityReceived int        `json:"quantityReceived" binding:"required,min=1"`
	BatchNumber      string     `json:"batchNumber" binding:"required"`
	ExpiryDate       *time.Time `json:"expiryDate"`
}

// ReceivePurchaseOrderRequest carries the receipt details.
type ReceivePurchaseOrderRequest struct {
	Items         []ReceiveItemRequest `json:"items" binding:"required,min=1"`
	PaymentStatus string               `json:"paymentStatus" binding:"required"`
}

// ToReceiveRequest converts the DTO to the domain receive request.
func (r *ReceivePurchaseOrderRequest) ToReceiveRequest() (purchaseorder.ReceiveRequest, error) {
	req := purchaseorder.ReceiveRequest{
		Items:         make([]purchaseorder.ReceiptItem, len(r.Items)),
		PaymentStatus: purchaseorder.PaymentStatus(r.PaymentStatus),
	}
	for i, item := range r.Items {
		medicineID, err := id.Parse(item.MedicineID)
		if err != nil {
			return req, apperror.NewValidation("invalid medicine id").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		req.Items[i] = purchaseorder.ReceiptItem{
			MedicineID:       medicineID,
			QuantityReceived: item.QuantityReceived,
			BatchNumber:      item.BatchNumber,
			ExpiryDate:       item.ExpiryDate,
		}
	}
	return req, nil
}

// CancelPurchaseOrderRequest carries the cancellation reason.
type CancelPurchaseOrderRequest struct {
	Reason *string `json:"reason" binding:"required"`
}

// --- Response DTOs ---

// PurchaseOrderLineResponse is one ordered item.
type PurchaseOrderLineResponse struct {
	LineNo           int         `json:"lineNo"`
	MedicineID       string      `json:"medicineId"`
	MedicineName     string      `json:"medicineName"`
	Quantity         int         `json:"quantity"`
	UnitCost         types.Money `json:"unitCost"`
	Total            types.Money `json:"total"`
	QuantityReceived int         `json:"quantityReceived"`
	BatchNumber      *string     `json:"batchNumber,omitempty"`
	ExpiryDate       *time.Time  `json:"expiryDate,omitempty"`
}

// PurchaseOrderResponse is the response body for a purchase order.
type PurchaseOrderResponse struct {
	ID               string                      `json:"id"`
	Number           string                      `json:"number"`
	Date             time.Time                   `json:"date"`
	SupplierID       string                      `json:"supplierId"`
	SupplierName     string                      `json:"supplierName"`
	Status           string                      `json:"status"`
	ExpectedDelivery *time.Time                  `json:"expectedDelivery,omitempty"`
	Notes            *string                     `json:"notes,omitempty"`
	ApprovedBy       *string                     `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time                  `json:"approvedAt,omitempty"`
	ApprovalNotes    *string                     `json:"approvalNotes,omitempty"`
	ReceivedBy       *string                     `json:"receivedBy,omitempty"`
	ReceivedAt       *time.Time                  `json:"receivedAt,omitempty"`
	PaymentStatus    *string                     `json:"paymentStatus,omitempty"`
	CancelledAt      *time.Time                  `json:"cancelledAt,omitempty"`
	CancellationReason *string                   `json:"cancellationReason,omitempty"`
	TotalAmount      types.Money                 `json:"totalAmount"`
	Items            []PurchaseOrderLineResponse `json:"items"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
	Version          int                         `json:"version"`
}

// FromPurchaseOrder creates response DTO from domain entity.
func FromPurchaseOrder(p *purchaseorder.PurchaseOrder) *PurchaseOrderResponse {
	resp := &PurchaseOrderResponse{
		ID:                 p.ID.String(),
		Number:             p.Number,
		Date:               p.Date,
		SupplierID:         p.SupplierID.String(),
		SupplierName:       p.SupplierName,
		Status:             string(p.Status),
		ExpectedDelivery:   p.ExpectedDelivery,
		Notes:              p.Notes,
		ApprovedBy:         p.ApprovedBy,
		ApprovedAt:         p.ApprovedAt,
		ApprovalNotes:      p.ApprovalNotes,
		ReceivedBy:         p.ReceivedBy,
		ReceivedAt:         p.ReceivedAt,
		CancelledAt:        p.CancelledAt,
		CancellationReason: p.CancellationReason,
		TotalAmount:        p.TotalAmount,
		Items:              make([]PurchaseOrderLineResponse, len(p.Lines)),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
		Version:            p.Version,
	}
	if p.PaymentStatus != nil {
		s := string(*p.PaymentStatus)
		resp.PaymentStatus = &s
	}
	for i, line := range p.Lines {
		resp.Items[i] = PurchaseOrderLineResponse{
			LineNo:           line.LineNo,
			MedicineID:       line.MedicineID.String(),
			MedicineName:     line.MedicineName,
			Quantity:         line.Quantity,
			UnitCost:         line.UnitCost,
			Total:            line.Total,
			QuantityReceived: line.QuantityReceived,
			BatchNumber:      line.BatchNumber,
			ExpiryDate:       line.ExpiryDate,
		}
	}
	return resp
}
