package dto

import (
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain/documents/bill"
)

// --- Request DTOs ---

// BillItemRequest is one sold item. Prices are resolved from the
// catalog server-side.
type BillItemRequest struct {
	MedicineID string `json:"medicineId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

// CreateBillRequest is the request body for creating a bill.
type CreateBillRequest struct {
	CustomerName   string            `json:"customerName" binding:"required"`
	CustomerPhone  *string           `json:"customerPhone"`
	CustomerGSTIN  *string           `json:"customerGstin"`
	BillingAddress *string           `json:"billingAddress"`
	PaymentMode    string            `json:"paymentMode" binding:"required"`
	GSTPercentage  *types.Money      `json:"gstPercentage"`
	Date           *time.Time        `json:"date"`
	Items          []BillItemRequest `json:"items" binding:"required,min=1"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateBillRequest) ToEntity() (*bill.Bill, error) {
	b := bill.NewBill(r.CustomerName, bill.PaymentMode(r.PaymentMode))
	b.CustomerPhone = r.CustomerPhone
	b.CustomerGSTIN = r.CustomerGSTIN
	b.BillingAddress = r.BillingAddress
	if r.GSTPercentage != nil {
		b.GSTPercentage = *r.GSTPercentage
	}
	if r.Date != nil {
		b.Date = *r.Date
	}

	for i, item := range r.Items {
		medicineID, err := id.Parse(item.MedicineID)
		if err != nil {
			return nil, apperror.NewValidation("invalid medicine id").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		// Name and price are filled by the service from the catalog.
		b.AddLine(medicineID, "", item.Quantity, types.Zero())
	}

	return b, nil
}

// --- Response DTOs ---

// BillLineResponse is one sold item on the bill.
type BillLineResponse struct {
	LineNo       int         `json:"lineNo"`
	MedicineID   string      `json:"medicineId"`
	MedicineName string      `json:"medicineName"`
	Quantity     int         `json:"quantity"`
	Price        types.Money `json:"price"`
	Total        types.Money `json:"total"`
}

// BillResponse is the response body for a bill.
type BillResponse struct {
	ID             string             `json:"id"`
	Number         string             `json:"number"`
	Date           time.Time          `json:"date"`
	CustomerID     *string            `json:"customerId,omitempty"`
	CustomerName   string             `json:"customerName"`
	CustomerPhone  *string            `json:"customerPhone,omitempty"`
	CustomerGSTIN  *string            `json:"customerGstin,omitempty"`
	BillingAddress *string            `json:"billingAddress,omitempty"`
	PaymentMode    string             `json:"paymentMode"`
	GSTPercentage  types.Money        `json:"gstPercentage"`
	Subtotal       types.Money        `json:"subtotal"`
	GSTAmount      types.Money        `json:"gstAmount"`
	GrandTotal     types.Money        `json:"grandTotal"`
	Items          []BillLineResponse `json:"items"`
	CreatedAt      time.Time          `json:"createdAt"`
	Version        int                `json:"version"`
}

// FromBill creates response DTO from domain entity.
func FromBill(b *bill.Bill) *BillResponse {
	resp := &BillResponse{
		ID:             b.ID.String(),
		Number:         b.Number,
		Date:           b.Date,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		CustomerGSTIN:  b.CustomerGSTIN,
		BillingAddress: b.BillingAddress,
		PaymentMode:    string(b.PaymentMode),
		GSTPercentage:  b.GSTPercentage,
		Subtotal:       b.Subtotal,
		GSTAmount:      b.GSTAmount,
		GrandTotal:     b.GrandTotal,
		Items:          make([]BillLineResponse, len(b.Lines)),
		CreatedAt:      b.CreatedAt,
		Version:        b.Version,
	}
	if b.CustomerID != nil {
		s := b.CustomerID.String()
		resp.CustomerID = &s
	}
	for i, line := range b.Lines {
		resp.Items[i] = BillLineResponse{
			LineNo:       line.LineNo,
			MedicineID:   line.MedicineID.String(),
			MedicineName: line.MedicineName,
			Quantity:     line.Quantity,
			Price:        line.Price,
			Total:        line.Total,
		}
	}
	return resp
}
