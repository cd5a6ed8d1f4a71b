// Package bill provides the Bill document: a point-of-sale invoice that
// decrements stock atomically when created.
package bill

import (
	"context"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/core/types"
)

// PaymentMode defines how the bill was paid.
type PaymentMode string

const (
	PaymentCash PaymentMode = "cash"
	PaymentCard PaymentMode = "card"
	PaymentUPI  PaymentMode = "upi"
)

// DefaultGSTPercentage is applied when a bill carries no explicit rate.
var DefaultGSTPercentage = types.MustMoney("18")

// Bill represents a point-of-sale invoice.
type Bill struct {
	entity.Document

	// CustomerID links a registered customer when the sale was looked up
	// by phone; walk-in sales keep it nil
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	// CustomerName as printed on the bill
	CustomerName string `db:"customer_name" json:"customerName"`

	// CustomerPhone for customer lookup and purchase history
	CustomerPhone *string `db:"customer_phone" json:"customerPhone,omitempty"`

	// CustomerGSTIN is the customer GST identification number
	CustomerGSTIN *string `db:"customer_gstin" json:"customerGstin,omitempty"`

	// BillingAddress as printed on the bill
	BillingAddress *string `db:"billing_address" json:"billingAddress,omitempty"`

	// PaymentMode: cash, card or upi
	PaymentMode PaymentMode `db:"payment_mode" json:"paymentMode"`

	// GSTPercentage applied to the subtotal
	GSTPercentage types.Money `db:"gst_percentage" json:"gstPercentage"`

	// Totals (calculated from lines)
	Subtotal   types.Money `db:"subtotal" json:"subtotal"`
	GSTAmount  types.Money `db:"gst_amount" json:"gstAmount"`
	GrandTotal types.Money `db:"grand_total" json:"grandTotal"`

	// Table part: sold items
	Lines []Line `db:"-" json:"items"`
}

// Line represents a sold item on the bill.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	MedicineID id.ID `db:"medicine_id" json:"medicineId"`

	// MedicineName denormalized at sale time; the bill stays readable
	// even after the catalog entry changes
	MedicineName string `db:"medicine_name" json:"medicineName"`

	Quantity int         `db:"quantity" json:"quantity"`
	Price    types.Money `db:"price" json:"price"`
	Total    types.Money `db:"total" json:"total"`
}

// NewBill creates a new bill document.
func NewBill(customerName string, paymentMode PaymentMode) *Bill {
	return &Bill{
		Document:      entity.NewDocument(),
		CustomerName:  customerName,
		PaymentMode:   paymentMode,
		GSTPercentage: DefaultGSTPercentage,
		Subtotal:      types.Zero(),
		GSTAmount:     types.Zero(),
		GrandTotal:    types.Zero(),
		Lines:         make([]Line, 0),
	}
}

// AddLine adds a sold item and recalculates totals.
func (b *Bill) AddLine(medicineID id.ID, medicineName string, quantity int, price types.Money) {
	line := Line{
		LineID:       id.New(),
		LineNo:       len(b.Lines) + 1,
		MedicineID:   medicineID,
		MedicineName: medicineName,
		Quantity:     quantity,
		Price:        price,
		Total:        types.Round2(price.Mul(types.NewMoneyFromInt(int64(quantity)))),
	}

	b.Lines = append(b.Lines, line)
	b.RecalculateTotals()
}

// RecalculateTotals recomputes line totals and document totals.
// Rounding happens at boundaries only: each line total, the subtotal,
// the GST amount and the grand total are rounded to 2 decimals.
func (b *Bill) RecalculateTotals() {
	subtotal := types.Zero()

	for i := range b.Lines {
		line := &b.Lines[i]
		line.Total = types.Round2(line.Price.Mul(types.NewMoneyFromInt(int64(line.Quantity))))
		subtotal = subtotal.Add(line.Total)
	}

	b.Subtotal = types.Round2(subtotal)
	b.GSTAmount = types.Percent(b.Subtotal, b.GSTPercentage)
	b.GrandTotal = types.Round2(b.Subtotal.Add(b.GSTAmount))
}

// Validate implements entity.Validatable.
func (b *Bill) Validate(ctx context.Context) error {
	if err := b.Document.Validate(ctx); err != nil {
		return err
	}

	if b.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}

	if !isValidPaymentMode(b.PaymentMode) {
		return apperror.NewValidation("invalid payment mode").
			WithDetail("field", "paymentMode").
			WithDetail("value", string(b.PaymentMode))
	}

	if b.GSTPercentage.IsNegative() || b.GSTPercentage.GreaterThan(types.MustMoney("100")) {
		return apperror.NewValidation("gst percentage must be between 0 and 100").
			WithDetail("field", "gstPercentage")
	}

	if len(b.Lines) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, line := range b.Lines {
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
		if line.Price.IsNegative() {
			return apperror.NewValidation("price must not be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

func isValidPaymentMode(m PaymentMode) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI:
		return true
	}
	return false
}
