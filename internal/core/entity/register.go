package entity

import (
	"time"

	"medistock/internal/core/id"
)

// RecordType defines movement direction for the stock register.
type RecordType string

const (
	// RecordTypeReceipt increases stock (PO receipt, bill reversal, adjustment up)
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases stock (sale, adjustment down)
	RecordTypeExpense RecordType = "expense"
)

// StockMovement represents a row in the stock register.
// Movements are immutable: they are never updated, only deleted and
// recreated when the recording document is reversed.
type StockMovement struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g. "Bill", "PurchaseOrder")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// Period is the business date for the movement
	Period time.Time `db:"period" json:"period"`

	// RecordType: receipt or expense
	RecordType RecordType `db:"record_type" json:"recordType"`

	// MedicineID is the stock dimension
	MedicineID id.ID `db:"medicine_id" json:"medicineId"`

	// Quantity is always positive; direction comes from RecordType
	Quantity int `db:"quantity" json:"quantity"`

	// BatchNumber records the supplier batch for receipts
	BatchNumber string `db:"batch_number" json:"batchNumber,omitempty"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a new stock movement.
func NewStockMovement(
	recorderID id.ID,
	recorderType string,
	period time.Time,
	recordType RecordType,
	medicineID id.ID,
	quantity int,
	batchNumber string,
) StockMovement {
	return StockMovement{
		LineID:       id.New(),
		RecorderID:   recorderID,
		RecorderType: recorderType,
		Period:       period,
		RecordType:   recordType,
		MedicineID:   medicineID,
		Quantity:     quantity,
		BatchNumber:  batchNumber,
		CreatedAt:    time.Now().UTC(),
	}
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m *StockMovement) SignedQuantity() int {
	if m.RecordType == RecordTypeExpense {
		return -m.Quantity
	}
	return m.Quantity
}

// StockBalance represents the current on-hand quantity for a medicine.
type StockBalance struct {
	MedicineID id.ID `db:"medicine_id" json:"medicineId"`
	Quantity   int   `db:"quantity" json:"quantity"`

	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
