package dto

import (
	"time"

	"medistock/internal/core/types"
	"medistock/internal/domain/catalogs/medicine"
)

// --- Request DTOs ---

// CreateMedicineRequest is the request body for creating a medicine.
type CreateMedicineRequest struct {
	Code          string       `json:"code"`
	Name          string       `json:"name" binding:"required"`
	Category      string       `json:"category" binding:"required"`
	Manufacturer  *string      `json:"manufacturer"`
	Description   *string      `json:"description"`
	Price         types.Money  `json:"price"`
	GSTRate       *types.Money `json:"gstRate"`
	Quantity      int          `json:"quantity"`
	MinStockLevel *int         `json:"minStockLevel"`
	ExpiryDate    *time.Time   `json:"expiryDate"`
	BatchNumber   *string      `json:"batchNumber"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateMedicineRequest) ToEntity() *medicine.Medicine {
	m := medicine.NewMedicine(r.Code, r.Name, r.Category, r.Price)
	m.Manufacturer = r.Manufacturer
	m.Description = r.Description
	m.GSTRate = r.GSTRate
	m.Quantity = r.Quantity
	if r.MinStockLevel != nil {
		m.MinStockLevel = *r.MinStockLevel
	}
	m.ExpiryDate = r.ExpiryDate
	m.BatchNumber = r.BatchNumber
	return m
}

// UpdateMedicineRequest is the request body for updating a medicine.
// Quantity is absent on purpose: stock changes go through the register.
type UpdateMedicineRequest struct {
	Code          string       `json:"code"`
	Name          string       `json:"name" binding:"required"`
	Category      string       `json:"category" binding:"required"`
	Manufacturer  *string      `json:"manufacturer"`
	Description   *string      `json:"description"`
	Price         types.Money  `json:"price"`
	GSTRate       *types.Money `json:"gstRate"`
	MinStockLevel int          `json:"minStockLevel"`
	ExpiryDate    *time.Time   `json:"expiryDate"`
	BatchNumber   *string      `json:"batchNumber"`
	Version       int          `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateMedicineRequest) ApplyTo(m *medicine.Medicine) {
	if r.Code != "" {
		m.Code = r.Code
	}
	m.Name = r.Name
	m.Category = r.Category
	m.Manufacturer = r.Manufacturer
	m.Description = r.Description
	m.Price = r.Price
	m.GSTRate = r.GSTRate
	m.MinStockLevel = r.MinStockLevel
	m.ExpiryDate = r.ExpiryDate
	m.BatchNumber = r.BatchNumber
	m.Version = r.Version
}

// SetQuantityRequest adjusts the on-hand quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// --- Response DTOs ---

// MedicineResponse is the response body for a medicine.
type MedicineResponse struct {
	ID            string      `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Category      string      `json:"category"`
	Manufacturer  *string     `json:"manufacturer,omitempty"`
	Description   *string     `json:"description,omitempty"`
	Price         types.Money `json:"price"`
	GSTRate       types.Money `json:"gstRate"`
	Quantity      int         `json:"quantity"`
	MinStockLevel int         `json:"minStockLevel"`
	ExpiryDate    *time.Time  `json:"expiryDate,omitempty"`
	BatchNumber   *string     `json:"batchNumber,omitempty"`
	LowStock      bool        `json:"lowStock"`
	OutOfStock    bool        `json:"outOfStock"`
	DeletionMark  bool        `json:"deletionMark"`
	Version       int         `json:"version"`
}

// FromMedicine creates response DTO from domain entity.
func FromMedicine(m *medicine.Medicine) *MedicineResponse {
	return &MedicineResponse{
		ID:            m.ID.String(),
		Code:          m.Code,
		Name:          m.Name,
		Category:      m.Category,
		Manufacturer:  m.Manufacturer,
		Description:   m.Description,
		Price:         m.Price,
		GSTRate:       m.EffectiveGSTRate(),
		Quantity:      m.Quantity,
		MinStockLevel: m.MinStockLevel,
		ExpiryDate:    m.ExpiryDate,
		BatchNumber:   m.BatchNumber,
		LowStock:      m.IsLowStock(),
		OutOfStock:    m.IsOutOfStock(),
		DeletionMark:  m.DeletionMark,
		Version:       m.Version,
	}
}

// FromMedicines maps a slice of medicines.
func FromMedicines(meds []*medicine.Medicine) []*MedicineResponse {
	out := make([]*MedicineResponse, len(meds))
	for i, m := range meds {
		out[i] = FromMedicine(m)
	}
	return out
}
