package dto

import (
	"medistock/internal/core/types"
	"medistock/internal/domain/catalogs/supplier"
)

// --- Request DTOs ---

// CreateSupplierRequest is the request body for creating a supplier.
type CreateSupplierRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contactPerson"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	Rating        int     `json:"rating"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.Rating = r.Rating
	return s
}

// UpdateSupplierRequest is the request body for updating a supplier.
type UpdateSupplierRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contactPerson"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	Rating        int     `json:"rating"`
	Version       int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Code != "" {
		s.Code = r.Code
	}
	s.Name = r.Name
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.Rating = r.Rating
	s.Version = r.Version
}

// --- Response DTOs ---

// SupplierResponse is the response body for a supplier.
type SupplierResponse struct {
	ID            string      `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	ContactPerson *string     `json:"contactPerson,omitempty"`
	Phone         *string     `json:"phone,omitempty"`
	Email         *string     `json:"email,omitempty"`
	Address       *string     `json:"address,omitempty"`
	Active        bool        `json:"active"`
	Rating        int         `json:"rating"`
	TotalOrders   int         `json:"totalOrders"`
	TotalAmount   types.Money `json:"totalAmount"`
	DeletionMark  bool        `json:"deletionMark"`
	Version       int         `json:"version"`
}

// FromSupplier creates response DTO from domain entity.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:            s.ID.String(),
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Active:        s.Active,
		Rating:        s.Rating,
		TotalOrders:   s.TotalOrders,
		TotalAmount:   s.TotalAmount,
		DeletionMark:  s.DeletionMark,
		Version:       s.Version,
	}
}

// DeleteSupplierResponse reports whether the supplier was removed or
// only deactivated.
type DeleteSupplierResponse struct {
	Deactivated bool   `json:"deactivated"`
	Message     string `json:"message"`
}
