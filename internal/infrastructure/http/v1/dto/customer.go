package dto

import (
	"time"

	"medistock/internal/core/types"
	"medistock/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Code, r.Name, r.Phone)
	c.Email = r.Email
	c.Address = r.Address
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Code    string  `json:"code"`
	Name    string  `json:"name" binding:"required"`
	Phone   string  `json:"phone" binding:"required"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Version int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	if r.Code != "" {
		c.Code = r.Code
	}
	c.Name = r.Name
	c.Phone = r.Phone
	c.Email = r.Email
	c.Address = r.Address
	c.Version = r.Version
}

// --- Response DTOs ---

// CustomerResponse is the response body for a customer.
type CustomerResponse struct {
	ID             string      `json:"id"`
	Code           string      `json:"code"`
	Name           string      `json:"name"`
	Phone          string      `json:"phone"`
	Email          *string     `json:"email,omitempty"`
	Address        *string     `json:"address,omitempty"`
	TotalPurchases types.Money `json:"totalPurchases"`
	LastPurchaseAt *time.Time  `json:"lastPurchaseAt,omitempty"`
	DeletionMark   bool        `json:"deletionMark"`
	Version        int         `json:"version"`
}

// FromCustomer creates response DTO from domain entity.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:             c.ID.String(),
		Code:           c.Code,
		Name:           c.Name,
		Phone:          c.Phone,
		Email:          c.Email,
		Address:        c.Address,
		TotalPurchases: c.TotalPurchases,
		LastPurchaseAt: c.LastPurchaseAt,
		DeletionMark:   c.DeletionMark,
		Version:        c.Version,
	}
}
