// Package customer provides the Customer catalog.
package customer

import (
	"context"
	"regexp"
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/types"
)

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRE = regexp.MustCompile(`^\+?[\d\s()-]{7,20}$`)
)

// Customer represents a pharmacy customer.
type Customer struct {
	entity.Catalog

	// Phone is the primary lookup key at the point of sale
	Phone string `db:"phone" json:"phone"`

	// Email is the contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Address is the billing address
	Address *string `db:"address" json:"address,omitempty"`

	// TotalPurchases accumulates the grand totals of the customer bills
	TotalPurchases types.Money `db:"total_purchases" json:"totalPurchases"`

	// LastPurchaseAt is when the most recent bill was created
	LastPurchaseAt *time.Time `db:"last_purchase_at" json:"lastPurchaseAt,omitempty"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name, phone string) *Customer {
	return &Customer{
		Catalog:        entity.NewCatalog(code, name),
		Phone:          phone,
		TotalPurchases: types.Zero(),
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Phone == "" {
		return apperror.NewValidation("phone is required").
			WithDetail("field", "phone")
	}
	if !phoneRE.MatchString(c.Phone) {
		return apperror.NewValidation("invalid phone format").
			WithDetail("field", "phone").
			WithDetail("value", c.Phone)
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}
