// Package supplier provides the Supplier catalog.
package supplier

import (
	"context"
	"regexp"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Supplier represents a medicine supplier.
type Supplier struct {
	entity.Catalog

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is the primary contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Address is the supplier address
	Address *string `db:"address" json:"address,omitempty"`

	// Active marks whether the supplier can receive new purchase orders.
	// Suppliers with order history are deactivated instead of deleted.
	Active bool `db:"active" json:"active"`

	// Rating is an informal 0-5 score
	Rating int `db:"rating" json:"rating"`

	// TotalOrders counts received purchase orders
	TotalOrders int `db:"total_orders" json:"totalOrders"`

	// TotalAmount accumulates the totals of received purchase orders
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(code, name string) *Supplier {
	return &Supplier{
		Catalog:     entity.NewCatalog(code, name),
		Active:      true,
		TotalAmount: types.Zero(),
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.Email != nil && *s.Email != "" && !emailRE.MatchString(*s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if s.Rating < 0 || s.Rating > 5 {
		return apperror.NewValidation("rating must be between 0 and 5").
			WithDetail("field", "rating").
			WithDetail("value", s.Rating)
	}

	return nil
}
