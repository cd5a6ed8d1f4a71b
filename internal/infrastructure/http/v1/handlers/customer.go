package handlers

import (
	"github.com/gin-gonic/gin"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/domain/catalogs/customer"
	"medistock/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves the customer catalog endpoints.
type CustomerHandler struct {
	*CatalogHandler[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]
	svc *customer.Service
}

// NewCustomerHandler creates a customer handler.
func NewCustomerHandler(svc *customer.Service) *CustomerHandler {
	base := NewCatalogHandler(CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
		Service:    svc.CatalogService,
		EntityName: "customer",
		MapCreateDTO: func(req *dto.CreateCustomerRequest) (*customer.Customer, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(entityID id.ID, req *dto.UpdateCustomerRequest) (*customer.Customer, error) {
			c := customer.NewCustomer(req.Code, req.Name, req.Phone)
			c.ID = entityID
			req.ApplyTo(c)
			return c, nil
		},
		MapToDTO: func(c *customer.Customer) any { return dto.FromCustomer(c) },
	})

	return &CustomerHandler{CatalogHandler: base, svc: svc}
}

// GetByPhone handles GET /customers/by-phone?phone=...
func (h *CustomerHandler) GetByPhone(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		h.Error(c, apperror.NewValidation("phone parameter is required"))
		return
	}

	cust, err := h.svc.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCustomer(cust))
}
