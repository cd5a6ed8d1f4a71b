package handlers

import (
	"github.com/gin-gonic/gin"

	"medistock/internal/core/id"
	"medistock/internal/domain/catalogs/supplier"
	"medistock/internal/infrastructure/http/v1/dto"
)

// SupplierHandler serves the supplier catalog endpoints.
// Delete is overridden: suppliers with received orders are
// deactivated instead of marked deleted.
type SupplierHandler struct {
	*CatalogHandler[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]
	svc *supplier.Service
}

// NewSupplierHandler creates a supplier handler.
func NewSupplierHandler(svc *supplier.Service) *SupplierHandler {
	base := NewCatalogHandler(CatalogHandlerConfig[*supplier.Supplier, dto.CreateSupplierRequest, dto.UpdateSupplierRequest]{
		Service:    svc.CatalogService,
		EntityName: "supplier",
		MapCreateDTO: func(req *dto.CreateSupplierRequest) (*supplier.Supplier, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(entityID id.ID, req *dto.UpdateSupplierRequest) (*supplier.Supplier, error) {
			s := supplier.NewSupplier(req.Code, req.Name)
			s.ID = entityID
			req.ApplyTo(s)
			return s, nil
		},
		MapToDTO: func(s *supplier.Supplier) any { return dto.FromSupplier(s) },
	})

	return &SupplierHandler{CatalogHandler: base, svc: svc}
}

// Delete handles DELETE /suppliers/:id.
func (h *SupplierHandler) Delete(c *gin.Context) {
	supplierID, ok := h.parseID(c)
	if !ok {
		return
	}

	deactivated, err := h.svc.Delete(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if deactivated {
		h.OK(c, dto.DeleteSupplierResponse{
			Deactivated: true,
			Message:     "supplier has received orders and was deactivated instead of deleted",
		})
		return
	}

	h.NoContent(c)
}

// Activate handles POST /suppliers/:id/activate.
func (h *SupplierHandler) Activate(c *gin.Context) {
	supplierID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Activate(c.Request.Context(), supplierID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "supplier activated")
}
