package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/domain/catalogs/medicine"
	"medistock/internal/domain/registers/stock"
	"medistock/internal/infrastructure/http/v1/dto"
)

// MedicineHandler serves the medicine catalog endpoints.
// Standard CRUD comes from the embedded catalog handler; stock-aware
// operations are implemented on top of medicine.Service.
type MedicineHandler struct {
	*CatalogHandler[*medicine.Medicine, dto.CreateMedicineRequest, dto.UpdateMedicineRequest]
	svc *medicine.Service
}

// NewMedicineHandler creates a medicine handler.
func NewMedicineHandler(svc *medicine.Service) *MedicineHandler {
	base := NewCatalogHandler(CatalogHandlerConfig[*medicine.Medicine, dto.CreateMedicineRequest, dto.UpdateMedicineRequest]{
		Service:    svc.CatalogService,
		EntityName: "medicine",
		MapCreateDTO: func(req *dto.CreateMedicineRequest) (*medicine.Medicine, error) {
			return req.ToEntity(), nil
		},
		MapUpdateDTO: func(entityID id.ID, req *dto.UpdateMedicineRequest) (*medicine.Medicine, error) {
			m := medicine.NewMedicine(req.Code, req.Name, req.Category, req.Price)
			m.ID = entityID
			req.ApplyTo(m)
			return m, nil
		},
		MapToDTO: func(m *medicine.Medicine) any { return dto.FromMedicine(m) },
	})

	return &MedicineHandler{CatalogHandler: base, svc: svc}
}

// Create handles POST /medicines. Overrides the generic create so the
// opening balance is recorded through the stock register.
func (h *MedicineHandler) Create(c *gin.Context) {
	var req dto.CreateMedicineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m := req.ToEntity()
	if err := h.svc.Create(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromMedicine(m))
}

// SetQuantity handles PATCH /medicines/:id/quantity.
func (h *MedicineHandler) SetQuantity(c *gin.Context) {
	medicineID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.SetQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.svc.SetQuantity(c.Request.Context(), medicineID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromMedicine(m))
}

// ListLowStock handles GET /medicines/low-stock.
func (h *MedicineHandler) ListLowStock(c *gin.Context) {
	meds, err := h.svc.ListLowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMedicines(meds))
}

// ListOutOfStock handles GET /medicines/out-of-stock.
func (h *MedicineHandler) ListOutOfStock(c *gin.Context) {
	meds, err := h.svc.ListOutOfStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMedicines(meds))
}

// ListExpiring handles GET /medicines/expiring?days=N.
func (h *MedicineHandler) ListExpiring(c *gin.Context) {
	days := h.ParseIntQuery(c, "days", 0)
	if days < 0 {
		h.Error(c, apperror.NewValidation("days must not be negative"))
		return
	}

	window := time.Duration(days) * 24 * time.Hour
	meds, err := h.svc.ListExpiring(c.Request.Context(), window)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMedicines(meds))
}

// ListCategories handles GET /medicines/categories.
func (h *MedicineHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"categories": categories})
}

// GetMovements handles GET /medicines/:id/movements.
func (h *MedicineHandler) GetMovements(c *gin.Context) {
	medicineID, ok := h.parseID(c)
	if !ok {
		return
	}

	f := stock.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 50),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("recordType"); raw != "" {
		rt := entity.RecordType(raw)
		if rt != entity.RecordTypeReceipt && rt != entity.RecordTypeExpense {
			h.Error(c, apperror.NewValidation("recordType must be receipt or expense"))
			return
		}
		f.RecordType = &rt
	}
	if from, ok := parseDateQuery(c, "from"); ok {
		f.FromDate = from
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		f.ToDate = to
	}

	movements, err := h.svc.GetMovementHistory(c.Request.Context(), medicineID, f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"items": movements})
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
// Returns ok=false when the parameter is absent or malformed.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
