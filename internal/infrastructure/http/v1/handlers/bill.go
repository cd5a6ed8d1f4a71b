package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/domain"
	"medistock/internal/domain/documents/bill"
	"medistock/internal/infrastructure/http/v1/dto"
)

// BillHandler serves the point-of-sale billing endpoints.
type BillHandler struct {
	BaseHandler
	svc *bill.Service
}

// NewBillHandler creates a bill handler.
func NewBillHandler(svc *bill.Service) *BillHandler {
	return &BillHandler{svc: svc}
}

// Create handles POST /bills. Stock is decremented atomically with
// the bill insert; insufficient stock fails the whole request.
func (h *BillHandler) Create(c *gin.Context) {
	var req dto.CreateBillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.svc.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromBill(doc))
}

// Get handles GET /bills/:id.
func (h *BillHandler) Get(c *gin.Context) {
	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	doc, err := h.svc.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBill(doc))
}

// GetByNumber handles GET /bills/by-number/:number.
func (h *BillHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.Error(c, apperror.NewValidation("bill number is required"))
		return
	}

	doc, err := h.svc.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBill(doc))
}

// List handles GET /bills.
func (h *BillHandler) List(c *gin.Context) {
	f := bill.ListFilter{ListFilter: domain.DefaultListFilter()}
	f.OrderBy = "-date"
	f.Search = c.Query("search")
	f.Limit = h.ParseIntQuery(c, "limit", f.Limit)
	f.Offset = h.ParseIntQuery(c, "offset", 0)

	if phone := c.Query("customerPhone"); phone != "" {
		f.CustomerPhone = &phone
	}
	if raw := c.Query("paymentMode"); raw != "" {
		mode := bill.PaymentMode(raw)
		f.PaymentMode = &mode
	}
	if from, ok := parseDateQuery(c, "dateFrom"); ok {
		f.DateFrom = from
	}
	if to, ok := parseDateQuery(c, "dateTo"); ok {
		f.DateTo = to
	}

	result, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, 0, len(result.Items))
	for _, doc := range result.Items {
		items = append(items, dto.FromBill(doc))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Delete handles DELETE /bills/:id. Sold stock is returned to inventory.
func (h *BillHandler) Delete(c *gin.Context) {
	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Stats handles GET /bills/stats?from=...&to=...
func (h *BillHandler) Stats(c *gin.Context) {
	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now

	if parsed, ok := parseDateQuery(c, "from"); ok {
		from = *parsed
	}
	if parsed, ok := parseDateQuery(c, "to"); ok {
		// Include the whole day named by "to".
		to = parsed.AddDate(0, 0, 1)
	}

	stats, err := h.svc.GetStats(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}

func (h *BillHandler) parseID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return docID, true
}
