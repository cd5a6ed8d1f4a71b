package handlers

import (
	"github.com/gin-gonic/gin"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/domain"
	"medistock/internal/domain/documents/purchaseorder"
	"medistock/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderHandler serves the purchase order endpoints,
// including the approve/receive/cancel lifecycle transitions.
type PurchaseOrderHandler struct {
	BaseHandler
	svc *purchaseorder.Service
}

// NewPurchaseOrderHandler creates a purchase order handler.
func NewPurchaseOrderHandler(svc *purchaseorder.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{svc: svc}
}

// Create handles POST /purchase-orders.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseOrderRequest
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

	h.Created(c, dto.FromPurchaseOrder(doc))
}

// Get handles GET /purchase-orders/:id.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	doc, err := h.svc.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// Update handles PUT /purchase-orders/:id. Only pending orders
// can be edited.
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity(docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.svc.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// List handles GET /purchase-orders.
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	f := purchaseorder.ListFilter{ListFilter: domain.DefaultListFilter()}
	f.OrderBy = "-date"
	f.Search = c.Query("search")
	f.Limit = h.ParseIntQuery(c, "limit", f.Limit)
	f.Offset = h.ParseIntQuery(c, "offset", 0)

	if raw := c.Query("supplierId"); raw != "" {
		supplierID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid supplierId format"))
			return
		}
		f.SupplierID = &supplierID
	}
	if raw := c.Query("status"); raw != "" {
		status := purchaseorder.Status(raw)
		f.Status = &status
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
		items = append(items, dto.FromPurchaseOrder(doc))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Approve handles POST /purchase-orders/:id/approve.
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ApprovePurchaseOrderRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.svc.Approve(c.Request.Context(), docID, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// Receive handles POST /purchase-orders/:id/receive. Received
// quantities are posted to the stock register.
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ReceivePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receiveReq, err := req.ToReceiveRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.svc.Receive(c.Request.Context(), docID, receiveReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// Cancel handles POST /purchase-orders/:id/cancel.
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.CancelPurchaseOrderRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.svc.Cancel(c.Request.Context(), docID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchaseOrder(doc))
}

// Delete handles DELETE /purchase-orders/:id. Only pending and
// cancelled orders can be removed.
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
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

// ListBySupplier handles GET /suppliers/:id/history. Returns the
// supplier's order history, newest first.
func (h *PurchaseOrderHandler) ListBySupplier(c *gin.Context) {
	supplierID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	f := purchaseorder.ListFilter{ListFilter: domain.DefaultListFilter()}
	f.OrderBy = "-date"
	f.Limit = h.ParseIntQuery(c, "limit", f.Limit)
	f.Offset = h.ParseIntQuery(c, "offset", 0)
	f.SupplierID = &supplierID

	result, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, 0, len(result.Items))
	for _, doc := range result.Items {
		items = append(items, dto.FromPurchaseOrder(doc))
	}

	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Stats handles GET /purchase-orders/stats.
func (h *PurchaseOrderHandler) Stats(c *gin.Context) {
	var f purchaseorder.StatsFilter

	if raw := c.Query("supplierId"); raw != "" {
		supplierID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid supplierId format"))
			return
		}
		f.SupplierID = &supplierID
	}
	if from, ok := parseDateQuery(c, "dateFrom"); ok {
		f.DateFrom = from
	}
	if to, ok := parseDateQuery(c, "dateTo"); ok {
		f.DateTo = to
	}

	stats, err := h.svc.GetStats(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}

func (h *PurchaseOrderHandler) parseID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return docID, true
}
