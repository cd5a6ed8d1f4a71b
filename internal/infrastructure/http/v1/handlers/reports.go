package handlers

import (
	"github.com/gin-gonic/gin"

	"medistock/internal/domain/reports"
)

// ReportsHandler serves aggregated sales, inventory and customer reports.
type ReportsHandler struct {
	BaseHandler
	svc *reports.Service
}

// NewReportsHandler creates a reports handler.
func NewReportsHandler(svc *reports.Service) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Sales handles GET /reports/sales?from=...&to=...
func (h *ReportsHandler) Sales(c *gin.Context) {
	var f reports.SalesReportFilter
	if from, ok := parseDateQuery(c, "from"); ok {
		f.FromDate = from
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		f.ToDate = to
	}

	report, err := h.svc.GetSalesReport(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Inventory handles GET /reports/inventory.
func (h *ReportsHandler) Inventory(c *gin.Context) {
	report, err := h.svc.GetInventoryReport(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// Customers handles GET /reports/customers?from=...&to=...&limit=N
func (h *ReportsHandler) Customers(c *gin.Context) {
	f := reports.CustomerReportFilter{
		Limit: h.ParseIntQuery(c, "limit", 0),
	}
	if from, ok := parseDateQuery(c, "from"); ok {
		f.FromDate = from
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		f.ToDate = to
	}

	report, err := h.svc.GetCustomerReport(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}
