package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/domain/registers/stock"
)

// StockHandler exposes the stock register: balances, movement
// history and turnover.
type StockHandler struct {
	BaseHandler
	svc *stock.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(svc *stock.Service) *StockHandler {
	return &StockHandler{svc: svc}
}

// GetAvailability handles GET /stock/:medicineId/availability.
func (h *StockHandler) GetAvailability(c *gin.Context) {
	medicineID, ok := h.parseMedicineID(c)
	if !ok {
		return
	}

	qty, err := h.svc.GetAvailability(c.Request.Context(), medicineID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"medicineId": medicineID.String(), "quantity": qty})
}

// GetMovements handles GET /stock/:medicineId/movements.
func (h *StockHandler) GetMovements(c *gin.Context) {
	medicineID, ok := h.parseMedicineID(c)
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

// GetTurnover handles GET /stock/:medicineId/turnover?from=...&to=...
func (h *StockHandler) GetTurnover(c *gin.Context) {
	medicineID, ok := h.parseMedicineID(c)
	if !ok {
		return
	}

	now := time.Now().UTC()
	f := stock.TurnoverFilter{
		MedicineID: &medicineID,
		FromDate:   now.AddDate(0, -1, 0),
		ToDate:     now,
	}
	if from, ok := parseDateQuery(c, "from"); ok {
		f.FromDate = *from
	}
	if to, ok := parseDateQuery(c, "to"); ok {
		f.ToDate = to.AddDate(0, 0, 1)
	}

	turnover, err := h.svc.GetTurnover(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, turnover)
}

func (h *StockHandler) parseMedicineID(c *gin.Context) (id.ID, bool) {
	medicineID, err := id.Parse(c.Param("medicineId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid medicine id format"))
		return id.Nil(), false
	}
	return medicineID, true
}
