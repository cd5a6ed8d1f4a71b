package handlers

import (
	"github.com/gin-gonic/gin"

	"medistock/internal/domain/forecast"
)

// ForecastHandler serves demand prediction endpoints.
type ForecastHandler struct {
	BaseHandler
	svc *forecast.Service
}

// NewForecastHandler creates a forecast handler.
func NewForecastHandler(svc *forecast.Service) *ForecastHandler {
	return &ForecastHandler{svc: svc}
}

// Predict handles GET /forecast. Returns per-medicine demand
// predictions built from recent sales history.
func (h *ForecastHandler) Predict(c *gin.Context) {
	predictions, err := h.svc.Predict(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": predictions})
}
