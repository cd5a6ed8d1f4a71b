package handlers

import (
	"github.com/gin-gonic/gin"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/domain/notifications"
)

// NotificationHandler serves inventory alert endpoints.
type NotificationHandler struct {
	BaseHandler
	svc *notifications.Service
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(svc *notifications.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// Generate handles POST /notifications/generate. Scans the catalog
// and creates alerts for stock and expiry conditions.
func (h *NotificationHandler) Generate(c *gin.Context) {
	created, err := h.svc.Generate(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"created": created})
}

// List handles GET /notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	f := notifications.ListFilter{
		UnreadOnly: c.Query("unreadOnly") == "true",
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}
	if raw := c.Query("type"); raw != "" {
		t := notifications.Type(raw)
		f.Type = &t
	}
	if raw := c.Query("priority"); raw != "" {
		p := notifications.Priority(raw)
		f.Priority = &p
	}

	items, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// MarkRead handles POST /notifications/:id/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), notificationID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "notification marked as read")
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.svc.MarkAllRead(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"updated": updated})
}

// Delete handles DELETE /notifications/:id.
func (h *NotificationHandler) Delete(c *gin.Context) {
	notificationID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), notificationID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ClearRead handles DELETE /notifications/read.
func (h *NotificationHandler) ClearRead(c *gin.Context) {
	deleted, err := h.svc.ClearRead(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"deleted": deleted})
}

// Summary handles GET /notifications/summary.
func (h *NotificationHandler) Summary(c *gin.Context) {
	summary, err := h.svc.GetSummary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, summary)
}

func (h *NotificationHandler) parseID(c *gin.Context) (id.ID, bool) {
	notificationID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return notificationID, true
}
