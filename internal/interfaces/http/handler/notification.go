package handler

import (
	"github.com/crm/backend/internal/application/crm"
	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the caller's notification feed
type NotificationHandler struct {
	notifications *crm.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications *crm.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := listFilter(c)
	if !ok {
		return
	}
	if c.Query("unread") == "true" {
		filter.Filters["unread"] = true
	}

	page, err := h.notifications.List(c.Request.Context(), p.CompanyID, p.UserID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page)
}

// MarkRead handles PATCH /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	notification, err := h.notifications.MarkRead(c.Request.Context(), p.CompanyID, p.UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, notification)
}
