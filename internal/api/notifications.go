package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listNotifications(c *gin.Context) {
	h.notifications(c, false)
}

func (h *Handler) listUnreadNotifications(c *gin.Context) {
	h.notifications(c, true)
}

func (h *Handler) notifications(c *gin.Context, unreadOnly bool) {
	list, err := h.svc.Notifications.List(c.Request.Context(), actorFrom(c).UserID, unreadOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.Notifications.MarkRead(c.Request.Context(), actorFrom(c).UserID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	n, err := h.svc.Notifications.MarkAllRead(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read", "updated": n})
}

func (h *Handler) deleteNotification(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.Notifications.Delete(c.Request.Context(), actorFrom(c).UserID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
