package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// createOrder places an order from the caller's cart. A repeated
// Idempotency-Key header returns the original order.
func (h *Handler) createOrder(c *gin.Context) {
	order, err := h.svc.Orders.PlaceOrder(c.Request.Context(), actorFrom(c).UserID, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderId": order.ID, "order": order})
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListBuyerOrders(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	order, err := h.svc.Orders.GetOrder(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) listSellerOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListSellerOrders(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	order, err := h.svc.Orders.UpdateStatus(c.Request.Context(), actorFrom(c), id, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
}

func (h *Handler) sellerStats(c *gin.Context) {
	stats, err := h.svc.Stats.Get(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
