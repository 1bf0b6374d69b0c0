package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ItemID   int64 `json:"itemId" binding:"required"`
	Quantity int   `json:"quantity"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.svc.Cart.View(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// addToCart increments the line for itemId; a missing quantity means one
func (h *Handler) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	cart, err := h.svc.Cart.AddItem(c.Request.Context(), actorFrom(c).UserID, req.ItemID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	itemID, err := pathID(c, "itemId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req cartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	cart, err := h.svc.Cart.SetQuantity(c.Request.Context(), actorFrom(c).UserID, itemID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	itemID, err := pathID(c, "itemId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	cart, err := h.svc.Cart.RemoveItem(c.Request.Context(), actorFrom(c).UserID, itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) clearCart(c *gin.Context) {
	if err := h.svc.Cart.Clear(c.Request.Context(), actorFrom(c).UserID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}
