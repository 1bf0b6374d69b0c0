package api

import (
	"net/http"

	"campus-market/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listItems(c *gin.Context) {
	items, err := h.svc.Catalog.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	item, err := h.svc.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) listItemsByCategory(c *gin.Context) {
	items, err := h.svc.Catalog.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) searchItems(c *gin.Context) {
	items, err := h.svc.Catalog.Search(c.Request.Context(), c.Param("query"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) listSellerItems(c *gin.Context) {
	sellerID, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	items, err := h.svc.Catalog.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createItem(c *gin.Context) {
	var in models.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	item, err := h.svc.Catalog.Create(c.Request.Context(), actorFrom(c), &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"itemId": item.ID, "item": item})
}

func (h *Handler) updateItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var in models.ItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.respondError(c, badRequest(err))
		return
	}

	item, err := h.svc.Catalog.Update(c.Request.Context(), actorFrom(c), id, &in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

func (h *Handler) deleteItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.svc.Catalog.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
