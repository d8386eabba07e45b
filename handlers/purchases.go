package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aimodels/inventory-api/internal/purchases"
	"github.com/aimodels/inventory-api/pkg/middleware"
)

// PurchaseHandler exposes the purchase ledger queries. Both routes are
// private; by-model does not require owning the listing.
type PurchaseHandler struct {
	purchases *purchases.Service
}

func NewPurchaseHandler(pur *purchases.Service) *PurchaseHandler {
	return &PurchaseHandler{purchases: pur}
}

func (h *PurchaseHandler) Register(r gin.IRouter, auth gin.HandlerFunc) {
	g := r.Group("/api/purchases")
	g.GET("/mine", auth, h.mine)
	g.GET("/by-model/:id", auth, h.byModel)
}

func (h *PurchaseHandler) mine(c *gin.Context) {
	rows, err := h.purchases.Mine(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		fail(c, err, "Failed to fetch purchases")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *PurchaseHandler) byModel(c *gin.Context) {
	rows, err := h.purchases.ByModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to fetch purchases for model")
		return
	}
	c.JSON(http.StatusOK, rows)
}
