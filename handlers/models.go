package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aimodels/inventory-api/internal/catalog"
	"github.com/aimodels/inventory-api/internal/purchases"
	"github.com/aimodels/inventory-api/pkg/metrics"
	"github.com/aimodels/inventory-api/pkg/middleware"
)

// ModelHandler exposes the model catalog and the purchase action on a listing.
type ModelHandler struct {
	catalog   *catalog.Service
	purchases *purchases.Service
}

func NewModelHandler(cat *catalog.Service, pur *purchases.Service) *ModelHandler {
	return &ModelHandler{catalog: cat, purchases: pur}
}

// Register mounts the model routes. auth guards the private ones.
func (h *ModelHandler) Register(r gin.IRouter, auth gin.HandlerFunc) {
	g := r.Group("/api/models")
	g.POST("", auth, h.create)
	g.GET("", h.list)
	g.GET("/latest", h.latest)
	g.GET("/mine", auth, h.mine)
	g.GET("/:id", h.get)
	g.PUT("/:id", auth, h.update)
	g.DELETE("/:id", auth, h.delete)
	g.POST("/:id/purchase", auth, h.purchase)
}

// bindBody decodes an optional JSON body. A missing body is fine: the
// zero-value input falls through to service validation, which names the
// first missing field.
func bindBody(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return false
	}
	return true
}

func (h *ModelHandler) create(c *gin.Context) {
	var in catalog.CreateInput
	if !bindBody(c, &in) {
		return
	}
	m, err := h.catalog.Create(c.Request.Context(), middleware.Subject(c), in)
	if err != nil {
		fail(c, err, "Failed to create model")
		return
	}
	metrics.ModelsCreated.Inc()
	c.JSON(http.StatusCreated, m)
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (h *ModelHandler) list(c *gin.Context) {
	f := catalog.ListFilter{
		Query: c.Query("q"),
		Page:  intQuery(c, "page", 1),
		Limit: intQuery(c, "limit", 0), // 0 = service default
	}
	if fw := c.Query("frameworks"); fw != "" {
		f.Frameworks = strings.Split(fw, ",")
	}

	res, err := h.catalog.List(c.Request.Context(), f)
	if err != nil {
		fail(c, err, "Failed to fetch models")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ModelHandler) latest(c *gin.Context) {
	items, err := h.catalog.Latest(c.Request.Context())
	if err != nil {
		fail(c, err, "Failed to fetch latest models")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ModelHandler) mine(c *gin.Context) {
	items, err := h.catalog.Mine(c.Request.Context(), middleware.Subject(c))
	if err != nil {
		fail(c, err, "Failed to fetch my models")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ModelHandler) get(c *gin.Context) {
	m, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to fetch model")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *ModelHandler) update(c *gin.Context) {
	var in catalog.UpdateInput
	if !bindBody(c, &in) {
		return
	}
	m, err := h.catalog.Update(c.Request.Context(), middleware.Subject(c), c.Param("id"), in)
	if err != nil {
		fail(c, err, "Failed to update model")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *ModelHandler) delete(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), middleware.Subject(c), c.Param("id")); err != nil {
		fail(c, err, "Failed to delete model")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ModelHandler) purchase(c *gin.Context) {
	m, err := h.purchases.Purchase(c.Request.Context(), middleware.Subject(c), c.Param("id"))
	if err != nil {
		fail(c, err, "Failed to purchase model")
		return
	}
	metrics.PurchasesTotal.Inc()
	c.JSON(http.StatusOK, m)
}
