package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kazen/backend/internal/domain"
	"github.com/kazen/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	lists      *usecase.ShoppingListService
	comparison *usecase.ComparisonService
	catalog    *usecase.CatalogService
	analytics  *usecase.AnalyticsService
	logger     *slog.Logger
}

// Services groups the use cases exposed over HTTP
type Services struct {
	Lists      *usecase.ShoppingListService
	Comparison *usecase.ComparisonService
	Catalog    *usecase.CatalogService
	Analytics  *usecase.AnalyticsService
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		lists:      services.Lists,
		comparison: services.Comparison,
		catalog:    services.Catalog,
		analytics:  services.Analytics,
		logger:     logger.With("component", "http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "kazen-backend",
		"version": "1.0.0",
	})
}

// --------------------------------------------------
// CATALOG (read side)
// --------------------------------------------------

// ListProducts handles GET /products?q=
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct handles GET /products/:id. The response carries the
// product's prices at every store and their range.
func (h *Handler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	product, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	prices, err := h.catalog.ProductPrices(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	priceRange, err := h.catalog.PriceRange(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":    product,
		"prices":     prices,
		"priceRange": priceRange,
	})
}

// ListStores handles GET /stores?q=
func (h *Handler) ListStores(c *gin.Context) {
	stores, err := h.catalog.ListStores(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// GetStore handles GET /stores/:id
func (h *Handler) GetStore(c *gin.Context) {
	store, err := h.catalog.GetStore(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

// GetPrices handles GET /prices
func (h *Handler) GetPrices(c *gin.Context) {
	table, err := h.catalog.PriceTable(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": table})
}

// --------------------------------------------------
// SHOPPING LISTS
// --------------------------------------------------

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetList handles GET /lists/:listId
func (h *Handler) GetList(c *gin.Context) {
	list, err := h.lists.Get(c.Request.Context(), c.Param("listId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddItem handles POST /lists/:listId/items
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	list, err := h.lists.Add(c.Request.Context(), c.Param("listId"), req.ProductID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateItem handles PATCH /lists/:listId/items/:productId. A quantity
// of zero or less removes the item.
func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	list, err := h.lists.UpdateQuantity(c.Request.Context(), c.Param("listId"), c.Param("productId"), *req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RemoveItem handles DELETE /lists/:listId/items/:productId
func (h *Handler) RemoveItem(c *gin.Context) {
	list, err := h.lists.Remove(c.Request.Context(), c.Param("listId"), c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ClearList handles DELETE /lists/:listId
func (h *Handler) ClearList(c *gin.Context) {
	if err := h.lists.Clear(c.Request.Context(), c.Param("listId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// COMPARISON
// --------------------------------------------------

type compareRequest struct {
	Items []domain.ItemRequest `json:"items" binding:"dive"`
}

// CompareList handles GET /lists/:listId/comparison
func (h *Handler) CompareList(c *gin.Context) {
	result, err := h.comparison.CompareList(c.Request.Context(), c.Param("listId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Quote handles GET /lists/:listId/quote?store=
func (h *Handler) Quote(c *gin.Context) {
	storeID := c.Query("store")
	if storeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store query parameter is required"})
		return
	}

	quote, err := h.comparison.Quote(c.Request.Context(), c.Param("listId"), storeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// CompareItems handles POST /compare for lists the server does not store
func (h *Handler) CompareItems(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.comparison.CompareItems(c.Request.Context(), req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps domain errors to status codes with a JSON body
func (h *Handler) respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": message})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrStoreNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrEmptyList):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limit exceeded"
	case errors.Is(err, domain.ErrPriceFeedFailure):
		return http.StatusBadGateway, "price feed temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
