package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kazen/backend/internal/domain"
	"github.com/kazen/backend/internal/usecase"
)

// CreateProduct handles POST /admin/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var in usecase.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	var in usecase.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Categories handles GET /admin/categories
func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Brands handles GET /admin/brands
func (h *Handler) Brands(c *gin.Context) {
	brands, err := h.catalog.Brands(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

// CreateStore handles POST /admin/stores
func (h *Handler) CreateStore(c *gin.Context) {
	var in usecase.StoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	store, err := h.catalog.CreateStore(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, store)
}

// UpdateStore handles PUT /admin/stores/:id
func (h *Handler) UpdateStore(c *gin.Context) {
	var in usecase.StoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	store, err := h.catalog.UpdateStore(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, store)
}

// DeleteStore handles DELETE /admin/stores/:id
func (h *Handler) DeleteStore(c *gin.Context) {
	if err := h.catalog.DeleteStore(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProductPrices handles GET /admin/prices/:productId
func (h *Handler) GetProductPrices(c *gin.Context) {
	ctx := c.Request.Context()
	productID := c.Param("productId")

	if _, err := h.catalog.GetProduct(ctx, productID); err != nil {
		h.respondError(c, err)
		return
	}
	prices, err := h.catalog.ProductPrices(ctx, productID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "prices": prices})
}

// SetProductPrices handles PUT /admin/prices/:productId with a body
// keyed by store ID.
func (h *Handler) SetProductPrices(c *gin.Context) {
	var inputs map[string]domain.PriceInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	productID := c.Param("productId")
	stored, err := h.catalog.SetProductPrices(c.Request.Context(), productID, inputs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": productID, "prices": stored})
}

// ImportPrices handles POST /admin/prices/import
func (h *Handler) ImportPrices(c *gin.Context) {
	result, err := h.catalog.ImportPrices(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Analytics handles GET /admin/analytics
func (h *Handler) Analytics(c *gin.Context) {
	report, err := h.analytics.Report(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
