package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/middleware"
	"github.com/guttosm/packing-list-service/internal/service"
)

const entityProduct = "product"

// ProductHandler serves the product catalog.
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes mounts the product routes on rg.
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/products")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/variants", h.AddVariant)
	g.DELETE("/:id/variants/:variantId", h.RemoveVariant)
	g.PUT("/:id/variants/:variantId/default", h.SetDefaultVariant)
}

// List handles GET /api/products.
//
// @Summary      List products
// @Tags         Products
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size (max 100)" default(10)
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.products.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(page)
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product
// @Tags         Products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(p)
}

// Create handles POST /api/products.
//
// @Summary      Create a product
// @Description  Variant ids are generated when missing. Exactly one variant ends up as default.
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.ProductRequest true "Product"
// @Success      201 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse "Validation messages in details"
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.products.Create(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionProductCreated, p, "Product created")
	NewResponseBuilder(c).SuccessCreated(p)
}

// Update handles PUT /api/products/:id.
//
// @Summary      Replace a product
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Product ID"
// @Param        request body dto.ProductRequest true "Product"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.products.Update(c.Request.Context(), c.Param("id"), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionProductUpdated, p, "Product updated")
	NewResponseBuilder(c).SuccessOK(p)
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         Products
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.AuditEvent{
		Action:     model.ActionProductDeleted,
		EntityType: entityProduct,
		EntityID:   id,
		Message:    "Product deleted",
	})
	NewResponseBuilder(c).NoContent()
}

// AddVariant handles POST /api/products/:id/variants.
//
// @Summary      Add a packaging variant
// @Tags         Products
// @Accept       json
// @Produce      json
// @Param        id      path string             true "Product ID"
// @Param        request body dto.VariantRequest true "Variant"
// @Success      201 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /api/products/{id}/variants [post]
func (h *ProductHandler) AddVariant(c *gin.Context) {
	var req dto.VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.products.AddVariant(c.Request.Context(), c.Param("id"), req.ToModel())
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionProductUpdated, p, "Variant added")
	NewResponseBuilder(c).SuccessCreated(p)
}

// RemoveVariant handles DELETE /api/products/:id/variants/:variantId.
//
// @Summary      Remove a packaging variant
// @Tags         Products
// @Produce      json
// @Param        id        path string true "Product ID"
// @Param        variantId path string true "Variant ID"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse "Last variant cannot be removed"
// @Router       /api/products/{id}/variants/{variantId} [delete]
func (h *ProductHandler) RemoveVariant(c *gin.Context) {
	p, err := h.products.RemoveVariant(c.Request.Context(), c.Param("id"), c.Param("variantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionProductUpdated, p, "Variant removed")
	NewResponseBuilder(c).SuccessOK(p)
}

// SetDefaultVariant handles PUT /api/products/:id/variants/:variantId/default.
//
// @Summary      Make a variant the default
// @Tags         Products
// @Produce      json
// @Param        id        path string true "Product ID"
// @Param        variantId path string true "Variant ID"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/products/{id}/variants/{variantId}/default [put]
func (h *ProductHandler) SetDefaultVariant(c *gin.Context) {
	p, err := h.products.SetDefaultVariant(c.Request.Context(), c.Param("id"), c.Param("variantId"))
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionProductUpdated, p, "Default variant changed")
	NewResponseBuilder(c).SuccessOK(p)
}

func (h *ProductHandler) audit(c *gin.Context, action string, p *model.Product, msg string) {
	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.AuditEvent{
		Action:     action,
		EntityType: entityProduct,
		EntityID:   p.ID,
		Message:    msg,
		Fields:     map[string]interface{}{"variants": len(p.Variants)},
	})
}
