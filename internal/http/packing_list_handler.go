package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/middleware"
	"github.com/guttosm/packing-list-service/internal/service"
)

const entityPackingList = "packing_list"

// PackingListHandler serves packing lists, their packages and exports.
type PackingListHandler struct {
	lists service.PackingListService
}

// NewPackingListHandler creates a PackingListHandler.
func NewPackingListHandler(lists service.PackingListService) *PackingListHandler {
	return &PackingListHandler{lists: lists}
}

// RegisterRoutes mounts the packing list routes on rg.
func (h *PackingListHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/packing-lists")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/preview", h.Preview)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/status", h.SetStatus)
	g.POST("/:id/packages", h.AddPackage)
	g.PUT("/:id/packages/:packageId", h.UpdatePackage)
	g.DELETE("/:id/packages/:packageId", h.RemovePackage)
	g.GET("/:id/next-package-number", h.NextPackageNumber)
	g.GET("/:id/totals", h.Totals)
	g.GET("/:id/validation", h.Validation)
	g.GET("/:id/export", h.ExportLayout)
	g.GET("/:id/export.pdf", h.ExportPDF)
}

// List handles GET /api/packing-lists.
//
// @Summary      List packing lists
// @Description  Newest lists first.
// @Tags         Packing Lists
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size (max 100)" default(10)
// @Success      200 {object} dto.SuccessResponse
// @Router       /api/packing-lists [get]
func (h *PackingListHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.lists.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(page)
}

// Get handles GET /api/packing-lists/:id.
//
// @Summary      Get a packing list
// @Tags         Packing Lists
// @Produce      json
// @Param        id path string true "Packing list ID"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id} [get]
func (h *PackingListHandler) Get(c *gin.Context) {
	list, err := h.lists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(list)
}

// Create handles POST /api/packing-lists.
//
// @Summary      Create a packing list
// @Description  New lists start as draft with totals computed from the posted packages.
// @Tags         Packing Lists
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.CreatePackingListRequest true "Packing list"
// @Success      201 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse "Validation messages in details"
// @Router       /api/packing-lists [post]
func (h *PackingListHandler) Create(c *gin.Context) {
	var req dto.CreatePackingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.lists.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionPackingListCreated, list, "Packing list created")
	NewResponseBuilder(c).SuccessCreated(list)
}

// Update handles PUT /api/packing-lists/:id.
//
// @Summary      Replace a packing list
// @Description  updatedAt must be the value last read; a stale value is a conflict.
// @Description  Completed lists reject structural changes unless convertToDraft is set.
// @Tags         Packing Lists
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Packing list ID"
// @Param        request body dto.UpdatePackingListRequest true "Packing list"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "Completed list or version conflict"
// @Failure      422 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id} [put]
func (h *PackingListHandler) Update(c *gin.Context) {
	var req dto.UpdatePackingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.lists.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionPackingListUpdated, list, "Packing list updated")
	NewResponseBuilder(c).SuccessOK(list)
}

// Delete handles DELETE /api/packing-lists/:id.
//
// @Summary      Delete a packing list
// @Tags         Packing Lists
// @Param        id path string true "Packing list ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id} [delete]
func (h *PackingListHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.lists.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.AuditEvent{
		Action:     model.ActionPackingListDeleted,
		EntityType: entityPackingList,
		EntityID:   id,
		Message:    "Packing list deleted",
	})
	NewResponseBuilder(c).NoContent()
}

// SetStatus handles PATCH /api/packing-lists/:id/status.
//
// @Summary      Change the status of a packing list
// @Tags         Packing Lists
// @Accept       json
// @Produce      json
// @Param        id      path string                true "Packing list ID"
// @Param        request body dto.SetStatusRequest true "draft or completed"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/status [patch]
func (h *PackingListHandler) SetStatus(c *gin.Context) {
	var req dto.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.lists.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionPackingListStatus, list, "Packing list status changed")
	NewResponseBuilder(c).SuccessOK(list)
}

// AddPackage handles POST /api/packing-lists/:id/packages.
//
// @Summary      Add a package
// @Description  Items reference catalog products; weights and dimensions are derived.
// @Description  start defaults to the next free package number.
// @Tags         Packages
// @Accept       json
// @Produce      json
// @Param        id      path string              true "Packing list ID"
// @Param        request body dto.PackageRequest true "Package"
// @Success      201 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "List is completed"
// @Failure      422 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/packages [post]
func (h *PackingListHandler) AddPackage(c *gin.Context) {
	var req dto.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.lists.AddPackage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionPackingListUpdated, list, "Package added")
	NewResponseBuilder(c).SuccessCreated(list)
}

// UpdatePackage handles PUT /api/packing-lists/:id/packages/:packageId.
//
// @Summary      Replace a package
// @Tags         Packages
// @Accept       json
// @Produce      json
// @Param        id        path string              true "Packing list ID"
// @Param        packageId path string              true "Package ID"
// @Param        request   body dto.PackageRequest true "Package"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/packages/{packageId} [put]
func (h *PackingListHandler) UpdatePackage(c *gin.Context) {
	var req dto.PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.lists.UpdatePackage(c.Request.Context(), c.Param("id"), c.Param("packageId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionPackingListUpdated, list, "Package updated")
	NewResponseBuilder(c).SuccessOK(list)
}

// RemovePackage handles DELETE /api/packing-lists/:id/packages/:packageId.
//
// @Summary      Remove a package
// @Tags         Packages
// @Produce      json
// @Param        id             path  string true  "Packing list ID"
// @Param        packageId      path  string true  "Package ID"
// @Param        convertToDraft query bool   false "Move a completed list back to draft first"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/packages/{packageId} [delete]
func (h *PackingListHandler) RemovePackage(c *gin.Context) {
	convert := false
	if v := c.Query("convertToDraft"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			NewResponseBuilder(c).ErrorWithMessage(http.StatusBadRequest, "convertToDraft must be a boolean", err)
			return
		}
		convert = b
	}
	list, err := h.lists.RemovePackage(c.Request.Context(), c.Param("id"), c.Param("packageId"), convert)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit(c, model.ActionPackingListUpdated, list, "Package removed")
	NewResponseBuilder(c).SuccessOK(list)
}

// NextPackageNumber handles GET /api/packing-lists/:id/next-package-number.
//
// @Summary      Next free package number
// @Tags         Packages
// @Produce      json
// @Param        id path string true "Packing list ID"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/next-package-number [get]
func (h *PackingListHandler) NextPackageNumber(c *gin.Context) {
	n, err := h.lists.NextPackageNumber(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(gin.H{"nextPackageNumber": n})
}

// Totals handles GET /api/packing-lists/:id/totals.
//
// @Summary      Packing list totals
// @Tags         Packing Lists
// @Produce      json
// @Param        id path string true "Packing list ID"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/totals [get]
func (h *PackingListHandler) Totals(c *gin.Context) {
	totals, err := h.lists.Totals(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(totals)
}

// Validation handles GET /api/packing-lists/:id/validation.
//
// @Summary      Validate a packing list
// @Description  Returns the messages of every problem found; an empty list is valid.
// @Tags         Packing Lists
// @Produce      json
// @Param        id path string true "Packing list ID"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/validation [get]
func (h *PackingListHandler) Validation(c *gin.Context) {
	report, err := h.lists.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(report)
}

// ExportLayout handles GET /api/packing-lists/:id/export.
//
// @Summary      Export layout
// @Description  Spreadsheet style rows with merged package cells, the TOTAL row and the trailer.
// @Tags         Export
// @Produce      json
// @Param        id path string true "Packing list ID"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/export [get]
func (h *PackingListHandler) ExportLayout(c *gin.Context) {
	layout, err := h.lists.ExportLayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(layout)
}

// ExportPDF handles GET /api/packing-lists/:id/export.pdf.
//
// @Summary      Export as PDF
// @Tags         Export
// @Produce      application/pdf
// @Param        id path string true "Packing list ID"
// @Success      200 {file} binary
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/packing-lists/{id}/export.pdf [get]
func (h *PackingListHandler) ExportPDF(c *gin.Context) {
	id := c.Param("id")
	pdf, err := h.lists.ExportPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.AuditEvent{
		Action:     model.ActionPackingListExport,
		EntityType: entityPackingList,
		EntityID:   id,
		Message:    "Packing list exported",
		Fields:     map[string]interface{}{"format": "pdf", "bytes": len(pdf)},
	})
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="packing-list-%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Preview handles POST /api/packing-lists/preview.
//
// @Summary      Preview an unsaved packing list
// @Description  Computes totals, validation, layout and the next package number without storing anything.
// @Tags         Packing Lists
// @Accept       json
// @Produce      json
// @Param        request body model.PackingList true "Packing list"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Router       /api/packing-lists/preview [post]
func (h *PackingListHandler) Preview(c *gin.Context) {
	var list model.PackingList
	if err := c.ShouldBindJSON(&list); err != nil {
		badRequest(c, err)
		return
	}
	preview, err := h.lists.Preview(list)
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(preview)
}

func (h *PackingListHandler) audit(c *gin.Context, action string, list *model.PackingList, msg string) {
	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.AuditEvent{
		Action:     action,
		EntityType: entityPackingList,
		EntityID:   list.ID,
		Message:    msg,
		Fields: map[string]interface{}{
			"status":   list.Status,
			"packages": len(list.Items),
		},
	})
}
