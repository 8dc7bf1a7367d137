package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/domain/dto"
	"github.com/guttosm/packing-list-service/internal/domain/model"
	"github.com/guttosm/packing-list-service/internal/middleware"
	"github.com/guttosm/packing-list-service/internal/service"
)

// HSCodeHandler serves the registered customs codes.
type HSCodeHandler struct {
	codes service.HSCodeService
}

// NewHSCodeHandler creates an HSCodeHandler.
func NewHSCodeHandler(codes service.HSCodeService) *HSCodeHandler {
	return &HSCodeHandler{codes: codes}
}

// RegisterRoutes mounts the HS code routes on rg.
func (h *HSCodeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/hs-codes")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
}

// List handles GET /api/hs-codes.
//
// @Summary      List HS codes
// @Tags         HS Codes
// @Produce      json
// @Success      200 {object} dto.SuccessResponse
// @Router       /api/hs-codes [get]
func (h *HSCodeHandler) List(c *gin.Context) {
	codes, err := h.codes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(codes)
}

// Create handles POST /api/hs-codes.
//
// @Summary      Register an HS code
// @Description  The code must contain 12 digits. It is stored as "XXXX.XX.XX.XX.XX".
// @Tags         HS Codes
// @Accept       json
// @Produce      json
// @Param        request body dto.HSCodeRequest true "HS code"
// @Success      201 {object} dto.SuccessResponse
// @Failure      409 {object} dto.ErrorResponse "Code already registered"
// @Failure      422 {object} dto.ErrorResponse
// @Router       /api/hs-codes [post]
func (h *HSCodeHandler) Create(c *gin.Context) {
	var req dto.HSCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	code, err := h.codes.Create(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.AuditEvent{
		Action:     model.ActionHSCodeCreated,
		EntityType: "hs_code",
		EntityID:   code.ID,
		Message:    "HS code registered",
		Fields:     map[string]interface{}{"code": code.Code},
	})
	NewResponseBuilder(c).SuccessCreated(code)
}

// Delete handles DELETE /api/hs-codes/:id.
//
// @Summary      Delete an HS code
// @Tags         HS Codes
// @Param        id path string true "HS code ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/hs-codes/{id} [delete]
func (h *HSCodeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.codes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, middleware.AuditEvent{
		Action:     model.ActionHSCodeDeleted,
		EntityType: "hs_code",
		EntityID:   id,
		Message:    "HS code deleted",
	})
	NewResponseBuilder(c).NoContent()
}
