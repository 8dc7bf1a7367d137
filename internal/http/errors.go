package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packing-list-service/internal/catalog"
	"github.com/guttosm/packing-list-service/internal/circuitbreaker"
	"github.com/guttosm/packing-list-service/internal/i18n"
	"github.com/guttosm/packing-list-service/internal/packing"
	"github.com/guttosm/packing-list-service/internal/repository"
	"github.com/guttosm/packing-list-service/internal/service"
)

// respondError maps a service error to its status code and writes the
// error envelope. Validation messages travel in details.
func respondError(c *gin.Context, err error) {
	b := NewResponseBuilder(c)

	if msgs, ok := packing.ValidationMessages(err); ok {
		msg := i18n.Message(i18n.ErrKeyValidationFailed)
		b.ErrorWithMessages(http.StatusUnprocessableEntity, msg, msgs, err)
		return
	}

	switch {
	case errors.Is(err, packing.ErrInvalidRange),
		errors.Is(err, packing.ErrInvalidStart),
		errors.Is(err, packing.ErrInvalidKind):
		b.ErrorWithMessages(http.StatusUnprocessableEntity, err.Error(), []string{err.Error()}, err)
	case errors.Is(err, service.ErrInvalidStatus):
		b.Error(http.StatusUnprocessableEntity, i18n.ErrKeyInvalidStatus, err)
	case errors.Is(err, catalog.ErrInvalidHSCode):
		b.Error(http.StatusUnprocessableEntity, i18n.ErrKeyInvalidHSCode, err)
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, catalog.ErrVariantNotFound),
		errors.Is(err, service.ErrPackageNotFound):
		b.Error(http.StatusNotFound, i18n.ErrKeyNotFound, err)
	case errors.Is(err, packing.ErrListCompleted):
		b.Error(http.StatusConflict, i18n.ErrKeyListCompleted, err)
	case errors.Is(err, repository.ErrVersionConflict):
		b.Error(http.StatusConflict, i18n.ErrKeyVersionConflict, err)
	case errors.Is(err, repository.ErrDuplicate):
		b.Error(http.StatusConflict, i18n.ErrKeyDuplicate, err)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		b.Error(http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded):
		b.Error(http.StatusGatewayTimeout, i18n.ErrKeyTimeout, err)
	default:
		b.Error(http.StatusInternalServerError, i18n.ErrKeyInternalError, err)
	}
}

// badRequest answers a body that could not be decoded.
func badRequest(c *gin.Context, err error) {
	NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}
