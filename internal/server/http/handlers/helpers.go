package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
	"github.com/polkiloo/orderdesk/internal/server/http/middleware"
)

// CurrentPrincipal extracts the authenticated staff member from context.
func CurrentPrincipal(c *gin.Context) (model.Principal, bool) {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return model.Principal{}, false
	}
	p, ok := val.(model.Principal)
	return p, ok
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrValidation),
		errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidIntent),
		errors.Is(err, domainErrors.ErrInvalidResetToken):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrInvalidCredentials),
		errors.Is(err, domainErrors.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrNotification),
		errors.Is(err, domainErrors.ErrExecutionSync):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the mapped status and a message. Internal errors
// are not echoed to clients.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
		var archiveErr *domainErrors.ArchiveError
		if errors.As(err, &archiveErr) {
			msg = "archive " + string(archiveErr.Stage) + " failed"
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: msg})
}
