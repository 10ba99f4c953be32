package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// BlacklistHandler maintains the suppressed phone numbers.
type BlacklistHandler struct {
	facade BlacklistFacade
}

// NewBlacklistHandler builds BlacklistHandler.
func NewBlacklistHandler(facade BlacklistFacade) *BlacklistHandler {
	return &BlacklistHandler{facade: facade}
}

// List handles GET /blacklist.
func (h *BlacklistHandler) List(c *gin.Context) {
	numbers, err := h.facade.Blacklist(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	if numbers == nil {
		numbers = []string{}
	}
	c.JSON(http.StatusOK, dto.BlacklistResponse{Numbers: numbers})
}

// Apply handles POST /blacklist.
func (h *BlacklistHandler) Apply(c *gin.Context) {
	var req dto.BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.facade.ApplyBlacklist(c.Request.Context(), req.Number, req.Intent)
	if err != nil {
		if errors.Is(err, domainErrors.ErrExecutionSync) {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, dto.BlacklistResult{
				Status: "partial",
				Number: result.Number,
				Intent: string(result.Intent),
				Error:  err.Error(),
			})
			return
		}
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BlacklistResult{
		Status:          "ok",
		Number:          result.Number,
		Intent:          string(result.Intent),
		ExecutionResult: result.Execution,
	})
}
