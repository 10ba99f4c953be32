package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

const (
	subscribeMissingEmail = "Correo necesario!"
	subscribeDuplicate    = "El correo electrónico ya está suscrito"
	subscribeOK           = "Subscription successful"
)

// SubscriptionHandler serves the public newsletter sign-up.
type SubscriptionHandler struct {
	facade SubscriptionFacade
}

// NewSubscriptionHandler creates SubscriptionHandler instance.
func NewSubscriptionHandler(facade SubscriptionFacade) *SubscriptionHandler {
	return &SubscriptionHandler{facade: facade}
}

// Subscribe handles POST /subscribe.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.MessageResponse{Message: subscribeMissingEmail})
		return
	}

	if err := h.facade.Subscribe(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.MessageResponse{Message: subscribeDuplicate})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: subscribeOK})
}
