package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// OrderHandler serves order listings and lifecycle commands.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler builds OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Active handles GET /orders/active.
func (h *OrderHandler) Active(c *gin.Context) {
	orders, err := h.facade.ActiveOrders(c.Request.Context())
	h.list(c, orders, err)
}

// Shipped handles GET /orders/shipped.
func (h *OrderHandler) Shipped(c *gin.Context) {
	orders, err := h.facade.ShippedOrders(c.Request.Context())
	h.list(c, orders, err)
}

// History handles GET /orders/history.
func (h *OrderHandler) History(c *gin.Context) {
	orders, err := h.facade.OrderHistory(c.Request.Context())
	h.list(c, orders, err)
}

func (h *OrderHandler) list(c *gin.Context, orders []model.Order, err error) {
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromOrders(orders))
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.facade.CreateOrder(c.Request.Context(), req.ToModel())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromOrder(created))
}

// Commit handles PATCH /orders/:orderNumber.
func (h *OrderHandler) Commit(c *gin.Context) {
	number := c.Param("orderNumber")

	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.facade.CommitTransition(c.Request.Context(), number, req.Status)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotification) {
			// The status is persisted; only the customer was not told.
			resp := transitionResponse(number, result)
			resp.Error = err.Error()
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, resp)
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transitionResponse(number, result))
}

func transitionResponse(number string, result usecase.CommitResult) dto.TransitionResponse {
	return dto.TransitionResponse{
		Number:   number,
		Status:   string(result.Order.Status),
		Label:    result.Order.StatusLabel,
		Notified: result.Notified,
		Archived: result.Archived,
	}
}

// Delete handles DELETE /orders/:orderNumber.
func (h *OrderHandler) Delete(c *gin.Context) {
	number := c.Param("orderNumber")
	if err := h.facade.DeleteOrder(c.Request.Context(), number); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Order " + number + " archived"})
}

// Transitions handles GET /orders/:orderNumber/transitions.
func (h *OrderHandler) Transitions(c *gin.Context) {
	items, err := h.facade.Transitions(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTransitions(items))
}
