package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// StatisticsHandler serves the dashboard charts.
type StatisticsHandler struct {
	facade StatisticsFacade
}

// NewStatisticsHandler builds StatisticsHandler.
func NewStatisticsHandler(facade StatisticsFacade) *StatisticsHandler {
	return &StatisticsHandler{facade: facade}
}

// Get handles GET /statistics.
func (h *StatisticsHandler) Get(c *gin.Context) {
	stats, err := h.facade.Statistics(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromStatistics(stats))
}
