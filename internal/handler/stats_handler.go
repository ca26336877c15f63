package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studybee/internal/metrics"
	"studybee/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
	metrics      *metrics.Metrics
}

func NewStatsHandler(statsService *service.StatsService, m *metrics.Metrics) *StatsHandler {
	return &StatsHandler{statsService: statsService, metrics: m}
}

type syncRequest struct {
	UserID          string  `json:"userId"`
	LearningTime    float64 `json:"learningTime"`
	DistractionTime float64 `json:"distractionTime"`
}

func (h *StatsHandler) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	result, apiErr := h.statsService.Sync(c.Request.Context(), req.UserID, req.LearningTime, req.DistractionTime)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	h.metrics.IncSyncsTotal()
	c.JSON(http.StatusOK, result)
}
