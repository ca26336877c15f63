package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studybee/internal/ai"
	apperrors "studybee/internal/errors"
	"studybee/internal/service"
)

type AIHandler struct {
	aiService *service.AIService
}

func NewAIHandler(aiService *service.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

type aiRequest struct {
	Type string   `json:"type"`
	Data *ai.Data `json:"data"`
}

func (h *AIHandler) Respond(c *gin.Context) {
	var req aiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.Type == "" || req.Data == nil {
		writeError(c, apperrors.Validation("invalid_request", "invalid request format"))
		return
	}

	result, apiErr := h.aiService.Respond(c.Request.Context(), req.Type, *req.Data)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, result)
}
