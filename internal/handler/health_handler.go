package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studybee/internal/repository"
)

type HealthHandler struct {
	userRepo  *repository.UserRepository
	groupRepo *repository.GroupRepository
}

func NewHealthHandler(userRepo *repository.UserRepository, groupRepo *repository.GroupRepository) *HealthHandler {
	return &HealthHandler{userRepo: userRepo, groupRepo: groupRepo}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.userRepo.Count(ctx)
	if err != nil {
		writeError(c, nil)
		return
	}
	groups, err := h.groupRepo.Count(ctx)
	if err != nil {
		writeError(c, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"groups":  groups,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
