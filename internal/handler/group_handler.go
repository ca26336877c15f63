package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studybee/internal/service"
)

type GroupHandler struct {
	groupService *service.GroupService
}

func NewGroupHandler(groupService *service.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type createGroupRequest struct {
	UserID    string `json:"userId"`
	GroupName string `json:"groupName"`
}

type groupCodeRequest struct {
	UserID    string `json:"userId"`
	GroupCode string `json:"groupCode"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	result, apiErr := h.groupService.Create(c.Request.Context(), req.UserID, req.GroupName)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) Join(c *gin.Context) {
	var req groupCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	result, apiErr := h.groupService.Join(c.Request.Context(), req.UserID, req.GroupCode)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) MyGroups(c *gin.Context) {
	result, apiErr := h.groupService.MyGroups(c.Request.Context(), c.Param("userId"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GroupHandler) Leave(c *gin.Context) {
	var req groupCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	if apiErr := h.groupService.Leave(c.Request.Context(), req.UserID, req.GroupCode); apiErr != nil {
		writeError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "left group successfully"})
}

func (h *GroupHandler) Leaderboard(c *gin.Context) {
	result, apiErr := h.groupService.Leaderboard(c.Request.Context(), c.Param("groupCode"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

func writeInvalidJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    "invalid_json",
			"message": "invalid request body",
		},
	})
}
