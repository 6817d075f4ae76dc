package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golazo.app/penaltyduel/internal/dto"
	"golazo.app/penaltyduel/internal/service"
	"golazo.app/penaltyduel/pkg/response"
	"golazo.app/penaltyduel/pkg/validator"
)

type AchievementHandler struct {
	achievementService service.AchievementService
}

func NewAchievementHandler(achievementService service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

func (h *AchievementHandler) ListAchievements(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	statuses, err := h.achievementService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": statuses})
}

func (h *AchievementHandler) GetActiveBadge(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	badge, err := h.achievementService.GetActiveBadge(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, badge)
}

func (h *AchievementHandler) SetActiveBadge(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SetActiveBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	badge, err := h.achievementService.SetActiveBadge(c.Request.Context(), userID, req.AchievementID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, badge)
}
