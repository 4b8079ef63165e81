package controller

import (
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetStats godoc
// @Summary Dashboard statistics for the current user
// @Description Per-course completion, overall percent, 90-day activity heatmap, recent completions and gamification stats.
// @Tags Video
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DashboardStats}
// @Router /api/video/dashboard-stats [get]
func (c *DashboardController) GetStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	stats, err := c.DashboardService.GetStats(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
