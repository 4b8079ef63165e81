package controller

import (
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Hub *service.NotificationHub
}

func NewNotificationController(hub *service.NotificationHub) *NotificationController {
	return &NotificationController{Hub: hub}
}

// HandleWS godoc
// @Summary WebSocket connection
// @Description Joins the user's notification room. Browsers pass the JWT as ?token=.
// @Tags Realtime
// @Security BearerAuth
// @Param token query string true "JWT"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/ws [get]
func (c *NotificationController) HandleWS(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.UserID)
}

// Status reports whether the current user has a live socket on this node.
func (c *NotificationController) Status(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	util.Success(ctx, gin.H{"online": c.Hub.IsOnline(userID)})
}
