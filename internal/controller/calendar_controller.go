package controller

import (
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	CalendarService *service.CalendarService
}

func NewCalendarController(calendarService *service.CalendarService) *CalendarController {
	return &CalendarController{CalendarService: calendarService}
}

type SaveEventRequest struct {
	DateKey string `json:"dateKey" binding:"required,max=16"`
	Title   string `json:"title" binding:"max=255"`
}

func (c *CalendarController) Events(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	events, err := c.CalendarService.Events(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, events)
}

// Save godoc
// @Summary Store a note on a calendar day; an empty title removes it
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveEventRequest true "note"
// @Success 200 {object} util.Response
// @Router /api/calendar [post]
func (c *CalendarController) Save(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req SaveEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	deleted, err := c.CalendarService.Save(userID, req.DateKey, req.Title)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if deleted {
		util.SuccessWithMessage(ctx, "Event deleted", gin.H{"dateKey": req.DateKey})
		return
	}
	util.SuccessWithMessage(ctx, "Event saved", gin.H{"dateKey": req.DateKey, "title": req.Title})
}
