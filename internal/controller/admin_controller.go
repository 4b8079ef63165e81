package controller

import (
	"strconv"

	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminService *service.AdminService
}

func NewAdminController(adminService *service.AdminService) *AdminController {
	return &AdminController{AdminService: adminService}
}

// UserTarget names a user by id or, when the id is absent, by email.
type UserTarget struct {
	UserID uint   `json:"userId"`
	Email  string `json:"email" binding:"omitempty,email"`
}

func (t UserTarget) empty() bool {
	return t.UserID == 0 && t.Email == ""
}

type MessageRequest struct {
	UserTarget
	Subject string `json:"subject" binding:"required,max=200"`
	Body    string `json:"body"`
	Message string `json:"message"`
}

func (r MessageRequest) text() string {
	if r.Body != "" {
		return r.Body
	}
	return r.Message
}

// GetStats godoc
// @Summary Platform totals
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.AdminStats}
// @Failure 403 {object} util.Response "not an admin"
// @Router /api/admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	stats, err := c.AdminService.Stats()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, limit := util.PageParams(ctx)
	users, total, err := c.AdminService.Users(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.NewPage(users, total, page, limit))
}

func (c *AdminController) Activity(ctx *gin.Context) {
	items, err := c.AdminService.Activity()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

func (c *AdminController) Leaderboard(ctx *gin.Context) {
	entries, err := c.AdminService.Leaderboard()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

func (c *AdminController) Analytics(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.DefaultQuery("days", "30"))
	if days > 365 {
		days = 365
	}
	out, err := c.AdminService.Analytics(days)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, out)
}

func (c *AdminController) UserDetails(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	details, err := c.AdminService.UserDetails(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, details)
}

// DeleteUser godoc
// @Summary Delete a user and everything they own
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response "admins cannot be deleted"
// @Router /api/admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	if err := c.AdminService.DeleteUser(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "User deleted", nil)
}

func (c *AdminController) Promote(ctx *gin.Context) {
	var req UserTarget
	if err := ctx.ShouldBindJSON(&req); err != nil || req.empty() {
		util.BadRequest(ctx, "userId or email is required")
		return
	}
	user, err := c.AdminService.Promote(req.UserID, req.Email)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, user.Username+" is now an admin", gin.H{"id": user.ID, "role": user.Role})
}

func (c *AdminController) Demote(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req UserTarget
	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == 0 {
		util.BadRequest(ctx, "userId is required")
		return
	}
	user, err := c.AdminService.Demote(userID, req.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, user.Username+" is no longer an admin", gin.H{"id": user.ID, "role": user.Role})
}

func (c *AdminController) SendMessage(ctx *gin.Context) {
	var req MessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.empty() || req.text() == "" {
		util.BadRequest(ctx, "recipient and message are required")
		return
	}
	user, err := c.AdminService.SendMessage(ctx.Request.Context(), req.UserID, req.Email, req.Subject, req.text())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Message sent to "+user.Email, nil)
}

// Broadcast godoc
// @Summary Email every user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MessageRequest true "subject and body"
// @Success 200 {object} util.Response
// @Router /api/admin/broadcast [post]
func (c *AdminController) Broadcast(ctx *gin.Context) {
	var req MessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.text() == "" {
		util.BadRequest(ctx, "message is required")
		return
	}
	sent, total, err := c.AdminService.Broadcast(ctx.Request.Context(), req.Subject, req.text())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Broadcast sent", gin.H{"sent": sent, "total": total})
}
