package controller

import (
	"io"

	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

type UpdateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,username"`
	Bio      *string `json:"bio" binding:"omitempty,max=2000"`
	Location *string `json:"location" binding:"omitempty,max=255"`
	Website  *string `json:"website" binding:"omitempty,max=255"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type SetXPRequest struct {
	XP *int `json:"xp" binding:"required"`
}

type FocusRequest struct {
	Hours float64 `json:"hours" binding:"required"`
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/user/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	user, err := c.UserService.GetProfile(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary Update username, bio, location or website
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "fields to change"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 409 {object} util.Response "username taken"
// @Router /api/user/update-profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(userID, service.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Location: req.Location,
		Website:  req.Website,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Profile updated", user)
}

func (c *UserController) ChangePassword(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.UserService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Password changed", nil)
}

func (c *UserController) DeleteAccount(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := c.UserService.DeleteAccount(userID); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Account deleted", nil)
}

// SetXP godoc
// @Summary Set the user's XP; level is recomputed
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetXPRequest true "new xp"
// @Success 200 {object} util.Response{data=model.Stats}
// @Failure 400 {object} util.Response "negative xp"
// @Router /api/user/xp [post]
func (c *UserController) SetXP(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req SetXPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	stats, err := c.UserService.SetXP(ctx.Request.Context(), userID, *req.XP)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

func (c *UserController) AddFocus(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req FocusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	total, err := c.UserService.AddFocusHours(userID, req.Hours)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"focusHours": total})
}

// UploadAvatar godoc
// @Summary Upload a profile picture
// @Tags User
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "image"
// @Success 200 {object} util.Response
// @Router /api/user/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}
	if file.Size > util.MaxAvatarSize {
		util.BadRequest(ctx, "avatar is too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	// Trust the bytes, not the client's Content-Type.
	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		respondError(ctx, err)
		return
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), userID, file.Filename, src, file.Size, mimeType)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Avatar updated", gin.H{"avatar": url})
}
