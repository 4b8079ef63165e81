package controller

import (
	"errors"
	"net/http"

	"skillify_backend/internal/course"
	"skillify_backend/internal/gamification"
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError maps domain errors onto the response envelope; anything
// unknown is logged and reported as a 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, util.ErrNotFound),
		errors.Is(err, course.ErrUnknownCourse):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrUserNotFound):
		util.Error(ctx, http.StatusNotFound, "User not found")
	case errors.Is(err, util.ErrEmailRegistered):
		util.Conflict(ctx, "Email already registered")
	case errors.Is(err, util.ErrUserExists):
		util.Conflict(ctx, "Username or Email exists")
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, util.ErrEmailNotVerified):
		util.Error(ctx, http.StatusUnauthorized, "Email not verified")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrCannotDeleteAdmin):
		util.Error(ctx, http.StatusForbidden, "Cannot delete admin accounts via API")
	case errors.Is(err, util.ErrOTPExpired):
		util.BadRequest(ctx, "OTP expired")
	case errors.Is(err, util.ErrOTPInvalid):
		util.BadRequest(ctx, "Invalid OTP")
	case errors.Is(err, util.ErrWrongPassword):
		util.BadRequest(ctx, "Current password is incorrect")
	case errors.Is(err, util.ErrNegativeXP),
		errors.Is(err, util.ErrNegativeHours),
		errors.Is(err, util.ErrAlreadyAdmin),
		errors.Is(err, util.ErrNotAdmin),
		errors.Is(err, util.ErrUnsupportedFileType),
		errors.Is(err, service.ErrInvalidTaskStatus),
		errors.Is(err, service.ErrCannotDemoteSelf),
		errors.Is(err, gamification.ErrIndexOutOfRange):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, service.ErrOAuthDisabled):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// currentUserID returns the authenticated user id or writes a 401.
func currentUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}
