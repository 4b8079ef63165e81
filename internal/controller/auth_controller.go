package controller

import (
	"net/http"

	"skillify_backend/internal/config"
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "oauth_state"

type AuthController struct {
	AuthService  *service.AuthService
	OAuthService *service.OAuthService
	Cfg          *config.Config
}

func NewAuthController(authService *service.AuthService, oauthService *service.OAuthService, cfg *config.Config) *AuthController {
	return &AuthController{
		AuthService:  authService,
		OAuthService: oauthService,
		Cfg:          cfg,
	}
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SendOTP godoc
// @Summary Send a verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SendOTPRequest true "email"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "email already registered"
// @Router /api/auth/send-otp [post]
func (c *AuthController) SendOTP(ctx *gin.Context) {
	var req SendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.AuthService.SendOTP(ctx.Request.Context(), req.Email); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "OTP sent", gin.H{"expiresInSec": int(service.OTPTTL.Seconds())})
}

// VerifyOTP godoc
// @Summary Verify an emailed code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "email and code"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "expired or invalid code"
// @Router /api/auth/verify-otp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.AuthService.VerifyOTP(ctx.Request.Context(), req.Email, req.OTP); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Verified", gin.H{"verified": true})
}

// Register godoc
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "account"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response "username or email exists"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"userId": user.ID, "verified": user.IsVerified})
}

// Login godoc
// @Summary Log in with username or email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Logged in", gin.H{
		"token":    res.Token,
		"username": res.User.Username,
		"verified": res.User.IsVerified,
		"streak":   res.User.Streak,
		"role":     res.User.Role,
	})
}

// Logout only acknowledges; tokens are stateless and expire on their own.
func (c *AuthController) Logout(ctx *gin.Context) {
	util.SuccessWithMessage(ctx, "Logged out", nil)
}

func (c *AuthController) CurrentUser(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	user, err := c.AuthService.GetCurrentUser(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"verified":   user.IsVerified,
		"xp":         user.XP,
		"level":      user.Level,
		"streak":     user.Streak,
		"focusHours": user.FocusHours,
		"avatar":     user.Avatar,
		"role":       user.Role,
	})
}

func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	state, err := service.NewState()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	url, err := c.OAuthService.AuthCodeURL(state)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.SetCookie(oauthStateCookie, state, 600, "/", "", c.Cfg.Server.Mode == "release", true)
	ctx.Redirect(http.StatusTemporaryRedirect, url)
}

func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	state, err := ctx.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != ctx.Query("state") {
		util.BadRequest(ctx, "invalid oauth state")
		return
	}
	ctx.SetCookie(oauthStateCookie, "", -1, "/", "", c.Cfg.Server.Mode == "release", true)

	res, err := c.OAuthService.HandleCallback(ctx.Request.Context(), ctx.Query("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	if target := c.Cfg.OAuth.SuccessRedirect; target != "" {
		ctx.Redirect(http.StatusTemporaryRedirect, target+"#token="+res.Token)
		return
	}
	util.Success(ctx, gin.H{"token": res.Token, "username": res.User.Username})
}
