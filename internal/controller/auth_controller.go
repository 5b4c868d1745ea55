package controller

import (
	"biokuiz/internal/middleware"
	"biokuiz/internal/service"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"
	"biokuiz/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	AuthService  *service.AuthService
	ResetService *service.PasswordResetService
	Cookie       *security.SessionCookie
}

func NewAuthController(authService *service.AuthService, resetService *service.PasswordResetService, cookie *security.SessionCookie) *AuthController {
	return &AuthController{
		AuthService:  authService,
		ResetService: resetService,
		Cookie:       cookie,
	}
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role" example:"student"`
}

// Register godoc
// @Summary Register a new account
// @Description Role is student or teacher and defaults to student
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "Account"
// @Success 201 {object} util.Response{data=object} "Created"
// @Failure 400 {object} util.Response "Missing fields or invalid role"
// @Failure 409 {object} util.Response "Username taken"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": user.ID, "username": user.Username, "role": user.Role})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login godoc
// @Summary Log in
// @Description Returns a session token and also sets it as a signed HttpOnly cookie
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Credentials"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response "Invalid username or password"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	if err := c.Cookie.Set(ctx, token); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Logout godoc
// @Summary Log out
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	token := middleware.SessionToken(ctx, c.Cookie)
	if token != "" {
		if err := c.AuthService.Logout(ctx.Request.Context(), token); err != nil {
			logger.Log.Warn("logout failed", zap.Error(err))
		}
	}
	c.Cookie.Clear(ctx)
	util.Success(ctx, nil)
}

// swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	Username string `json:"username" binding:"required"`
}

// ForgotPassword godoc
// @Summary Request a password reset link
// @Description The link expires after the configured number of minutes
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ForgotPasswordRequest true "Username"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "Unknown username"
// @Router /api/password/forgot [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, link, err := c.ResetService.Issue(ctx.Request.Context(), req.Username)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"token": token, "reset_link": link})
}

// VerifyResetToken godoc
// @Summary Check a password reset link
// @Tags auth
// @Produce  json
// @Param   token path string true "Reset token"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "Invalid link"
// @Failure 410 {object} util.Response "Expired link, request a new one"
// @Router /api/password/reset/{token} [get]
func (c *AuthController) VerifyResetToken(ctx *gin.Context) {
	username, err := c.ResetService.Verify(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"username": username})
}

// swagger:model ResetPasswordRequest
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ResetPassword godoc
// @Summary Set a new password with a reset link
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   token path string true "Reset token"
// @Param   body body ResetPasswordRequest true "New password"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Invalid link or empty password"
// @Failure 410 {object} util.Response "Expired link, request a new one"
// @Router /api/password/reset/{token} [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ResetService.Reset(ctx.Request.Context(), ctx.Param("token"), req.NewPassword); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "password updated, please log in again"})
}
