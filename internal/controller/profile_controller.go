package controller

import (
	"biokuiz/internal/service"
	"biokuiz/internal/util"

	"github.com/gin-gonic/gin"
)

// ProfileController serves the logged-in user's own pages.
type ProfileController struct {
	AuthService    *service.AuthService
	ReportService  *service.ReportService
	ContentService *service.ContentService
}

func NewProfileController(authService *service.AuthService, reportService *service.ReportService, contentService *service.ContentService) *ProfileController {
	return &ProfileController{
		AuthService:    authService,
		ReportService:  reportService,
		ContentService: contentService,
	}
}

// GetProfile godoc
// @Summary Own profile with score summary and level
// @Tags profile
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Profile}
// @Failure 401 {object} util.Response
// @Router /api/profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	p := util.GetPrincipal(ctx)
	if p == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.ReportService.Profile(ctx.Request.Context(), p.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ChangePassword godoc
// @Summary Change own password
// @Tags profile
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChangePasswordRequest true "New password"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "Empty password"
// @Router /api/profile/password [put]
func (c *ProfileController) ChangePassword(ctx *gin.Context) {
	p := util.GetPrincipal(ctx)
	if p == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.AuthService.ChangePassword(ctx.Request.Context(), p.UserID, req.NewPassword); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetDashboard godoc
// @Summary Own score history
// @Tags profile
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserDashboard}
// @Router /api/dashboard [get]
func (c *ProfileController) GetDashboard(ctx *gin.Context) {
	p := util.GetPrincipal(ctx)
	if p == nil {
		util.Unauthorized(ctx)
		return
	}

	d, err := c.ReportService.UserDashboard(ctx.Request.Context(), p.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, d)
}

// GetMaterials godoc
// @Summary Study materials
// @Tags profile
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Material}
// @Router /api/materials [get]
func (c *ProfileController) GetMaterials(ctx *gin.Context) {
	ms, err := c.ContentService.ListMaterials(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, ms)
}
