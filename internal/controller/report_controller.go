package controller

import (
	"biokuiz/internal/service"
	"biokuiz/internal/util"
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// GetLeaderboard godoc
// @Summary Top scorers by best attempt
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]repository.UserBest}
// @Router /api/leaderboard [get]
func (c *ReportController) GetLeaderboard(ctx *gin.Context) {
	board, err := c.ReportService.Leaderboard(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, board)
}

// GetAdminDashboard godoc
// @Summary Totals, averages and daily trend (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AdminDashboard}
// @Failure 403 {object} util.Response
// @Router /api/admin [get]
func (c *ReportController) GetAdminDashboard(ctx *gin.Context) {
	d, err := c.ReportService.AdminDashboard(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, d)
}

// GetStudentReport godoc
// @Summary Per-student summary (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.StudentReportRow}
// @Router /api/admin/report [get]
func (c *ReportController) GetStudentReport(ctx *gin.Context) {
	rows, err := c.ReportService.StudentReport(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// ExportReport godoc
// @Summary Download the student report as CSV (teacher only)
// @Tags admin
// @Produce  text/csv
// @Security ApiKeyAuth
// @Success 200 {file} file
// @Router /api/admin/export [get]
func (c *ReportController) ExportReport(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.ReportService.ExportCSV(ctx.Request.Context(), &buf); err != nil {
		util.Fail(ctx, err)
		return
	}

	filename := fmt.Sprintf("student_report_%s.csv", time.Now().UTC().Format(util.DateFormat))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
