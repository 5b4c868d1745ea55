package controller

import (
	"biokuiz/internal/service"
	"biokuiz/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

func pathID(ctx *gin.Context) (uint, bool) {
	id, ok := util.ParseID(ctx.Param("id"))
	if !ok {
		util.BadRequest(ctx, "invalid id")
	}
	return id, ok
}

// ListMaterials godoc
// @Summary List materials (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Material}
// @Failure 403 {object} util.Response
// @Router /api/admin/materials [get]
func (c *ContentController) ListMaterials(ctx *gin.Context) {
	ms, err := c.ContentService.ListMaterials(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, ms)
}

// GetMaterial godoc
// @Summary Get a material (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Material ID"
// @Success 200 {object} util.Response{data=model.Material}
// @Failure 404 {object} util.Response
// @Router /api/admin/materials/{id} [get]
func (c *ContentController) GetMaterial(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	m, err := c.ContentService.GetMaterial(ctx.Request.Context(), id)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// CreateMaterial godoc
// @Summary Create a material (teacher only)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.MaterialRequest true "Material"
// @Success 201 {object} util.Response{data=model.Material}
// @Failure 400 {object} util.Response "Title and text are required"
// @Router /api/admin/materials [post]
func (c *ContentController) CreateMaterial(ctx *gin.Context) {
	var req service.MaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	m, err := c.ContentService.CreateMaterial(ctx.Request.Context(), req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// UpdateMaterial godoc
// @Summary Update a material (teacher only)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Material ID"
// @Param   body body service.MaterialRequest true "Material"
// @Success 200 {object} util.Response{data=model.Material}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/materials/{id} [put]
func (c *ContentController) UpdateMaterial(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.MaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	m, err := c.ContentService.UpdateMaterial(ctx.Request.Context(), id, req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// DeleteMaterial godoc
// @Summary Delete a material (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Material ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/materials/{id} [delete]
func (c *ContentController) DeleteMaterial(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.ContentService.DeleteMaterial(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadMaterialImage godoc
// @Summary Attach an image to a material (teacher only)
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Material ID"
// @Param   file formData file true "Image file"
// @Success 200 {object} util.Response{data=model.Material}
// @Failure 400 {object} util.Response "Missing or non-image file"
// @Failure 404 {object} util.Response
// @Router /api/admin/materials/{id}/image [post]
func (c *ContentController) UploadMaterialImage(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	m, err := c.ContentService.UploadMaterialImage(ctx.Request.Context(), id, header.Filename, file, header.Size)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, m)
}

// ListQuestions godoc
// @Summary List questions with answers (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/admin/questions [get]
func (c *ContentController) ListQuestions(ctx *gin.Context) {
	qs, err := c.ContentService.ListQuestions(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, qs)
}

// GetQuestion godoc
// @Summary Get a question (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [get]
func (c *ContentController) GetQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	q, err := c.ContentService.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// CreateQuestion godoc
// @Summary Create a question (teacher only)
// @Description type is mcq (needs labelled choices) or tf (correct is True or False)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuestionRequest true "Question"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/admin/questions [post]
func (c *ContentController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.ContentService.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary Update a question (teacher only)
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Param   body body service.QuestionRequest true "Question"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (c *ContentController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.ContentService.UpdateQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary Delete a question (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "Question ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *ContentController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	if err := c.ContentService.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
