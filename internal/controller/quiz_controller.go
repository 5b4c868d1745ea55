package controller

import (
	"biokuiz/internal/service"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// GetQuiz godoc
// @Summary Question bank without answers
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.StudentQuestion}
// @Router /api/quiz [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	qs, err := c.QuizService.Questions(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, qs)
}

// SubmitQuizRequest maps question ids to the chosen answer.
// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	Answers map[string]string `json:"answers"`
}

// SubmitQuiz godoc
// @Summary Submit answers
// @Description Unanswered questions count as wrong; ids that are not in the bank are ignored
// @Tags quiz
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitQuizRequest true "Answers keyed by question id"
// @Success 201 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "Empty question bank"
// @Failure 401 {object} util.Response
// @Router /api/quiz [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	p := util.GetPrincipal(ctx)
	if p == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answers := make(map[uint]string, len(req.Answers))
	for key, answer := range req.Answers {
		id, ok := util.ParseID(key)
		if !ok {
			continue
		}
		answers[id] = answer
	}

	res, err := c.QuizService.Submit(ctx.Request.Context(), p.UserID, answers)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, res)
}

// GetAnswerKeys godoc
// @Summary Raw question bank including correct answers (teacher only)
// @Tags admin
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Question}
// @Failure 403 {object} util.Response
// @Router /api/admin/questions/raw [get]
func (c *QuizController) GetAnswerKeys(ctx *gin.Context) {
	p := util.GetPrincipal(ctx)
	if p == nil {
		util.Unauthorized(ctx)
		return
	}

	qs, err := c.QuizService.AnswerKeys(ctx.Request.Context())
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	logger.Log.Info("answer keys exported",
		zap.String("username", p.Username),
		zap.Int("questions", len(qs)),
	)
	util.Success(ctx, qs)
}
