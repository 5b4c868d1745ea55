package util

import (
	"biokuiz/internal/model"
	"biokuiz/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

var errorStatus = []struct {
	target error
	status int
}{
	{ErrMissingCredentials, http.StatusBadRequest},
	{ErrInvalidRole, http.StatusBadRequest},
	{model.ErrUnknownRole, http.StatusBadRequest},
	{model.ErrInvalidQuestion, http.StatusBadRequest},
	{model.ErrUnknownQuestionType, http.StatusBadRequest},
	{ErrEmptyPassword, http.StatusBadRequest},
	{ErrInvalidMaterial, http.StatusBadRequest},
	{ErrEmptyQuestionBank, http.StatusBadRequest},
	{ErrResetTokenInvalid, http.StatusBadRequest},
	{ErrUnsupportedFile, http.StatusBadRequest},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrSessionNotFound, http.StatusUnauthorized},
	{ErrAnswerKeysDisabled, http.StatusForbidden},
	{ErrUserNotFound, http.StatusNotFound},
	{ErrMaterialNotFound, http.StatusNotFound},
	{ErrQuestionNotFound, http.StatusNotFound},
	{ErrUsernameTaken, http.StatusConflict},
	{ErrResetTokenExpired, http.StatusGone},
}

// StatusFor maps a domain error to its HTTP status, 500 when unknown.
func StatusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// Fail writes err with the status StatusFor picks. Unknown errors are
// logged and replaced with a generic message.
func Fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		LogInternalError(c, err)
		return
	}
	Error(c, status, err.Error())
}
