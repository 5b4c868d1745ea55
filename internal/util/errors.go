package util

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmptyPassword      = errors.New("new password is required")

	ErrSessionNotFound = errors.New("session not found or expired")

	ErrResetTokenExpired = errors.New("password reset link has expired")
	ErrResetTokenInvalid = errors.New("password reset link is invalid")

	ErrMaterialNotFound  = errors.New("material not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidMaterial   = errors.New("title and text are required")
	ErrEmptyQuestionBank = errors.New("question bank is empty")

	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrAnswerKeysDisabled = errors.New("answer key export is disabled")
)
