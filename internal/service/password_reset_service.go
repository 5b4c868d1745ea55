package service

import (
	"biokuiz/internal/config"
	"biokuiz/internal/repository"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resetAudience = "reset-password"

type resetClaims struct {
	// Fingerprint of the password hash at issue time; the token stops
	// verifying once the password changes.
	PasswordTag string `json:"pwd"`
	jwt.RegisteredClaims
}

type PasswordResetService struct {
	UserRepo *repository.UserRepository
	Auth     *AuthService
	secret   []byte
	maxAge   time.Duration
	baseURL  string
	now      func() time.Time
}

func NewPasswordResetService(userRepo *repository.UserRepository, auth *AuthService, cfg *config.Config) *PasswordResetService {
	return &PasswordResetService{
		UserRepo: userRepo,
		Auth:     auth,
		secret:   []byte(cfg.Reset.Secret),
		maxAge:   cfg.Reset.MaxAge,
		baseURL:  strings.TrimRight(cfg.Server.BaseURL, "/"),
		now:      time.Now,
	}
}

func passwordTag(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}

// Issue signs a reset token for username and returns it with the link to
// the confirmation endpoint.
func (s *PasswordResetService) Issue(ctx context.Context, username string) (string, string, error) {
	user, err := s.UserRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", util.ErrUserNotFound
	} else if err != nil {
		return "", "", err
	}

	now := s.now()
	claims := resetClaims{
		PasswordTag: passwordTag(user.Password),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Audience:  jwt.ClaimStrings{resetAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}

	link := s.baseURL + "/api/password/reset/" + url.PathEscape(token)
	logger.Log.Info("password reset issued", zap.String("username", user.Username))
	return token, link, nil
}

func (s *PasswordResetService) parse(token string) (*resetClaims, error) {
	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(resetAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, util.ErrResetTokenExpired
	}
	if err != nil {
		return nil, util.ErrResetTokenInvalid
	}
	return claims, nil
}

// Verify returns the username a token was issued for.
func (s *PasswordResetService) Verify(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}

	user, err := s.UserRepo.FindByUsername(ctx, claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrResetTokenInvalid
	} else if err != nil {
		return "", err
	}
	if passwordTag(user.Password) != claims.PasswordTag {
		return "", util.ErrResetTokenInvalid
	}
	return user.Username, nil
}

// Reset sets a new password for the token's user.
func (s *PasswordResetService) Reset(ctx context.Context, token, newPassword string) error {
	username, err := s.Verify(ctx, token)
	if err != nil {
		return err
	}
	if newPassword == "" {
		return util.ErrEmptyPassword
	}

	user, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.Auth.ChangePassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	logger.Log.Info("password reset completed", zap.String("username", username))
	return nil
}
