package service

import (
	"biokuiz/internal/config"
	"biokuiz/internal/model"
	"biokuiz/internal/repository"
	"biokuiz/internal/util"
	"biokuiz/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionStore keeps server-side sessions keyed by opaque token.
type SessionStore interface {
	Save(ctx context.Context, token string, p model.Principal, ttl time.Duration) error
	Find(ctx context.Context, token string) (*model.Principal, error)
	Delete(ctx context.Context, token string) error
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Sessions SessionStore
	Cfg      *config.SessionConfig
}

func NewAuthService(userRepo *repository.UserRepository, sessions SessionStore, cfg *config.SessionConfig) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Sessions: sessions,
		Cfg:      cfg,
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates an account. The role is fixed from here on.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, util.ErrMissingCredentials
	}

	r, err := model.ParseUserRole(role)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", util.ErrInvalidRole, role)
	}

	_, err = s.UserRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, Password: hashed, Role: r}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.String("username", username), zap.String("role", string(r)))
	return user, nil
}

// Login checks credentials and opens a session, returning its token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, util.ErrInvalidCredentials
	} else if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token := uuid.NewString()
	p := model.Principal{UserID: user.ID, Username: user.Username, Role: user.Role}
	if err := s.Sessions.Save(ctx, token, p, s.Cfg.TTL); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}
	return token, user, nil
}

// Authenticate resolves a session token to its principal.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Principal, error) {
	if token == "" {
		return nil, util.ErrSessionNotFound
	}
	return s.Sessions.Find(ctx, token)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.Sessions.Delete(ctx, token)
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, newPassword string) error {
	if newPassword == "" {
		return util.ErrEmptyPassword
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	err = s.UserRepo.UpdatePassword(ctx, userID, hashed)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	}
	return err
}
