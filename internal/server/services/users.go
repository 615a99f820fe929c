package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/common"
	"github.com/dmitrijs2005/groundstation/internal/protocol"
	"github.com/dmitrijs2005/groundstation/internal/server/auth"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/repomanager"
)

// UserService manages station accounts and issues access tokens.
type UserService struct {
	db            *sql.DB
	rm            repomanager.RepositoryManager
	secretKey     []byte
	tokenValidity time.Duration
}

func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, secretKey string, tokenValidity time.Duration) *UserService {
	return &UserService{db: db, rm: rm, secretKey: []byte(secretKey), tokenValidity: tokenValidity}
}

// UserSubmit is the wire payload of submit-user / edit-user.
type UserSubmit = protocol.UserSubmit

// Login verifies credentials and returns a signed access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	u, err := s.rm.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidLoginPassword
		}
		return "", nil, err
	}

	if !auth.VerifyPassword(password, u.PasswordHash) {
		return "", nil, common.ErrInvalidLoginPassword
	}

	token, err := auth.GenerateToken(u.ID, u.Username, u.Role, s.secretKey, s.tokenValidity)
	if err != nil {
		return "", nil, fmt.Errorf("token error: %w", err)
	}
	return token, u, nil
}

// Authenticate validates a token and returns its claims.
func (s *UserService) Authenticate(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, s.secretKey)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.rm.Users(s.db).List(ctx)
}

func (s *UserService) Create(ctx context.Context, sub *UserSubmit) ([]models.User, error) {
	if sub.Username == "" || sub.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(sub.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{Username: sub.Username, Role: roleOrDefault(sub.Role), PasswordHash: hash}
	if _, err := s.rm.Users(s.db).Create(ctx, u); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *UserService) Update(ctx context.Context, sub *UserSubmit) ([]models.User, error) {
	if sub.Username == "" {
		return nil, fmt.Errorf("%w: username is required", common.ErrorValidation)
	}

	var newHash string
	if sub.Password != "" {
		var err error
		if newHash, err = auth.HashPassword(sub.Password); err != nil {
			return nil, err
		}
	}

	u := &models.User{ID: sub.ID, Username: sub.Username, Role: roleOrDefault(sub.Role)}
	if _, err := s.rm.Users(s.db).Update(ctx, u, newHash); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *UserService) Delete(ctx context.Context, ids []int64) ([]models.User, error) {
	if err := s.rm.Users(s.db).Delete(ctx, ids); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// EnsureAdmin creates the default admin account on first start so a fresh
// station is reachable.
func (s *UserService) EnsureAdmin(ctx context.Context, password string) error {
	_, err := s.rm.Users(s.db).GetByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = s.rm.Users(s.db).Create(ctx, &models.User{Username: "admin", Role: models.RoleAdmin, PasswordHash: hash})
	return err
}

func roleOrDefault(role string) string {
	switch role {
	case models.RoleAdmin, models.RoleOperator, models.RoleViewer:
		return role
	default:
		return models.RoleViewer
	}
}
