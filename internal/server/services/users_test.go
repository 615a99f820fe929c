package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/groundstation/internal/common"
	"github.com/dmitrijs2005/groundstation/internal/server/models"
	"github.com/dmitrijs2005/groundstation/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

func newUserService() *UserService {
	return NewUserService(nil, repomanager.NewInMemoryRepositoryManager(), "test-secret", time.Hour)
}

func TestUserService_CreateAndLogin(t *testing.T) {
	s := newUserService()
	ctx := context.Background()

	list, err := s.Create(ctx, &UserSubmit{Username: "op", Role: models.RoleOperator, Password: "pw"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Empty(t, list[0].PasswordHash)

	token, u, err := s.Login(ctx, "op", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, models.RoleOperator, u.Role)

	claims, err := s.Authenticate(token)
	require.NoError(t, err)
	require.Equal(t, "op", claims.Username)
}

func TestUserService_LoginWrongPassword(t *testing.T) {
	s := newUserService()
	ctx := context.Background()

	_, err := s.Create(ctx, &UserSubmit{Username: "op", Password: "pw"})
	require.NoError(t, err)

	_, _, err = s.Login(ctx, "op", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidLoginPassword)

	_, _, err = s.Login(ctx, "ghost", "pw")
	require.ErrorIs(t, err, common.ErrInvalidLoginPassword)
}

func TestUserService_CreateValidation(t *testing.T) {
	s := newUserService()
	_, err := s.Create(context.Background(), &UserSubmit{Username: "", Password: ""})
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestUserService_UpdateKeepsPassword(t *testing.T) {
	s := newUserService()
	ctx := context.Background()

	list, err := s.Create(ctx, &UserSubmit{Username: "op", Password: "pw"})
	require.NoError(t, err)

	// change role, leave password empty
	_, err = s.Update(ctx, &UserSubmit{ID: list[0].ID, Username: "op", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, u, err := s.Login(ctx, "op", "pw")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, u.Role)
}

func TestUserService_UnknownRoleBecomesViewer(t *testing.T) {
	s := newUserService()
	list, err := s.Create(context.Background(), &UserSubmit{Username: "x", Role: "superuser", Password: "p"})
	require.NoError(t, err)
	require.Equal(t, models.RoleViewer, list[0].Role)
}

func TestUserService_EnsureAdmin_Idempotent(t *testing.T) {
	s := newUserService()
	ctx := context.Background()

	require.NoError(t, s.EnsureAdmin(ctx, "changeme"))
	require.NoError(t, s.EnsureAdmin(ctx, "changeme"))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, models.RoleAdmin, list[0].Role)
}
