package services_test

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestMain is used to setup test environment
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newAuthService(t *testing.T) (*services.AuthService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	service := services.NewAuthService(
		repositories.NewGORMUserRepository(db),
		repositories.NewGORMTokenRepository(db),
		bcrypt.MinCost,
	)
	return service, db
}

func TestAuthService_RegisterAndResolve(t *testing.T) {
	service, _ := newAuthService(t)
	ctx := context.Background()

	result, err := service.Register(ctx, services.RegisterInput{
		Name:     "Ann",
		Email:    "Ann@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "ann@example.com", result.User.Email)
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.NotEqual(t, "secret1", result.User.Password)

	id, secret, found := strings.Cut(result.AccessToken, "|")
	require.True(t, found)
	assert.NotEmpty(t, id)
	assert.Len(t, secret, 40)

	p, user, err := service.Resolve(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, p.ID)
	assert.Equal(t, models.RoleUser, p.Role)
	assert.NotZero(t, p.TokenID)
	assert.Equal(t, result.User.ID, user.ID)
}

func TestAuthService_Register_Validation(t *testing.T) {
	service, db := newAuthService(t)
	testutil.CreateUser(t, db, "taken@example.com", models.RoleUser)

	_, err := service.Register(context.Background(), services.RegisterInput{})
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"email", "name", "password"}, verr.Fields())

	_, err = service.Register(context.Background(), services.RegisterInput{
		Name:     "Dup",
		Email:    "TAKEN@example.com",
		Password: "abc",
	})
	verr, ok = apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, []string{"The email has already been taken."}, verr.Errors["email"])
	assert.Equal(t, []string{"The password field must be at least 6 characters."}, verr.Errors["password"])
}

func TestAuthService_Register_PasswordBeyondBcryptLimit(t *testing.T) {
	service, db := newAuthService(t)

	for name, password := range map[string]string{
		"too many characters": strings.Repeat("p", 80),
		"too many bytes":      strings.Repeat("€", 30),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := service.Register(context.Background(), services.RegisterInput{
				Name:     "Long",
				Email:    "long@example.com",
				Password: password,
			})
			verr, ok := apperr.AsValidation(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, []string{"password"}, verr.Fields())
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthService_Login(t *testing.T) {
	service, db := newAuthService(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "bob@example.com", models.RoleAdmin)

	result, err := service.Login(ctx, services.LoginInput{Email: "BOB@example.com", Password: testutil.Password})
	require.NoError(t, err)
	assert.Equal(t, u.ID, result.User.ID)

	p, _, err := service.Resolve(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())

	_, err = service.Login(ctx, services.LoginInput{Email: "bob@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = service.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: testutil.Password})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = service.Login(ctx, services.LoginInput{Email: "not-an-email"})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestAuthService_Resolve_Rejects(t *testing.T) {
	service, db := newAuthService(t)
	ctx := context.Background()
	testutil.CreateUser(t, db, "cy@example.com", models.RoleUser)

	result, err := service.Login(ctx, services.LoginInput{Email: "cy@example.com", Password: testutil.Password})
	require.NoError(t, err)
	id, _, _ := strings.Cut(result.AccessToken, "|")

	for name, token := range map[string]string{
		"empty":        "",
		"no separator": "abcdef",
		"bad id":       "x|abcdef",
		"zero id":      "0|abcdef",
		"wrong secret": id + "|" + strings.Repeat("a", 40),
		"unknown id":   "9999|abcdef",
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := service.Resolve(ctx, token)
			assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
		})
	}
}

func TestAuthService_Revoke(t *testing.T) {
	service, db := newAuthService(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, db, "dee@example.com", models.RoleUser)

	first, err := service.Login(ctx, services.LoginInput{Email: "dee@example.com", Password: testutil.Password})
	require.NoError(t, err)
	second, err := service.Login(ctx, services.LoginInput{Email: "dee@example.com", Password: testutil.Password})
	require.NoError(t, err)

	p, _, err := service.Resolve(ctx, first.AccessToken)
	require.NoError(t, err)
	require.NoError(t, service.Revoke(ctx, p.TokenID))

	_, _, err = service.Resolve(ctx, first.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	_, _, err = service.Resolve(ctx, second.AccessToken)
	assert.NoError(t, err, "revoking one token leaves the others valid")

	require.NoError(t, service.RevokeAllFor(ctx, u.ID))
	_, _, err = service.Resolve(ctx, second.AccessToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestAuthService_Resolve_StorageFailure(t *testing.T) {
	tokenRepo := new(MockTokenRepository)
	service := services.NewAuthService(new(MockUserRepository), tokenRepo, bcrypt.MinCost)

	tokenRepo.On("GetByID", mock.Anything, uint(3)).Return(nil, assert.AnError).Once()

	_, _, err := service.Resolve(context.Background(), "3|secret")
	assert.ErrorIs(t, err, apperr.ErrInternal)
	tokenRepo.AssertExpectations(t)
}
