package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"remitra/internal/config"
	"remitra/internal/domain"
	"remitra/internal/service"
	"remitra/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-do-not-use",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "remitra-test",
	}
}

func testUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: string(hash),
		FullName:     "Ana Torres",
		Role:         domain.RoleOperator,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	user := testUser(t, "correct-horse")
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleOperator, claims.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(testUser(t, "correct-horse"), nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ana@example.com",
		Password: "wrong-password",
	})

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	repo.On("GetByEmail", mock.Anything, "nadie@example.com").Return(nil, domain.ErrNotFound)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nadie@example.com",
		Password: "whatever-pass",
	})

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	user := testUser(t, "correct-horse")
	user.IsActive = false
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	user := testUser(t, "correct-horse")
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// An access token must not be accepted on the refresh endpoint.
	refreshed, err := svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.Nil(t, refreshed)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	user := testUser(t, "correct-horse")
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(user, nil)
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	pair, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ana@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_Register_DefaultsRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "  Nuevo@Example.com ",
		Password: "a-long-password",
		FullName: "Nuevo Operador",
		Role:     "superuser",
	})

	require.NoError(t, err)
	assert.Equal(t, "nuevo@example.com", user.Email)
	assert.Equal(t, domain.RoleOperator, user.Role)
	assert.True(t, user.IsActive)
}

func TestAuthService_RequestPasswordReset_UnknownEmailSilent(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	repo.On("GetByEmail", mock.Anything, "nadie@example.com").Return(nil, domain.ErrNotFound)

	err := svc.RequestPasswordReset(context.Background(), "nadie@example.com")

	assert.NoError(t, err)
	sender.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_RequestPasswordReset_StoresHashedToken(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	user := testUser(t, "correct-horse")
	var sentToken string
	repo.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ResetTokenHash != nil && u.ResetTokenExpires != nil
	})).Return(nil)
	sender.On("SendPasswordResetEmail", mock.Anything, user.Email, user.FullName, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { sentToken = args.String(3) }).
		Return(nil)

	err := svc.RequestPasswordReset(context.Background(), user.Email)

	require.NoError(t, err)
	require.NotEmpty(t, sentToken)
	// The raw token is only ever emailed; the stored hash must differ.
	assert.NotEqual(t, sentToken, *user.ResetTokenHash)
	sender.AssertExpectations(t)
}

func TestAuthService_ResetPassword_ExpiredToken(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	user := testUser(t, "correct-horse")
	expired := time.Now().UTC().Add(-time.Minute)
	hash := "stored-hash"
	user.ResetTokenHash = &hash
	user.ResetTokenExpires = &expired
	repo.On("GetByResetTokenHash", mock.Anything, mock.AnythingOfType("string")).Return(user, nil)

	err := svc.ResetPassword(context.Background(), service.ResetPasswordInput{
		Token:       "some-token",
		NewPassword: "new-long-password",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
}

func TestAuthService_ResetPassword_InvalidToken(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewAuthService(repo, sender, testJWTConfig())

	repo.On("GetByResetTokenHash", mock.Anything, mock.AnythingOfType("string")).Return(nil, domain.ErrNotFound)

	err := svc.ResetPassword(context.Background(), service.ResetPasswordInput{
		Token:       "bogus",
		NewPassword: "new-long-password",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
}
