package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"remitra/internal/config"
	"remitra/internal/domain"
	"remitra/internal/port"
)

// Claims represents the JWT claims carried by access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email"`
	Role   domain.UserRole `json:"role"`
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginInput is the DTO for login requests.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterInput is the DTO for operator registration.
type RegisterInput struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	FullName string          `json:"full_name" binding:"required"`
	Role     domain.UserRole `json:"role"`
}

// RefreshInput is the DTO for token refresh requests.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordInput is the DTO for requesting a password reset.
type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordInput is the DTO for completing a password reset.
type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// AuthService defines the authentication contract.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(tokenString string) (*Claims, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}

type authService struct {
	userRepo port.UserRepository
	email    port.EmailSender
	cfg      config.JWTConfig
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(userRepo port.UserRepository, email port.EmailSender, cfg config.JWTConfig) AuthService {
	return &authService{userRepo: userRepo, email: email, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.generateTokenPair(user)
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register: hashing password: %w", err)
	}

	role := input.Role
	if !role.Valid() {
		role = domain.RoleOperator
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}
	return user, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateTokenString(refreshToken, "refresh")
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return s.generateTokenPair(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	return s.validateTokenString(tokenString, "access")
}

// RequestPasswordReset silently succeeds for unknown emails so the endpoint
// cannot be used to probe registered addresses.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("auth.RequestPasswordReset: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("auth.RequestPasswordReset: generating token: %w", err)
	}
	token := hex.EncodeToString(raw)
	tokenHash := hashResetToken(token)
	expires := time.Now().UTC().Add(time.Hour)

	user.ResetTokenHash = &tokenHash
	user.ResetTokenExpires = &expires
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("auth.RequestPasswordReset: %w", err)
	}

	if err := s.email.SendPasswordResetEmail(ctx, user.Email, user.FullName, token); err != nil {
		log.Printf("service.Auth: sending reset email to %s failed: %v", user.Email, err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, err := s.userRepo.GetByResetTokenHash(ctx, hashResetToken(input.Token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidResetToken
		}
		return fmt.Errorf("auth.ResetPassword: %w", err)
	}
	if user.ResetTokenExpires == nil || time.Now().UTC().After(*user.ResetTokenExpires) {
		return domain.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth.ResetPassword: hashing password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.ResetTokenHash = nil
	user.ResetTokenExpires = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("auth.ResetPassword: %w", err)
	}
	return nil
}

func (s *authService) generateTokenPair(user *domain.User) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)
	refreshExpiry := now.Add(s.cfg.RefreshTokenExpiry)

	accessClaims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{"access"},
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	refreshClaims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{"refresh"},
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	refreshTokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshTokenObj.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) validateTokenString(tokenString, audience string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	aud, _ := claims.GetAudience()
	found := false
	for _, a := range aud {
		if a == audience {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
