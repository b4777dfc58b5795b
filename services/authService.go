package services

import (
	"context"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/unnastore/unna-api/apperrors"
	"github.com/unnastore/unna-api/models"
	"github.com/unnastore/unna-api/repositories"
)

const (
	bcryptCost      = 10
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService struct {
	users         repositories.UserRepository
	accessSecret  []byte
	refreshSecret []byte
}

func NewAuthService(users repositories.UserRepository, accessSecret, refreshSecret string) *AuthService {
	return &AuthService{
		users:         users,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("a user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.Validation("invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperrors.Validation("invalid email or password", nil)
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, input *RefreshInput) (*TokenPair, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(input.RefreshToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.refreshSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Validation("invalid or expired refresh token", nil)
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return nil, apperrors.Validation("invalid or expired refresh token", nil)
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, apperrors.Validation("invalid or expired refresh token", nil)
	}

	user, err := s.users.FindByID(ctx, uint(userID))
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.Validation("invalid or expired refresh token", nil)
	}
	return s.issueTokens(user)
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user, "access", s.accessSecret, accessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}
	refresh, err := s.signToken(user, "refresh", s.refreshSecret, refreshTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to generate token", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(user *models.User, typ string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"role":  string(user.Role),
		"typ":   typ,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}
