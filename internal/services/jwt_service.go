package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/config"
	"github.com/portaria-app/backend/internal/middleware"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

// ---------------------------------------------------------------------
// JWTService interface
// ---------------------------------------------------------------------

type JWTService interface {
	GenerateAccessToken(user *models.User) (string, error)
	GenerateRefreshToken(ctx context.Context, user *models.User) (*models.RefreshToken, error)

	// RefreshToken rotates: the presented refresh token is removed and a
	// fresh access/refresh pair is issued for the same user.
	RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error)

	Logout(ctx context.Context, refreshTokenString string) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type jwtService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	tokenRepo     repositories.TokenRepository
	userRepo      repositories.UserRepository
}

func NewJWTService(
	cfg *config.Config,
	tokenRepo repositories.TokenRepository,
	userRepo repositories.UserRepository,
) JWTService {
	return &jwtService{
		secret:        cfg.JWTSecret,
		accessExpiry:  cfg.AccessTokenExpiry,
		refreshExpiry: cfg.RefreshTokenExpiry,
		tokenRepo:     tokenRepo,
		userRepo:      userRepo,
	}
}

func (j *jwtService) GenerateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  middleware.TokenIssuer,
		"sub":  user.ID.String(),
		"exp":  now.Add(j.accessExpiry).Unix(),
		"iat":  now.Unix(),
		"jti":  uuid.NewString(),
		"role": string(user.Role),
	}
	if user.BuildingID != uuid.Nil {
		claims["building_id"] = user.BuildingID.String()
	}
	if user.CompanyID != uuid.Nil {
		claims["company_id"] = user.CompanyID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *jwtService) GenerateRefreshToken(ctx context.Context, user *models.User) (*models.RefreshToken, error) {
	rt := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     utils.SecureToken(64),
		ExpiresAt: time.Now().Add(j.refreshExpiry),
	}
	if err := j.tokenRepo.CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (j *jwtService) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	stored, err := j.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return "", "", err
	}
	if stored == nil {
		return "", "", utils.ErrInvalidCredentials
	}
	if stored.IsExpired() {
		// Expired rows are dead weight, drop them eagerly.
		_ = j.tokenRepo.RemoveRefreshToken(ctx, stored.ID)
		return "", "", utils.ErrInvalidCredentials
	}

	user, err := j.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		return "", "", utils.ErrInvalidCredentials
	}

	// Rotate before issuing so a replayed old token fails.
	if err := j.tokenRepo.RemoveRefreshToken(ctx, stored.ID); err != nil {
		return "", "", err
	}

	access, err := j.GenerateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := j.GenerateRefreshToken(ctx, user)
	if err != nil {
		return "", "", err
	}
	return access, refresh.Token, nil
}

func (j *jwtService) Logout(ctx context.Context, refreshTokenString string) error {
	stored, err := j.tokenRepo.GetRefreshToken(ctx, refreshTokenString)
	if err != nil {
		return err
	}
	if stored == nil {
		// Logout is idempotent.
		return nil
	}
	return j.tokenRepo.RemoveRefreshToken(ctx, stored.ID)
}
