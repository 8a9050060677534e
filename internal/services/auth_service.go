package services

import (
	"context"

	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

// AuthService interface
type AuthService interface {
	// Login verifies the credentials and issues a token pair. Unknown
	// email and wrong password both return utils.ErrInvalidCredentials;
	// callers must not distinguish them.
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)

	RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error)
	Logout(ctx context.Context, refreshTokenString string) error
}

type authService struct {
	userRepo     repositories.UserRepository
	buildingRepo repositories.BuildingRepository
	jwtService   JWTService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	buildingRepo repositories.BuildingRepository,
	jwtService JWTService,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		buildingRepo: buildingRepo,
		jwtService:   jwtService,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if user == nil {
		// Burn a hash comparison anyway to keep timing uniform.
		utils.CheckPasswordHash(password, dummyBcryptHash)
		return nil, "", "", utils.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", "", utils.ErrInvalidCredentials
	}

	// Staff of a deactivated building cannot sign in.
	if user.Role != models.RoleSuperAdmin {
		building, err := s.buildingRepo.GetByID(ctx, user.BuildingID)
		if err != nil {
			return nil, "", "", err
		}
		if building == nil || !building.Active {
			return nil, "", "", utils.ErrBuildingInactive
		}
	}

	access, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	utils.Logger.WithField("user_id", user.ID).Info("User logged in")
	return user, access, refresh.Token, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	return s.jwtService.RefreshToken(ctx, refreshTokenString)
}

func (s *authService) Logout(ctx context.Context, refreshTokenString string) error {
	return s.jwtService.Logout(ctx, refreshTokenString)
}

// A valid bcrypt hash of a random string nobody knows.
const dummyBcryptHash = "$2a$14$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
