package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
)

// SettingsService interface
type SettingsService interface {
	GetSystem(ctx context.Context) (*models.SystemSettings, error)
	UpdateSystem(ctx context.Context, req dtos.UpdateSystemSettingsRequest) (*models.SystemSettings, error)
	GetBuilding(ctx context.Context, buildingID uuid.UUID) (*models.BuildingSettings, error)
	UpdateBuilding(ctx context.Context, buildingID uuid.UUID, req dtos.UpdateBuildingSettingsRequest) (*models.BuildingSettings, error)
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
}

func NewSettingsService(settingsRepo repositories.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetSystem(ctx context.Context) (*models.SystemSettings, error) {
	settings, err := s.settingsRepo.GetSystem(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := models.DefaultSystemSettings()
		return &defaults, nil
	}
	return settings, nil
}

func (s *settingsService) UpdateSystem(ctx context.Context, req dtos.UpdateSystemSettingsRequest) (*models.SystemSettings, error) {
	settings := &models.SystemSettings{
		SupportEmail:          req.SupportEmail,
		BrandName:             req.BrandName,
		BrandSlogan:           req.BrandSlogan,
		LGPDText:              req.LGPDText,
		VisitorArrivalSubject: req.VisitorArrivalSubject,
		VisitorArrivalBody:    req.VisitorArrivalBody,
	}
	if err := s.settingsRepo.UpsertSystem(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *settingsService) GetBuilding(ctx context.Context, buildingID uuid.UUID) (*models.BuildingSettings, error) {
	settings, err := s.settingsRepo.GetBuilding(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		defaults := models.DefaultBuildingSettings(buildingID)
		return &defaults, nil
	}
	return settings, nil
}

func (s *settingsService) UpdateBuilding(ctx context.Context, buildingID uuid.UUID, req dtos.UpdateBuildingSettingsRequest) (*models.BuildingSettings, error) {
	settings := &models.BuildingSettings{
		BuildingID:       buildingID,
		DocumentRequired: req.DocumentRequired,
		SelfieRequired:   req.SelfieRequired,
		DefaultLanguage:  req.DefaultLanguage,
	}
	if err := s.settingsRepo.UpsertBuilding(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
