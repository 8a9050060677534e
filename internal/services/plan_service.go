package services

import (
	"context"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

// PlanService interface
type PlanService interface {
	List(ctx context.Context) ([]*models.Plan, error)
	Update(ctx context.Context, key string, req dtos.UpdatePlanRequest) (*models.Plan, error)

	// SeedDefaults inserts the default catalog when the table is empty.
	SeedDefaults(ctx context.Context) error
}

type planService struct {
	planRepo repositories.PlanRepository
}

func NewPlanService(planRepo repositories.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

func (s *planService) List(ctx context.Context) ([]*models.Plan, error) {
	return s.planRepo.List(ctx)
}

func (s *planService) Update(ctx context.Context, key string, req dtos.UpdatePlanRequest) (*models.Plan, error) {
	plan, err := s.planRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrNotFound
	}

	plan.Name = req.Name
	plan.MinApartments = req.MinApartments
	plan.MaxApartments = req.MaxApartments
	plan.NotificationLimit = req.NotificationLimit
	plan.MonthlyPrice = req.MonthlyPrice
	plan.Active = req.Active
	plan.Description = req.Description

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *planService) SeedDefaults(ctx context.Context) error {
	n, err := s.planRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, p := range defaultPlans() {
		plan := p
		if err := s.planRepo.Create(ctx, &plan); err != nil {
			return err
		}
	}
	utils.Logger.Info("Seeded default plan catalog")
	return nil
}

func defaultPlans() []models.Plan {
	return []models.Plan{
		{
			Key: "basic", Name: "Básico",
			MinApartments: 1, MaxApartments: 50,
			NotificationLimit: 500, MonthlyPrice: 99.90, Active: true,
			Description: "Para condomínios pequenos",
		},
		{
			Key: "standard", Name: "Padrão",
			MinApartments: 51, MaxApartments: 150,
			NotificationLimit: 2000, MonthlyPrice: 199.90, Active: true,
			Description: "Para condomínios médios",
		},
		{
			Key: "premium", Name: "Premium",
			MinApartments: 151, MaxApartments: 500,
			NotificationLimit: models.UnlimitedNotifications, MonthlyPrice: 399.90, Active: true,
			Description: "Notificações ilimitadas",
		},
	}
}
