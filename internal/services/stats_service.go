package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/repositories"
)

// StatsService interface
type StatsService interface {
	// VisitorStats powers the reception dashboard.
	VisitorStats(ctx context.Context, buildingID uuid.UUID) (*dtos.VisitorStatsResponse, error)

	// PlatformStats powers the super admin dashboard.
	PlatformStats(ctx context.Context) (*dtos.SuperAdminStatsResponse, error)
}

type statsService struct {
	buildingRepo repositories.BuildingRepository
	visitorRepo  repositories.VisitorRepository
	deliveryRepo repositories.DeliveryRepository
	planRepo     repositories.PlanRepository
}

func NewStatsService(
	buildingRepo repositories.BuildingRepository,
	visitorRepo repositories.VisitorRepository,
	deliveryRepo repositories.DeliveryRepository,
	planRepo repositories.PlanRepository,
) StatsService {
	return &statsService{
		buildingRepo: buildingRepo,
		visitorRepo:  visitorRepo,
		deliveryRepo: deliveryRepo,
		planRepo:     planRepo,
	}
}

// Completed visits sampled for the average-stay figure.
const avgStaySample = 100

func (s *statsService) VisitorStats(ctx context.Context, buildingID uuid.UUID) (*dtos.VisitorStatsResponse, error) {
	now := time.Now()

	today, err := s.visitorRepo.CountSince(ctx, buildingID, startOfDay(now))
	if err != nil {
		return nil, err
	}
	active, err := s.visitorRepo.CountActive(ctx, buildingID)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthTotal, err := s.visitorRepo.CountSince(ctx, buildingID, monthStart)
	if err != nil {
		return nil, err
	}

	completed, err := s.visitorRepo.ListCompleted(ctx, buildingID, avgStaySample)
	if err != nil {
		return nil, err
	}
	var total time.Duration
	var n int
	for _, v := range completed {
		if v.CheckOutTime == nil {
			continue
		}
		total += v.CheckOutTime.Sub(v.CheckInTime)
		n++
	}
	avg := time.Duration(0)
	if n > 0 {
		avg = total / time.Duration(n)
	}

	return &dtos.VisitorStatsResponse{
		Today:       today,
		Active:      active,
		MonthTotal:  monthTotal,
		AverageStay: formatStay(avg),
	}, nil
}

func (s *statsService) PlatformStats(ctx context.Context) (*dtos.SuperAdminStatsResponse, error) {
	buildings, err := s.buildingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	plans, err := s.planRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	priceByKey := make(map[string]float64, len(plans))
	for _, p := range plans {
		priceByKey[p.Key] = p.MonthlyPrice
	}

	resp := &dtos.SuperAdminStatsResponse{TotalBuildings: len(buildings)}
	for _, b := range buildings {
		if !b.Active {
			continue
		}
		resp.ActiveBuildings++
		resp.MonthlyRevenue += priceByKey[b.PlanKey]
	}

	resp.TotalDeliveries, err = s.deliveryRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// formatStay renders a duration as "XhYmin", e.g. "1h05min".
func formatStay(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dmin", m)
	}
	return fmt.Sprintf("%dh%02dmin", h, m)
}
