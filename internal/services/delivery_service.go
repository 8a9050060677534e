package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

// DeliveryService interface
type DeliveryService interface {
	// RegisterDelivery notifies every phone of the apartment, records
	// the event and charges the building's quota by the number of
	// phones actually reached. Quota exhaustion aborts before any
	// notification is sent.
	RegisterDelivery(ctx context.Context, buildingID, doormanID uuid.UUID, req dtos.RegisterDeliveryRequest) (*models.Delivery, error)

	ListDeliveries(ctx context.Context, buildingID uuid.UUID, f repositories.DeliveryFilter) ([]*models.Delivery, error)
	DeliveriesToday(ctx context.Context, buildingID uuid.UUID) ([]*models.Delivery, error)
	DeliveryStats(ctx context.Context, buildingID uuid.UUID, f repositories.DeliveryFilter) (*dtos.DeliveryStatsResponse, error)
}

type deliveryService struct {
	buildingRepo  repositories.BuildingRepository
	apartmentRepo repositories.ApartmentRepository
	phoneRepo     repositories.PhoneRepository
	deliveryRepo  repositories.DeliveryRepository
	planRepo      repositories.PlanRepository
	notifier      Notifier
}

func NewDeliveryService(
	buildingRepo repositories.BuildingRepository,
	apartmentRepo repositories.ApartmentRepository,
	phoneRepo repositories.PhoneRepository,
	deliveryRepo repositories.DeliveryRepository,
	planRepo repositories.PlanRepository,
	notifier Notifier,
) DeliveryService {
	return &deliveryService{
		buildingRepo:  buildingRepo,
		apartmentRepo: apartmentRepo,
		phoneRepo:     phoneRepo,
		deliveryRepo:  deliveryRepo,
		planRepo:      planRepo,
		notifier:      notifier,
	}
}

func (s *deliveryService) RegisterDelivery(
	ctx context.Context,
	buildingID, doormanID uuid.UUID,
	req dtos.RegisterDeliveryRequest,
) (*models.Delivery, error) {
	building, err := s.buildingRepo.GetByID(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, utils.ErrNotFound
	}
	if !building.Active {
		return nil, utils.ErrBuildingInactive
	}

	period := time.Now().Format("2006-01")
	if err := s.checkQuota(ctx, building, period); err != nil {
		return nil, err
	}

	apartment, err := s.apartmentRepo.GetByNumber(ctx, buildingID, req.ApartmentNumber)
	if err != nil {
		return nil, err
	}
	if apartment == nil {
		return nil, utils.ErrNotFound
	}

	phones, err := s.phoneRepo.ListByApartmentID(ctx, apartment.ID)
	if err != nil {
		return nil, err
	}

	message := s.buildMessage(building, req)

	// Each phone is attempted independently; one bad number must not
	// block the rest of the apartment.
	var notified []string
	var failed []string
	for _, p := range phones {
		if nErr := s.notifier.Notify(p.Number, message); nErr != nil {
			failed = append(failed, p.Number)
			continue
		}
		notified = append(notified, p.Number)
	}

	delivery := &models.Delivery{
		ID:              uuid.New(),
		BuildingID:      buildingID,
		ApartmentID:     apartment.ID,
		ApartmentNumber: apartment.Number,
		DoormanID:       doormanID,
		Status:          deliveryStatus(len(notified), len(failed)),
		PhonesNotified:  notified,
		Message:         message,
		CreatedAt:       time.Now(),
	}

	// Usage is charged per phone reached, not per attempt.
	if err := s.deliveryRepo.CreateAndCount(ctx, delivery, period, len(notified)); err != nil {
		return nil, err
	}

	utils.Logger.WithFields(map[string]interface{}{
		"building_id": buildingID,
		"apartment":   apartment.Number,
		"status":      delivery.Status,
	}).Infof("Registered delivery: %d notified, %d failed", len(notified), len(failed))

	return delivery, nil
}

func (s *deliveryService) ListDeliveries(ctx context.Context, buildingID uuid.UUID, f repositories.DeliveryFilter) ([]*models.Delivery, error) {
	return s.deliveryRepo.ListByBuildingID(ctx, buildingID, f)
}

func (s *deliveryService) DeliveriesToday(ctx context.Context, buildingID uuid.UUID) ([]*models.Delivery, error) {
	midnight := startOfDay(time.Now())
	return s.deliveryRepo.ListByBuildingID(ctx, buildingID, repositories.DeliveryFilter{Since: midnight})
}

func (s *deliveryService) DeliveryStats(ctx context.Context, buildingID uuid.UUID, f repositories.DeliveryFilter) (*dtos.DeliveryStatsResponse, error) {
	stats, err := s.deliveryRepo.Stats(ctx, buildingID, f)
	if err != nil {
		return nil, err
	}

	resp := &dtos.DeliveryStatsResponse{
		Total:               stats.Total,
		Notified:            stats.Notified,
		Partial:             stats.Partial,
		Failed:              stats.Failed,
		TotalPhonesNotified: stats.TotalPhonesNotified,
		TopApartments:       make([]dtos.ApartmentEventRank, 0, len(stats.TopApartments)),
	}
	for _, r := range stats.TopApartments {
		resp.TopApartments = append(resp.TopApartments, dtos.ApartmentEventRank{
			ApartmentNumber: r.ApartmentNumber,
			Count:           r.Count,
		})
	}
	return resp, nil
}

// ---------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------

func (s *deliveryService) checkQuota(ctx context.Context, building *models.Building, period string) error {
	plan, err := s.planRepo.GetByKey(ctx, building.PlanKey)
	if err != nil {
		return err
	}
	if plan == nil {
		return utils.ErrUnknownPlan
	}
	if plan.Unlimited() {
		return nil
	}
	if building.UsedInPeriod(period) >= plan.NotificationLimit {
		return utils.ErrQuotaExceeded
	}
	return nil
}

func (s *deliveryService) buildMessage(building *models.Building, req dtos.RegisterDeliveryRequest) string {
	if req.Message != "" {
		return req.Message
	}
	if building.CustomMessage != "" {
		return building.CustomMessage
	}
	return fmt.Sprintf("Chegou uma encomenda para o apartamento %d na portaria.", req.ApartmentNumber)
}

func deliveryStatus(notified, failed int) models.DeliveryStatus {
	switch {
	case notified > 0 && failed == 0:
		return models.DeliveryNotified
	case notified > 0:
		return models.DeliveryPartial
	default:
		return models.DeliveryFailed
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
