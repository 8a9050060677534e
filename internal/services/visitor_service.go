package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

// VisitorService interface
type VisitorService interface {
	// CheckIn records an arriving visitor as one metered unit against
	// the building's quota and emails the host, best effort.
	CheckIn(ctx context.Context, buildingID uuid.UUID, req dtos.CheckInVisitorRequest) (*models.Visitor, error)

	ListVisitors(ctx context.Context, buildingID uuid.UUID, f repositories.VisitorFilter) ([]*models.Visitor, error)
	Checkout(ctx context.Context, buildingID, visitorID uuid.UUID) (*models.Visitor, error)

	// QRCodePNG renders the visitor's badge code as a PNG.
	QRCodePNG(ctx context.Context, buildingID, visitorID uuid.UUID) ([]byte, error)
}

type visitorService struct {
	buildingRepo repositories.BuildingRepository
	visitorRepo  repositories.VisitorRepository
	companyRepo  repositories.CompanyRepository
	settingsRepo repositories.SettingsRepository
	planRepo     repositories.PlanRepository
	emailSender  EmailSender
}

func NewVisitorService(
	buildingRepo repositories.BuildingRepository,
	visitorRepo repositories.VisitorRepository,
	companyRepo repositories.CompanyRepository,
	settingsRepo repositories.SettingsRepository,
	planRepo repositories.PlanRepository,
	emailSender EmailSender,
) VisitorService {
	return &visitorService{
		buildingRepo: buildingRepo,
		visitorRepo:  visitorRepo,
		companyRepo:  companyRepo,
		settingsRepo: settingsRepo,
		planRepo:     planRepo,
		emailSender:  emailSender,
	}
}

func (s *visitorService) CheckIn(ctx context.Context, buildingID uuid.UUID, req dtos.CheckInVisitorRequest) (*models.Visitor, error) {
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
	plan, err := s.planRepo.GetByKey(ctx, building.PlanKey)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, utils.ErrUnknownPlan
	}
	if !plan.Unlimited() && building.UsedInPeriod(period) >= plan.NotificationLimit {
		return nil, utils.ErrQuotaExceeded
	}

	if req.CompanyID != uuid.Nil {
		company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil || company.BuildingID != buildingID {
			return nil, utils.ErrNotFound
		}
	}

	now := time.Now()
	visitor := &models.Visitor{
		ID:                  uuid.New(),
		BuildingID:          buildingID,
		CompanyID:           req.CompanyID,
		FullName:            req.FullName,
		HostName:            req.HostName,
		RepresentingCompany: req.RepresentingCompany,
		Reason:              req.Reason,
		Companions:          req.Companions,
		Document:            req.Document,
		Status:              models.VisitorCheckedIn,
		CheckInTime:         now,
		QRCode:              utils.SecureToken(32),
	}

	if err := s.visitorRepo.CreateAndCount(ctx, visitor, period); err != nil {
		return nil, err
	}

	// Host notification is best effort; check-in stands either way.
	s.notifyHost(ctx, building, visitor)

	utils.Logger.WithField("building_id", buildingID).Infof("Visitor %q checked in", visitor.FullName)
	return visitor, nil
}

func (s *visitorService) ListVisitors(ctx context.Context, buildingID uuid.UUID, f repositories.VisitorFilter) ([]*models.Visitor, error) {
	return s.visitorRepo.ListByBuildingID(ctx, buildingID, f)
}

func (s *visitorService) Checkout(ctx context.Context, buildingID, visitorID uuid.UUID) (*models.Visitor, error) {
	at := time.Now()
	ok, err := s.visitorRepo.Checkout(ctx, buildingID, visitorID, at)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Missing, cross-tenant, or already out. All look the same.
		return nil, utils.ErrNotFound
	}
	return s.visitorRepo.GetByID(ctx, buildingID, visitorID)
}

func (s *visitorService) QRCodePNG(ctx context.Context, buildingID, visitorID uuid.UUID) ([]byte, error) {
	visitor, err := s.visitorRepo.GetByID(ctx, buildingID, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, utils.ErrNotFound
	}
	return qrcode.Encode(visitor.QRCode, qrcode.Medium, 256)
}

// ---------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------

// notifyHost emails the building admin that a visitor arrived, using
// the template from system settings. Failures are only logged.
func (s *visitorService) notifyHost(ctx context.Context, building *models.Building, visitor *models.Visitor) {
	if building.AdminEmail == "" {
		return
	}

	settings, err := s.settingsRepo.GetSystem(ctx)
	if err != nil || settings == nil {
		defaults := models.DefaultSystemSettings()
		settings = &defaults
	}

	subject := renderTemplate(settings.VisitorArrivalSubject, visitor)
	body := renderTemplate(settings.VisitorArrivalBody, visitor)

	if err := s.emailSender.Send(building.AdminEmail, subject, body); err != nil {
		utils.Logger.WithError(err).Warn("Visitor arrival email failed")
	}
}

func renderTemplate(tpl string, v *models.Visitor) string {
	r := strings.NewReplacer(
		"[visitorName]", v.FullName,
		"[hostName]", v.HostName,
		"[reason]", v.Reason,
	)
	return r.Replace(tpl)
}
