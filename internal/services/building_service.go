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

const registrationCodeLength = 8

// BuildingService interface
type BuildingService interface {
	// Super admin surface.
	CreateBuilding(ctx context.Context, req dtos.CreateBuildingRequest) (*models.Building, error)
	UpdateBuilding(ctx context.Context, id uuid.UUID, req dtos.UpdateBuildingRequest) (*models.Building, error)
	DeleteBuilding(ctx context.Context, id uuid.UUID) error
	ListBuildings(ctx context.Context) ([]*models.Building, error)

	// Building admin surface.
	GetBuilding(ctx context.Context, id uuid.UUID) (*models.Building, error)
	GetBuildingUsage(ctx context.Context, id uuid.UUID) (*dtos.BuildingUsageResponse, error)
	UpdateCustomMessage(ctx context.Context, id uuid.UUID, message string) error
	ListApartments(ctx context.Context, buildingID uuid.UUID) ([]*models.Apartment, error)
	ListApartmentsWithPhones(ctx context.Context, buildingID uuid.UUID) ([]dtos.ApartmentWithPhones, error)
	ListPhones(ctx context.Context, buildingID uuid.UUID) ([]*models.Phone, error)
	ListApartmentPhones(ctx context.Context, buildingID, apartmentID uuid.UUID) ([]*models.Phone, error)
	AddPhone(ctx context.Context, buildingID, apartmentID uuid.UUID, req dtos.CreatePhoneRequest) (*models.Phone, error)
	DeletePhone(ctx context.Context, buildingID, phoneID uuid.UUID) error

	// Staff users.
	ListStaff(ctx context.Context, buildingID uuid.UUID) ([]*models.User, error)
	CreateStaff(ctx context.Context, buildingID uuid.UUID, req dtos.CreateStaffUserRequest) (*models.User, error)

	// Companies (commercial buildings).
	ListCompanies(ctx context.Context, buildingID uuid.UUID) ([]*models.Company, error)
	CreateCompany(ctx context.Context, buildingID uuid.UUID, req dtos.CompanyRequest) (*models.Company, error)
	UpdateCompany(ctx context.Context, buildingID, companyID uuid.UUID, req dtos.CompanyRequest) (*models.Company, error)
	DeleteCompany(ctx context.Context, buildingID, companyID uuid.UUID) error

	// Public surface (no auth).
	PublicLookup(ctx context.Context, code string) (*dtos.PublicBuildingResponse, error)
	PublicRegister(ctx context.Context, req dtos.PublicRegisterRequest) (*models.Phone, error)
}

type buildingService struct {
	buildingRepo  repositories.BuildingRepository
	apartmentRepo repositories.ApartmentRepository
	phoneRepo     repositories.PhoneRepository
	userRepo      repositories.UserRepository
	companyRepo   repositories.CompanyRepository
	planRepo      repositories.PlanRepository
}

func NewBuildingService(
	buildingRepo repositories.BuildingRepository,
	apartmentRepo repositories.ApartmentRepository,
	phoneRepo repositories.PhoneRepository,
	userRepo repositories.UserRepository,
	companyRepo repositories.CompanyRepository,
	planRepo repositories.PlanRepository,
) BuildingService {
	return &buildingService{
		buildingRepo:  buildingRepo,
		apartmentRepo: apartmentRepo,
		phoneRepo:     phoneRepo,
		userRepo:      userRepo,
		companyRepo:   companyRepo,
		planRepo:      planRepo,
	}
}

// ---------------------------------------------------------------------
// Super admin surface
// ---------------------------------------------------------------------

func (s *buildingService) CreateBuilding(ctx context.Context, req dtos.CreateBuildingRequest) (*models.Building, error) {
	plan, err := s.planRepo.GetByKey(ctx, req.Plan)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.Active {
		return nil, utils.ErrUnknownPlan
	}
	if req.NumApartments > plan.MaxApartments {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    fmt.Sprintf("Plan %q allows at most %d apartments", plan.Key, plan.MaxApartments),
		}
	}

	code, err := s.generateRegistrationCode(ctx)
	if err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.AdminPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	building := &models.Building{
		ID:               uuid.New(),
		Name:             req.Name,
		Address:          req.Address,
		City:             req.City,
		State:            req.State,
		PlanKey:          plan.Key,
		RegistrationCode: code,
		NumApartments:    req.NumApartments,
		UsagePeriod:      now.Format("2006-01"),
		Active:           true,
		AdminEmail:       req.AdminEmail,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	admin := &models.User{
		ID:           uuid.New(),
		Email:        req.AdminEmail,
		Name:         req.AdminName,
		PasswordHash: passwordHash,
		Role:         models.RoleBuildingAdmin,
		BuildingID:   building.ID,
	}

	apartments := makeApartments(building.ID, 1, req.NumApartments)

	if err := s.buildingRepo.CreateWithSetup(ctx, building, admin, apartments); err != nil {
		return nil, err
	}

	utils.Logger.WithField("building_id", building.ID).Infof("Created building %q on plan %s", building.Name, plan.Key)
	return building, nil
}

func (s *buildingService) UpdateBuilding(ctx context.Context, id uuid.UUID, req dtos.UpdateBuildingRequest) (*models.Building, error) {
	building, err := s.buildingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, utils.ErrNotFound
	}

	if req.Name != nil {
		building.Name = *req.Name
	}
	if req.Address != nil {
		building.Address = *req.Address
	}
	if req.City != nil {
		building.City = *req.City
	}
	if req.State != nil {
		building.State = *req.State
	}
	if req.Active != nil {
		building.Active = *req.Active
	}

	currentCount, err := s.apartmentRepo.CountByBuildingID(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByKey(ctx, building.PlanKey)
	if err != nil {
		return nil, err
	}
	if req.Plan != nil && *req.Plan != building.PlanKey {
		plan, err = s.planRepo.GetByKey(ctx, *req.Plan)
		if err != nil {
			return nil, err
		}
		if plan == nil || !plan.Active {
			return nil, utils.ErrUnknownPlan
		}
		// A downgrade below the existing apartment count is refused.
		if currentCount > plan.MaxApartments {
			return nil, utils.ErrQuotaExceeded
		}
		building.PlanKey = plan.Key
	}
	if plan == nil {
		return nil, utils.ErrUnknownPlan
	}

	var newApartments []models.Apartment
	if req.NumApartments != nil {
		target := *req.NumApartments
		if target < currentCount {
			return nil, &utils.AppError{
				StatusCode: 400,
				Code:       utils.ErrCodeValidation,
				Message:    "Apartment count cannot be reduced",
			}
		}
		if target > plan.MaxApartments {
			return nil, utils.ErrQuotaExceeded
		}
		if target > currentCount {
			maxNumber, err := s.apartmentRepo.MaxNumber(ctx, id)
			if err != nil {
				return nil, err
			}
			newApartments = makeApartments(id, maxNumber+1, target-currentCount)
		}
		building.NumApartments = target
	}

	building.UpdatedAt = time.Now()
	if len(newApartments) > 0 {
		if err := s.buildingRepo.UpdateWithApartments(ctx, building, newApartments); err != nil {
			return nil, err
		}
	} else if err := s.buildingRepo.Update(ctx, building); err != nil {
		return nil, err
	}
	return building, nil
}

func (s *buildingService) DeleteBuilding(ctx context.Context, id uuid.UUID) error {
	building, err := s.buildingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if building == nil {
		return utils.ErrNotFound
	}
	if err := s.buildingRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}
	utils.Logger.WithField("building_id", id).Warnf("Deleted building %q and all its data", building.Name)
	return nil
}

func (s *buildingService) ListBuildings(ctx context.Context) ([]*models.Building, error) {
	return s.buildingRepo.List(ctx)
}

// ---------------------------------------------------------------------
// Building admin surface
// ---------------------------------------------------------------------

func (s *buildingService) GetBuilding(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	building, err := s.buildingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, utils.ErrNotFound
	}
	return building, nil
}

func (s *buildingService) GetBuildingUsage(ctx context.Context, id uuid.UUID) (*dtos.BuildingUsageResponse, error) {
	building, err := s.GetBuilding(ctx, id)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.GetByKey(ctx, building.PlanKey)
	if err != nil {
		return nil, err
	}
	limit := models.UnlimitedNotifications
	if plan != nil {
		limit = plan.NotificationLimit
	}
	count, err := s.apartmentRepo.CountByBuildingID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dtos.BuildingUsageResponse{
		Building:          building,
		NotificationsUsed: building.UsedInPeriod(time.Now().Format("2006-01")),
		NotificationLimit: limit,
		ApartmentCount:    count,
	}, nil
}

func (s *buildingService) UpdateCustomMessage(ctx context.Context, id uuid.UUID, message string) error {
	building, err := s.GetBuilding(ctx, id)
	if err != nil {
		return err
	}
	building.CustomMessage = message
	building.UpdatedAt = time.Now()
	return s.buildingRepo.Update(ctx, building)
}

func (s *buildingService) ListApartments(ctx context.Context, buildingID uuid.UUID) ([]*models.Apartment, error) {
	return s.apartmentRepo.ListByBuildingID(ctx, buildingID)
}

func (s *buildingService) ListApartmentsWithPhones(ctx context.Context, buildingID uuid.UUID) ([]dtos.ApartmentWithPhones, error) {
	apartments, err := s.apartmentRepo.ListByBuildingID(ctx, buildingID)
	if err != nil {
		return nil, err
	}
	phones, err := s.phoneRepo.ListByBuildingID(ctx, buildingID)
	if err != nil {
		return nil, err
	}

	byApartment := make(map[uuid.UUID][]*models.Phone, len(apartments))
	for _, p := range phones {
		byApartment[p.ApartmentID] = append(byApartment[p.ApartmentID], p)
	}

	out := make([]dtos.ApartmentWithPhones, 0, len(apartments))
	for _, a := range apartments {
		out = append(out, dtos.ApartmentWithPhones{Apartment: a, Phones: byApartment[a.ID]})
	}
	return out, nil
}

func (s *buildingService) ListPhones(ctx context.Context, buildingID uuid.UUID) ([]*models.Phone, error) {
	return s.phoneRepo.ListByBuildingID(ctx, buildingID)
}

func (s *buildingService) ListApartmentPhones(ctx context.Context, buildingID, apartmentID uuid.UUID) ([]*models.Phone, error) {
	apartment, err := s.apartmentInBuilding(ctx, buildingID, apartmentID)
	if err != nil {
		return nil, err
	}
	return s.phoneRepo.ListByApartmentID(ctx, apartment.ID)
}

func (s *buildingService) AddPhone(ctx context.Context, buildingID, apartmentID uuid.UUID, req dtos.CreatePhoneRequest) (*models.Phone, error) {
	apartment, err := s.apartmentInBuilding(ctx, buildingID, apartmentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.phoneRepo.Exists(ctx, apartment.ID, req.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.ErrPhoneExists
	}

	phone := &models.Phone{
		ID:          uuid.New(),
		BuildingID:  buildingID,
		ApartmentID: apartment.ID,
		Number:      req.Number,
		Name:        req.Name,
	}
	if err := s.phoneRepo.Create(ctx, phone); err != nil {
		return nil, err
	}
	return phone, nil
}

func (s *buildingService) DeletePhone(ctx context.Context, buildingID, phoneID uuid.UUID) error {
	phone, err := s.phoneRepo.GetByID(ctx, phoneID)
	if err != nil {
		return err
	}
	// Cross-tenant probes look identical to missing rows.
	if phone == nil || phone.BuildingID != buildingID {
		return utils.ErrNotFound
	}
	return s.phoneRepo.Delete(ctx, phoneID)
}

// ---------------------------------------------------------------------
// Staff users
// ---------------------------------------------------------------------

func (s *buildingService) ListStaff(ctx context.Context, buildingID uuid.UUID) ([]*models.User, error) {
	return s.userRepo.ListByBuildingID(ctx, buildingID)
}

func (s *buildingService) CreateStaff(ctx context.Context, buildingID uuid.UUID, req dtos.CreateStaffUserRequest) (*models.User, error) {
	role, ok := models.ParseRole(req.Role)
	if !ok || role == models.RoleSuperAdmin {
		return nil, &utils.AppError{
			StatusCode: 400,
			Code:       utils.ErrCodeValidation,
			Message:    "Invalid role",
		}
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		Role:         role,
		BuildingID:   buildingID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ---------------------------------------------------------------------
// Companies
// ---------------------------------------------------------------------

func (s *buildingService) ListCompanies(ctx context.Context, buildingID uuid.UUID) ([]*models.Company, error) {
	return s.companyRepo.ListByBuildingID(ctx, buildingID)
}

func (s *buildingService) CreateCompany(ctx context.Context, buildingID uuid.UUID, req dtos.CompanyRequest) (*models.Company, error) {
	existing, err := s.companyRepo.GetBySuite(ctx, buildingID, req.Suite)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &utils.AppError{
			StatusCode: 409,
			Code:       utils.ErrCodeConflict,
			Message:    fmt.Sprintf("Suite %s is already occupied", req.Suite),
		}
	}

	company := &models.Company{
		ID:         uuid.New(),
		BuildingID: buildingID,
		Name:       req.Name,
		Suite:      req.Suite,
		Active:     true,
	}
	if req.Active != nil {
		company.Active = *req.Active
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *buildingService) UpdateCompany(ctx context.Context, buildingID, companyID uuid.UUID, req dtos.CompanyRequest) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil || company.BuildingID != buildingID {
		return nil, utils.ErrNotFound
	}

	company.Name = req.Name
	company.Suite = req.Suite
	if req.Active != nil {
		company.Active = *req.Active
	}
	company.UpdatedAt = time.Now()
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *buildingService) DeleteCompany(ctx context.Context, buildingID, companyID uuid.UUID) error {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil || company.BuildingID != buildingID {
		return utils.ErrNotFound
	}
	return s.companyRepo.Delete(ctx, companyID)
}

// ---------------------------------------------------------------------
// Public surface
// ---------------------------------------------------------------------

func (s *buildingService) PublicLookup(ctx context.Context, code string) (*dtos.PublicBuildingResponse, error) {
	building, err := s.buildingRepo.GetByRegistrationCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, utils.ErrNotFound
	}
	return &dtos.PublicBuildingResponse{Name: building.Name, Active: building.Active}, nil
}

func (s *buildingService) PublicRegister(ctx context.Context, req dtos.PublicRegisterRequest) (*models.Phone, error) {
	building, err := s.buildingRepo.GetByRegistrationCode(ctx, req.RegistrationCode)
	if err != nil {
		return nil, err
	}
	if building == nil || !building.Active {
		return nil, utils.ErrNotFound
	}

	apartment, err := s.apartmentRepo.GetByNumber(ctx, building.ID, req.ApartmentNumber)
	if err != nil {
		return nil, err
	}
	if apartment == nil {
		return nil, utils.ErrNotFound
	}

	exists, err := s.phoneRepo.Exists(ctx, apartment.ID, req.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, utils.ErrPhoneExists
	}

	phone := &models.Phone{
		ID:          uuid.New(),
		BuildingID:  building.ID,
		ApartmentID: apartment.ID,
		Number:      req.Phone,
		Name:        req.Name,
	}
	if err := s.phoneRepo.Create(ctx, phone); err != nil {
		return nil, err
	}

	utils.Logger.WithField("building_id", building.ID).Infof("Public registration for apartment %d", req.ApartmentNumber)
	return phone, nil
}

// ---------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------

func (s *buildingService) generateRegistrationCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code := utils.RegistrationCode(registrationCodeLength)
		exists, err := s.buildingRepo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique registration code")
}

func (s *buildingService) apartmentInBuilding(ctx context.Context, buildingID, apartmentID uuid.UUID) (*models.Apartment, error) {
	apartment, err := s.apartmentRepo.GetByID(ctx, apartmentID)
	if err != nil {
		return nil, err
	}
	if apartment == nil || apartment.BuildingID != buildingID {
		return nil, utils.ErrNotFound
	}
	return apartment, nil
}

func makeApartments(buildingID uuid.UUID, first, count int) []models.Apartment {
	out := make([]models.Apartment, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, models.Apartment{
			ID:         uuid.New(),
			BuildingID: buildingID,
			Number:     first + i,
		})
	}
	return out
}
