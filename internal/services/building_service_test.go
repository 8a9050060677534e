package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/utils"
)

type testEnv struct {
	userRepo      *fakeUserRepo
	apartmentRepo *fakeApartmentRepo
	phoneRepo     *fakePhoneRepo
	companyRepo   *fakeCompanyRepo
	planRepo      *fakePlanRepo
	buildingRepo  *fakeBuildingRepo

	buildingService BuildingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		userRepo:      newFakeUserRepo(),
		apartmentRepo: newFakeApartmentRepo(),
		phoneRepo:     newFakePhoneRepo(),
		companyRepo:   newFakeCompanyRepo(),
		planRepo:      newFakePlanRepo(),
	}
	env.buildingRepo = newFakeBuildingRepo(env.userRepo, env.apartmentRepo)

	require.NoError(t, env.planRepo.Create(context.Background(), &models.Plan{
		Key: "basic", Name: "Básico", MaxApartments: 50,
		NotificationLimit: 500, MonthlyPrice: 99.90, Active: true,
	}))
	require.NoError(t, env.planRepo.Create(context.Background(), &models.Plan{
		Key: "premium", Name: "Premium", MaxApartments: 500,
		NotificationLimit: models.UnlimitedNotifications, MonthlyPrice: 399.90, Active: true,
	}))

	env.buildingService = NewBuildingService(
		env.buildingRepo, env.apartmentRepo, env.phoneRepo,
		env.userRepo, env.companyRepo, env.planRepo,
	)
	return env
}

func createBuildingReq(n int) dtos.CreateBuildingRequest {
	return dtos.CreateBuildingRequest{
		Name:          "Edifício Aurora",
		Plan:          "basic",
		NumApartments: n,
		AdminEmail:    "sindico@aurora.com",
		AdminName:     "Síndico",
		AdminPassword: "super-secret-1",
	}
}

func TestCreateBuildingProvisionsAdminAndApartments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(20))
	require.NoError(t, err)
	require.NotNil(t, building)

	assert.Len(t, building.RegistrationCode, 8)
	assert.True(t, building.Active)

	apartments, err := env.apartmentRepo.ListByBuildingID(ctx, building.ID)
	require.NoError(t, err)
	require.Len(t, apartments, 20)
	for i, a := range apartments {
		assert.Equal(t, i+1, a.Number)
	}

	admin, err := env.userRepo.GetByEmail(ctx, "sindico@aurora.com")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, models.RoleBuildingAdmin, admin.Role)
	assert.Equal(t, building.ID, admin.BuildingID)
	assert.NotEqual(t, "super-secret-1", admin.PasswordHash)
}

func TestCreateBuildingRejectsApartmentsAbovePlanCeiling(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.buildingService.CreateBuilding(context.Background(), createBuildingReq(60))
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.ErrCodeValidation, appErr.Code)
}

func TestCreateBuildingUnknownPlan(t *testing.T) {
	env := newTestEnv(t)

	req := createBuildingReq(10)
	req.Plan = "golden"
	_, err := env.buildingService.CreateBuilding(context.Background(), req)
	assert.ErrorIs(t, err, utils.ErrUnknownPlan)
}

func TestRegistrationCodesAreUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	codes := make(map[string]bool)
	for i := 0; i < 25; i++ {
		req := createBuildingReq(1)
		req.AdminEmail = uuid.NewString() + "@example.com"
		building, err := env.buildingService.CreateBuilding(ctx, req)
		require.NoError(t, err)
		assert.False(t, codes[building.RegistrationCode], "duplicate code %s", building.RegistrationCode)
		codes[building.RegistrationCode] = true
	}
}

func TestUpdateBuildingAddsOnlyDeltaApartments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(20))
	require.NoError(t, err)

	target := 30
	_, err = env.buildingService.UpdateBuilding(ctx, building.ID, dtos.UpdateBuildingRequest{
		NumApartments: &target,
	})
	require.NoError(t, err)

	apartments, err := env.apartmentRepo.ListByBuildingID(ctx, building.ID)
	require.NoError(t, err)
	require.Len(t, apartments, 30)
	for i, a := range apartments {
		assert.Equal(t, i+1, a.Number)
	}
}

func TestUpdateBuildingDeltaIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(20))
	require.NoError(t, err)

	env.apartmentRepo.createErr = errors.New("insert failed")

	target := 25
	_, err = env.buildingService.UpdateBuilding(ctx, building.ID, dtos.UpdateBuildingRequest{
		NumApartments: &target,
	})
	require.Error(t, err)

	// Neither side of the transaction applied.
	env.apartmentRepo.createErr = nil
	count, _ := env.apartmentRepo.CountByBuildingID(ctx, building.ID)
	assert.Equal(t, 20, count)

	stored, _ := env.buildingRepo.GetByID(ctx, building.ID)
	assert.Equal(t, 20, stored.NumApartments)
}

func TestUpdateBuildingRejectsApartmentDecrease(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(20))
	require.NoError(t, err)

	target := 10
	_, err = env.buildingService.UpdateBuilding(ctx, building.ID, dtos.UpdateBuildingRequest{
		NumApartments: &target,
	})
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.ErrCodeValidation, appErr.Code)

	count, _ := env.apartmentRepo.CountByBuildingID(ctx, building.ID)
	assert.Equal(t, 20, count)
}

func TestUpdateBuildingIncreaseBeyondCeiling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(20))
	require.NoError(t, err)

	target := 60
	_, err = env.buildingService.UpdateBuilding(ctx, building.ID, dtos.UpdateBuildingRequest{
		NumApartments: &target,
	})
	assert.ErrorIs(t, err, utils.ErrQuotaExceeded)

	count, _ := env.apartmentRepo.CountByBuildingID(ctx, building.ID)
	assert.Equal(t, 20, count)
}

func TestUpdateBuildingPlanDowngradeBelowCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := createBuildingReq(60)
	req.Plan = "premium"
	building, err := env.buildingService.CreateBuilding(ctx, req)
	require.NoError(t, err)

	basic := "basic"
	_, err = env.buildingService.UpdateBuilding(ctx, building.ID, dtos.UpdateBuildingRequest{
		Plan: &basic,
	})
	assert.ErrorIs(t, err, utils.ErrQuotaExceeded)

	got, _ := env.buildingRepo.GetByID(ctx, building.ID)
	assert.Equal(t, "premium", got.PlanKey)
}

func TestDeleteBuildingCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(5))
	require.NoError(t, err)

	require.NoError(t, env.buildingService.DeleteBuilding(ctx, building.ID))

	got, _ := env.buildingRepo.GetByID(ctx, building.ID)
	assert.Nil(t, got)
	count, _ := env.apartmentRepo.CountByBuildingID(ctx, building.ID)
	assert.Zero(t, count)
	staff, _ := env.userRepo.ListByBuildingID(ctx, building.ID)
	assert.Empty(t, staff)
}

func TestPublicRegisterAndDuplicatePhone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(10))
	require.NoError(t, err)

	req := dtos.PublicRegisterRequest{
		RegistrationCode: building.RegistrationCode,
		ApartmentNumber:  3,
		Phone:            "+5511999990000",
		Name:             "Maria",
	}
	phone, err := env.buildingService.PublicRegister(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, building.ID, phone.BuildingID)

	_, err = env.buildingService.PublicRegister(ctx, req)
	assert.ErrorIs(t, err, utils.ErrPhoneExists)

	phones, _ := env.phoneRepo.ListByBuildingID(ctx, building.ID)
	assert.Len(t, phones, 1)
}

func TestPublicRegisterRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(10))
	require.NoError(t, err)

	// Unknown code.
	_, err = env.buildingService.PublicRegister(ctx, dtos.PublicRegisterRequest{
		RegistrationCode: "ZZZZZZZZ", ApartmentNumber: 1, Phone: "+5511988880000", Name: "Ana",
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// Unknown apartment.
	_, err = env.buildingService.PublicRegister(ctx, dtos.PublicRegisterRequest{
		RegistrationCode: building.RegistrationCode, ApartmentNumber: 99, Phone: "+5511988880000", Name: "Ana",
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// Deactivated building.
	inactive := false
	_, err = env.buildingService.UpdateBuilding(ctx, building.ID, dtos.UpdateBuildingRequest{Active: &inactive})
	require.NoError(t, err)
	_, err = env.buildingService.PublicRegister(ctx, dtos.PublicRegisterRequest{
		RegistrationCode: building.RegistrationCode, ApartmentNumber: 1, Phone: "+5511988880000", Name: "Ana",
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateStaffRejectsSuperAdminRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(5))
	require.NoError(t, err)

	_, err = env.buildingService.CreateStaff(ctx, building.ID, dtos.CreateStaffUserRequest{
		Email: "p@x.com", Name: "Porteiro", Password: "password123", Role: "super_admin",
	})
	require.Error(t, err)

	_, err = env.buildingService.CreateStaff(ctx, building.ID, dtos.CreateStaffUserRequest{
		Email: "p@x.com", Name: "Porteiro", Password: "password123", Role: "doorman",
	})
	require.NoError(t, err)

	// Duplicate email is a conflict.
	_, err = env.buildingService.CreateStaff(ctx, building.ID, dtos.CreateStaffUserRequest{
		Email: "p@x.com", Name: "Outro", Password: "password123", Role: "doorman",
	})
	assert.ErrorIs(t, err, utils.ErrEmailExists)
}

func TestCompanySuiteConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(5))
	require.NoError(t, err)

	_, err = env.buildingService.CreateCompany(ctx, building.ID, dtos.CompanyRequest{Name: "Acme", Suite: "101"})
	require.NoError(t, err)

	_, err = env.buildingService.CreateCompany(ctx, building.ID, dtos.CompanyRequest{Name: "Umbrella", Suite: "101"})
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, utils.ErrCodeConflict, appErr.Code)
}
