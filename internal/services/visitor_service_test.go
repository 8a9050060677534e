package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

type visitorEnv struct {
	*testEnv
	visitorRepo  *fakeVisitorRepo
	settingsRepo *fakeSettingsRepo
	emailSender  *fakeEmailSender
	service      VisitorService
	statsService StatsService

	building *models.Building
}

func newVisitorEnv(t *testing.T) *visitorEnv {
	t.Helper()
	ctx := context.Background()

	env := &visitorEnv{
		testEnv:      newTestEnv(t),
		settingsRepo: newFakeSettingsRepo(),
		emailSender:  &fakeEmailSender{},
	}
	env.visitorRepo = newFakeVisitorRepo(env.buildingRepo)
	env.service = NewVisitorService(
		env.buildingRepo, env.visitorRepo, env.companyRepo,
		env.settingsRepo, env.planRepo, env.emailSender,
	)
	env.statsService = NewStatsService(
		env.buildingRepo, env.visitorRepo, newFakeDeliveryRepo(env.buildingRepo), env.planRepo,
	)

	building, err := env.buildingService.CreateBuilding(ctx, createBuildingReq(5))
	require.NoError(t, err)
	env.building = building
	return env
}

func TestCheckInMetersOneUnitAndEmailsHost(t *testing.T) {
	env := newVisitorEnv(t)
	ctx := context.Background()

	visitor, err := env.service.CheckIn(ctx, env.building.ID, dtos.CheckInVisitorRequest{
		FullName: "Carlos Silva",
		HostName: "Dra. Souza",
	})
	require.NoError(t, err)

	assert.Equal(t, models.VisitorCheckedIn, visitor.Status)
	assert.NotEmpty(t, visitor.QRCode)

	b, _ := env.buildingRepo.GetByID(ctx, env.building.ID)
	assert.Equal(t, 1, b.UsedInPeriod(time.Now().Format("2006-01")))

	require.Len(t, env.emailSender.sent, 1)
	assert.Equal(t, env.building.AdminEmail, env.emailSender.sent[0])
}

func TestCheckInSurvivesEmailFailure(t *testing.T) {
	env := newVisitorEnv(t)
	env.emailSender.fail = true

	visitor, err := env.service.CheckIn(context.Background(), env.building.ID, dtos.CheckInVisitorRequest{
		FullName: "Carlos Silva",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VisitorCheckedIn, visitor.Status)
}

func TestCheckInQuotaExceeded(t *testing.T) {
	env := newVisitorEnv(t)
	ctx := context.Background()

	b, _ := env.buildingRepo.GetByID(ctx, env.building.ID)
	b.NotificationsUsed = 500
	b.UsagePeriod = time.Now().Format("2006-01")
	require.NoError(t, env.buildingRepo.Update(ctx, b))

	_, err := env.service.CheckIn(ctx, env.building.ID, dtos.CheckInVisitorRequest{FullName: "Carlos"})
	assert.ErrorIs(t, err, utils.ErrQuotaExceeded)

	visitors, _ := env.visitorRepo.ListByBuildingID(ctx, env.building.ID, repositories.VisitorFilter{})
	assert.Empty(t, visitors)
}

func TestCheckoutIsTerminal(t *testing.T) {
	env := newVisitorEnv(t)
	ctx := context.Background()

	visitor, err := env.service.CheckIn(ctx, env.building.ID, dtos.CheckInVisitorRequest{FullName: "Carlos"})
	require.NoError(t, err)

	out, err := env.service.Checkout(ctx, env.building.ID, visitor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VisitorCheckedOut, out.Status)
	require.NotNil(t, out.CheckOutTime)

	// A second checkout finds nothing to transition.
	_, err = env.service.Checkout(ctx, env.building.ID, visitor.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCheckoutIsBuildingScoped(t *testing.T) {
	env := newVisitorEnv(t)
	ctx := context.Background()

	visitor, err := env.service.CheckIn(ctx, env.building.ID, dtos.CheckInVisitorRequest{FullName: "Carlos"})
	require.NoError(t, err)

	req := createBuildingReq(5)
	req.AdminEmail = "outro@x.com"
	other, err := env.buildingService.CreateBuilding(ctx, req)
	require.NoError(t, err)

	// A foreign building id looks like a missing visitor.
	_, err = env.service.Checkout(ctx, other.ID, visitor.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCheckInRejectsForeignCompany(t *testing.T) {
	env := newVisitorEnv(t)
	ctx := context.Background()

	req := createBuildingReq(5)
	req.AdminEmail = "outro@x.com"
	other, err := env.buildingService.CreateBuilding(ctx, req)
	require.NoError(t, err)

	company, err := env.buildingService.CreateCompany(ctx, other.ID, dtos.CompanyRequest{Name: "Acme", Suite: "101"})
	require.NoError(t, err)

	_, err = env.service.CheckIn(ctx, env.building.ID, dtos.CheckInVisitorRequest{
		FullName:  "Carlos",
		CompanyID: company.ID,
	})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestQRCodePNG(t *testing.T) {
	env := newVisitorEnv(t)
	ctx := context.Background()

	visitor, err := env.service.CheckIn(ctx, env.building.ID, dtos.CheckInVisitorRequest{FullName: "Carlos"})
	require.NoError(t, err)

	png, err := env.service.QRCodePNG(ctx, env.building.ID, visitor.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestVisitorStats(t *testing.T) {
	env := newVisitorEnv(t)
	ctx := context.Background()

	v1, err := env.service.CheckIn(ctx, env.building.ID, dtos.CheckInVisitorRequest{FullName: "Ana"})
	require.NoError(t, err)
	_, err = env.service.CheckIn(ctx, env.building.ID, dtos.CheckInVisitorRequest{FullName: "Bruno"})
	require.NoError(t, err)

	_, err = env.service.Checkout(ctx, env.building.ID, v1.ID)
	require.NoError(t, err)

	stats, err := env.statsService.VisitorStats(ctx, env.building.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Today)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 2, stats.MonthTotal)
	assert.NotEmpty(t, stats.AverageStay)
}

func TestFormatStay(t *testing.T) {
	assert.Equal(t, "0min", formatStay(0))
	assert.Equal(t, "45min", formatStay(45*time.Minute))
	assert.Equal(t, "1h05min", formatStay(65*time.Minute))
	assert.Equal(t, "2h00min", formatStay(2*time.Hour))
}
