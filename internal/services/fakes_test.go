package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/utils"
)

// In-memory repository fakes. They reproduce the store's observable
// behavior (building-scoped lookups, usage accounting, nil on miss) so
// service logic can be exercised without a database.

// ---------------------------------------------------------------------
// buildings
// ---------------------------------------------------------------------

type fakeBuildingRepo struct {
	buildings  map[uuid.UUID]*models.Building
	users      *fakeUserRepo
	apartments *fakeApartmentRepo
}

func newFakeBuildingRepo(users *fakeUserRepo, apartments *fakeApartmentRepo) *fakeBuildingRepo {
	return &fakeBuildingRepo{
		buildings:  make(map[uuid.UUID]*models.Building),
		users:      users,
		apartments: apartments,
	}
}

func (f *fakeBuildingRepo) CreateWithSetup(ctx context.Context, b *models.Building, admin *models.User, apartments []models.Apartment) error {
	if err := f.users.Create(ctx, admin); err != nil {
		return err
	}
	if err := f.apartments.CreateMany(ctx, apartments); err != nil {
		return err
	}
	cp := *b
	f.buildings[b.ID] = &cp
	return nil
}

func (f *fakeBuildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	b, ok := f.buildings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBuildingRepo) GetByRegistrationCode(ctx context.Context, code string) (*models.Building, error) {
	for _, b := range f.buildings {
		if b.RegistrationCode == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBuildingRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	b, _ := f.GetByRegistrationCode(ctx, code)
	return b != nil, nil
}

func (f *fakeBuildingRepo) List(ctx context.Context) ([]*models.Building, error) {
	out := make([]*models.Building, 0, len(f.buildings))
	for _, b := range f.buildings {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeBuildingRepo) Update(ctx context.Context, b *models.Building) error {
	if _, ok := f.buildings[b.ID]; !ok {
		return errors.New("building not found")
	}
	cp := *b
	f.buildings[b.ID] = &cp
	return nil
}

func (f *fakeBuildingRepo) UpdateWithApartments(ctx context.Context, b *models.Building, apartments []models.Apartment) error {
	// Mirrors the transaction: the building row is only touched when
	// every apartment insert succeeds.
	if err := f.apartments.CreateMany(ctx, apartments); err != nil {
		return err
	}
	return f.Update(ctx, b)
}

func (f *fakeBuildingRepo) IncrementUsage(ctx context.Context, id uuid.UUID, period string, delta int) error {
	b, ok := f.buildings[id]
	if !ok {
		return errors.New("building not found")
	}
	if b.UsagePeriod == period {
		b.NotificationsUsed += delta
	} else {
		b.UsagePeriod = period
		b.NotificationsUsed = delta
	}
	return nil
}

func (f *fakeBuildingRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	delete(f.buildings, id)
	for uid, u := range f.users.users {
		if u.BuildingID == id {
			delete(f.users.users, uid)
		}
	}
	for aid, a := range f.apartments.apartments {
		if a.BuildingID == id {
			delete(f.apartments.apartments, aid)
		}
	}
	return nil
}

var _ repositories.BuildingRepository = (*fakeBuildingRepo)(nil)

// ---------------------------------------------------------------------
// users
// ---------------------------------------------------------------------

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return utils.ErrEmailExists
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		if u.BuildingID == buildingID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

// ---------------------------------------------------------------------
// apartments
// ---------------------------------------------------------------------

type fakeApartmentRepo struct {
	apartments map[uuid.UUID]*models.Apartment
	createErr  error
}

func newFakeApartmentRepo() *fakeApartmentRepo {
	return &fakeApartmentRepo{apartments: make(map[uuid.UUID]*models.Apartment)}
}

func (f *fakeApartmentRepo) CreateMany(ctx context.Context, list []models.Apartment) error {
	if f.createErr != nil {
		return f.createErr
	}
	for i := range list {
		cp := list[i]
		f.apartments[cp.ID] = &cp
	}
	return nil
}

func (f *fakeApartmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error) {
	a, ok := f.apartments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApartmentRepo) GetByNumber(ctx context.Context, buildingID uuid.UUID, number int) (*models.Apartment, error) {
	for _, a := range f.apartments {
		if a.BuildingID == buildingID && a.Number == number {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeApartmentRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Apartment, error) {
	var out []*models.Apartment
	for _, a := range f.apartments {
		if a.BuildingID == buildingID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeApartmentRepo) CountByBuildingID(ctx context.Context, buildingID uuid.UUID) (int, error) {
	list, _ := f.ListByBuildingID(ctx, buildingID)
	return len(list), nil
}

func (f *fakeApartmentRepo) MaxNumber(ctx context.Context, buildingID uuid.UUID) (int, error) {
	max := 0
	for _, a := range f.apartments {
		if a.BuildingID == buildingID && a.Number > max {
			max = a.Number
		}
	}
	return max, nil
}

var _ repositories.ApartmentRepository = (*fakeApartmentRepo)(nil)

// ---------------------------------------------------------------------
// phones
// ---------------------------------------------------------------------

type fakePhoneRepo struct {
	phones map[uuid.UUID]*models.Phone
}

func newFakePhoneRepo() *fakePhoneRepo {
	return &fakePhoneRepo{phones: make(map[uuid.UUID]*models.Phone)}
}

func (f *fakePhoneRepo) Create(ctx context.Context, p *models.Phone) error {
	cp := *p
	f.phones[p.ID] = &cp
	return nil
}

func (f *fakePhoneRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Phone, error) {
	p, ok := f.phones[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePhoneRepo) ListByApartmentID(ctx context.Context, apartmentID uuid.UUID) ([]*models.Phone, error) {
	var out []*models.Phone
	for _, p := range f.phones {
		if p.ApartmentID == apartmentID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakePhoneRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Phone, error) {
	var out []*models.Phone
	for _, p := range f.phones {
		if p.BuildingID == buildingID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePhoneRepo) Exists(ctx context.Context, apartmentID uuid.UUID, number string) (bool, error) {
	for _, p := range f.phones {
		if p.ApartmentID == apartmentID && p.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePhoneRepo) CountByApartmentID(ctx context.Context, apartmentID uuid.UUID) (int, error) {
	list, _ := f.ListByApartmentID(ctx, apartmentID)
	return len(list), nil
}

func (f *fakePhoneRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.phones, id)
	return nil
}

var _ repositories.PhoneRepository = (*fakePhoneRepo)(nil)

// ---------------------------------------------------------------------
// companies
// ---------------------------------------------------------------------

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*models.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: make(map[uuid.UUID]*models.Company)}
}

func (f *fakeCompanyRepo) Create(ctx context.Context, c *models.Company) error {
	cp := *c
	f.companies[c.ID] = &cp
	return nil
}

func (f *fakeCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCompanyRepo) GetBySuite(ctx context.Context, buildingID uuid.UUID, suite string) (*models.Company, error) {
	for _, c := range f.companies {
		if c.BuildingID == buildingID && c.Suite == suite {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCompanyRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Company, error) {
	var out []*models.Company
	for _, c := range f.companies {
		if c.BuildingID == buildingID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCompanyRepo) Update(ctx context.Context, c *models.Company) error {
	cp := *c
	f.companies[c.ID] = &cp
	return nil
}

func (f *fakeCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.companies, id)
	return nil
}

var _ repositories.CompanyRepository = (*fakeCompanyRepo)(nil)

// ---------------------------------------------------------------------
// plans
// ---------------------------------------------------------------------

type fakePlanRepo struct {
	plans map[string]*models.Plan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[string]*models.Plan)}
}

func (f *fakePlanRepo) GetByKey(ctx context.Context, key string) (*models.Plan, error) {
	p, ok := f.plans[key]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlanRepo) List(ctx context.Context) ([]*models.Plan, error) {
	out := make([]*models.Plan, 0, len(f.plans))
	for _, p := range f.plans {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MonthlyPrice < out[j].MonthlyPrice })
	return out, nil
}

func (f *fakePlanRepo) Update(ctx context.Context, p *models.Plan) error {
	cp := *p
	f.plans[p.Key] = &cp
	return nil
}

func (f *fakePlanRepo) Count(ctx context.Context) (int, error) {
	return len(f.plans), nil
}

func (f *fakePlanRepo) Create(ctx context.Context, p *models.Plan) error {
	cp := *p
	f.plans[p.Key] = &cp
	return nil
}

var _ repositories.PlanRepository = (*fakePlanRepo)(nil)

// ---------------------------------------------------------------------
// deliveries
// ---------------------------------------------------------------------

type fakeDeliveryRepo struct {
	deliveries []*models.Delivery
	buildings  *fakeBuildingRepo
}

func newFakeDeliveryRepo(buildings *fakeBuildingRepo) *fakeDeliveryRepo {
	return &fakeDeliveryRepo{buildings: buildings}
}

func (f *fakeDeliveryRepo) CreateAndCount(ctx context.Context, d *models.Delivery, period string, usageDelta int) error {
	cp := *d
	f.deliveries = append(f.deliveries, &cp)
	if usageDelta > 0 {
		return f.buildings.IncrementUsage(ctx, d.BuildingID, period, usageDelta)
	}
	return nil
}

func (f *fakeDeliveryRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID, filter repositories.DeliveryFilter) ([]*models.Delivery, error) {
	var out []*models.Delivery
	for _, d := range f.deliveries {
		if d.BuildingID != buildingID {
			continue
		}
		if !filter.Since.IsZero() && d.CreatedAt.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && !d.CreatedAt.Before(filter.Until) {
			continue
		}
		if filter.ApartmentID != uuid.Nil && d.ApartmentID != filter.ApartmentID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeDeliveryRepo) Stats(ctx context.Context, buildingID uuid.UUID, filter repositories.DeliveryFilter) (*repositories.DeliveryStats, error) {
	list, _ := f.ListByBuildingID(ctx, buildingID, filter)
	stats := &repositories.DeliveryStats{}
	counts := make(map[int]int)
	for _, d := range list {
		stats.Total++
		switch d.Status {
		case models.DeliveryNotified:
			stats.Notified++
		case models.DeliveryPartial:
			stats.Partial++
		case models.DeliveryFailed:
			stats.Failed++
		}
		stats.TotalPhonesNotified += len(d.PhonesNotified)
		counts[d.ApartmentNumber]++
	}
	for number, count := range counts {
		stats.TopApartments = append(stats.TopApartments, repositories.ApartmentEventRank{
			ApartmentNumber: number,
			Count:           count,
		})
	}
	sort.Slice(stats.TopApartments, func(i, j int) bool {
		return stats.TopApartments[i].Count > stats.TopApartments[j].Count
	})
	if len(stats.TopApartments) > 10 {
		stats.TopApartments = stats.TopApartments[:10]
	}
	return stats, nil
}

func (f *fakeDeliveryRepo) CountAll(ctx context.Context) (int, error) {
	return len(f.deliveries), nil
}

var _ repositories.DeliveryRepository = (*fakeDeliveryRepo)(nil)

// ---------------------------------------------------------------------
// visitors
// ---------------------------------------------------------------------

type fakeVisitorRepo struct {
	visitors  map[uuid.UUID]*models.Visitor
	buildings *fakeBuildingRepo
}

func newFakeVisitorRepo(buildings *fakeBuildingRepo) *fakeVisitorRepo {
	return &fakeVisitorRepo{
		visitors:  make(map[uuid.UUID]*models.Visitor),
		buildings: buildings,
	}
}

func (f *fakeVisitorRepo) CreateAndCount(ctx context.Context, v *models.Visitor, period string) error {
	cp := *v
	f.visitors[v.ID] = &cp
	return f.buildings.IncrementUsage(ctx, v.BuildingID, period, 1)
}

func (f *fakeVisitorRepo) GetByID(ctx context.Context, buildingID, id uuid.UUID) (*models.Visitor, error) {
	v, ok := f.visitors[id]
	if !ok || v.BuildingID != buildingID {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVisitorRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID, filter repositories.VisitorFilter) ([]*models.Visitor, error) {
	var out []*models.Visitor
	for _, v := range f.visitors {
		if v.BuildingID != buildingID {
			continue
		}
		if filter.Status != "" && v.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(v.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckInTime.After(out[j].CheckInTime) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeVisitorRepo) Checkout(ctx context.Context, buildingID, id uuid.UUID, at time.Time) (bool, error) {
	v, ok := f.visitors[id]
	if !ok || v.BuildingID != buildingID || v.Status != models.VisitorCheckedIn {
		return false, nil
	}
	v.Status = models.VisitorCheckedOut
	v.CheckOutTime = &at
	return true, nil
}

func (f *fakeVisitorRepo) CountSince(ctx context.Context, buildingID uuid.UUID, since time.Time) (int, error) {
	n := 0
	for _, v := range f.visitors {
		if v.BuildingID == buildingID && !v.CheckInTime.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeVisitorRepo) CountActive(ctx context.Context, buildingID uuid.UUID) (int, error) {
	n := 0
	for _, v := range f.visitors {
		if v.BuildingID == buildingID && v.Status == models.VisitorCheckedIn {
			n++
		}
	}
	return n, nil
}

func (f *fakeVisitorRepo) ListCompleted(ctx context.Context, buildingID uuid.UUID, limit int) ([]*models.Visitor, error) {
	var out []*models.Visitor
	for _, v := range f.visitors {
		if v.BuildingID == buildingID && v.Status == models.VisitorCheckedOut {
			cp := *v
			out = append(out, &cp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repositories.VisitorRepository = (*fakeVisitorRepo)(nil)

// ---------------------------------------------------------------------
// refresh tokens
// ---------------------------------------------------------------------

type fakeTokenRepo struct {
	tokens map[uuid.UUID]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[uuid.UUID]*models.RefreshToken)}
}

func (f *fakeTokenRepo) CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error {
	cp := *rt
	f.tokens[rt.ID] = &cp
	return nil
}

func (f *fakeTokenRepo) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	for _, rt := range f.tokens {
		if rt.Token == token {
			cp := *rt
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTokenRepo) RemoveRefreshToken(ctx context.Context, id uuid.UUID) error {
	delete(f.tokens, id)
	return nil
}

var _ repositories.TokenRepository = (*fakeTokenRepo)(nil)

// ---------------------------------------------------------------------
// settings
// ---------------------------------------------------------------------

type fakeSettingsRepo struct {
	system   *models.SystemSettings
	building map[uuid.UUID]*models.BuildingSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{building: make(map[uuid.UUID]*models.BuildingSettings)}
}

func (f *fakeSettingsRepo) GetSystem(ctx context.Context) (*models.SystemSettings, error) {
	if f.system == nil {
		return nil, nil
	}
	cp := *f.system
	return &cp, nil
}

func (f *fakeSettingsRepo) UpsertSystem(ctx context.Context, s *models.SystemSettings) error {
	cp := *s
	f.system = &cp
	return nil
}

func (f *fakeSettingsRepo) GetBuilding(ctx context.Context, buildingID uuid.UUID) (*models.BuildingSettings, error) {
	s, ok := f.building[buildingID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSettingsRepo) UpsertBuilding(ctx context.Context, s *models.BuildingSettings) error {
	cp := *s
	f.building[s.BuildingID] = &cp
	return nil
}

var _ repositories.SettingsRepository = (*fakeSettingsRepo)(nil)

// ---------------------------------------------------------------------
// external senders
// ---------------------------------------------------------------------

// fakeNotifier fails any number listed in failNumbers.
type fakeNotifier struct {
	sent        []string
	failNumbers map[string]bool
}

func newFakeNotifier(failNumbers ...string) *fakeNotifier {
	fail := make(map[string]bool, len(failNumbers))
	for _, n := range failNumbers {
		fail[n] = true
	}
	return &fakeNotifier{failNumbers: fail}
}

func (f *fakeNotifier) Notify(phoneNumber, message string) error {
	if f.failNumbers[phoneNumber] {
		return utils.ErrExternalServiceFailure
	}
	f.sent = append(f.sent, phoneNumber)
	return nil
}

type fakeEmailSender struct {
	sent []string
	fail bool
}

func (f *fakeEmailSender) Send(toEmail, subject, body string) error {
	if f.fail {
		return utils.ErrExternalServiceFailure
	}
	f.sent = append(f.sent, toEmail)
	return nil
}
