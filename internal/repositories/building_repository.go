package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
)

/* ───────────── public interface ───────────── */

type BuildingRepository interface {
	// CreateWithSetup persists the building, its admin user and its
	// initial apartments in one transaction.
	CreateWithSetup(ctx context.Context, b *models.Building, admin *models.User, apartments []models.Apartment) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error)
	GetByRegistrationCode(ctx context.Context, code string) (*models.Building, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]*models.Building, error)

	Update(ctx context.Context, b *models.Building) error

	// UpdateWithApartments persists the building update and the newly
	// provisioned apartments in one transaction, so a failed update
	// never leaves orphan rows behind.
	UpdateWithApartments(ctx context.Context, b *models.Building, apartments []models.Apartment) error

	// IncrementUsage adds delta to the building's notification counter
	// for the given period, resetting the counter on period rollover.
	// A single UPDATE statement, so concurrent increments never lose
	// counts; the check-then-increment race across requests is an
	// accepted soft limit.
	IncrementUsage(ctx context.Context, id uuid.UUID, period string, delta int) error

	// DeleteCascade removes the building and everything scoped to it,
	// children before parent, in one transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type buildingRepo struct {
	db DB
}

func NewBuildingRepository(db DB) BuildingRepository {
	return &buildingRepo{db: db}
}

func (r *buildingRepo) CreateWithSetup(
	ctx context.Context,
	b *models.Building,
	admin *models.User,
	apartments []models.Apartment,
) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO buildings (
			id, name, address, city, state, plan_key, registration_code,
			num_apartments, notifications_used, usage_period,
			custom_message, active, admin_email, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,0,$9,$10,$11,$12,NOW(),NOW())
	`, b.ID, b.Name, b.Address, b.City, b.State, b.PlanKey, b.RegistrationCode,
		b.NumApartments, b.UsagePeriod, b.CustomMessage, b.Active, b.AdminEmail)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, insertUserSQL,
		admin.ID, admin.Email, admin.Name, admin.PasswordHash,
		string(admin.Role), nullableUUID(admin.BuildingID), nullableUUID(admin.CompanyID))
	if err != nil {
		return err
	}

	for i := range apartments {
		a := &apartments[i]
		_, err = tx.Exec(ctx, insertApartmentSQL, a.ID, a.BuildingID, a.Number)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *buildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	row := r.db.QueryRow(ctx, baseSelectBuilding()+" WHERE id=$1", id)
	return r.scanBuilding(row)
}

func (r *buildingRepo) GetByRegistrationCode(ctx context.Context, code string) (*models.Building, error) {
	row := r.db.QueryRow(ctx, baseSelectBuilding()+" WHERE registration_code=$1", code)
	return r.scanBuilding(row)
}

func (r *buildingRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM buildings WHERE registration_code=$1)`, code,
	).Scan(&exists)
	return exists, err
}

func (r *buildingRepo) List(ctx context.Context) ([]*models.Building, error) {
	rows, err := r.db.Query(ctx, baseSelectBuilding()+" ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Building
	for rows.Next() {
		b, err := r.scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const updateBuildingSQL = `
	UPDATE buildings
	SET name=$1, address=$2, city=$3, state=$4, plan_key=$5,
	    num_apartments=$6, custom_message=$7, active=$8, updated_at=NOW()
	WHERE id=$9
`

func (r *buildingRepo) Update(ctx context.Context, b *models.Building) error {
	_, err := r.db.Exec(ctx, updateBuildingSQL,
		b.Name, b.Address, b.City, b.State, b.PlanKey,
		b.NumApartments, b.CustomMessage, b.Active, b.ID)
	return err
}

func (r *buildingRepo) UpdateWithApartments(ctx context.Context, b *models.Building, apartments []models.Apartment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, updateBuildingSQL,
		b.Name, b.Address, b.City, b.State, b.PlanKey,
		b.NumApartments, b.CustomMessage, b.Active, b.ID)
	if err != nil {
		return err
	}

	for i := range apartments {
		a := &apartments[i]
		if _, err = tx.Exec(ctx, insertApartmentSQL, a.ID, a.BuildingID, a.Number); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// incrementUsageSQL is the single quota-counter statement, shared with
// the delivery and visitor repositories so every metered write charges
// the ledger the same way.
const incrementUsageSQL = `
	UPDATE buildings
	SET notifications_used = CASE WHEN usage_period=$2 THEN notifications_used+$3 ELSE $3 END,
	    usage_period=$2, updated_at=NOW()
	WHERE id=$1
`

func (r *buildingRepo) IncrementUsage(ctx context.Context, id uuid.UUID, period string, delta int) error {
	_, err := r.db.Exec(ctx, incrementUsageSQL, id, period, delta)
	return err
}

func (r *buildingRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, sql := range []string{
		`DELETE FROM deliveries WHERE building_id=$1`,
		`DELETE FROM visitors WHERE building_id=$1`,
		`DELETE FROM phones WHERE building_id=$1`,
		`DELETE FROM apartments WHERE building_id=$1`,
		`DELETE FROM companies WHERE building_id=$1`,
		`DELETE FROM building_settings WHERE building_id=$1`,
		`DELETE FROM refresh_tokens WHERE user_id IN (SELECT id FROM users WHERE building_id=$1)`,
		`DELETE FROM users WHERE building_id=$1`,
		`DELETE FROM buildings WHERE id=$1`,
	} {
		if _, err := tx.Exec(ctx, sql, id); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

/* ---------- internals ---------- */

func baseSelectBuilding() string {
	return `
		SELECT id, name, address, city, state, plan_key, registration_code,
		num_apartments, notifications_used, usage_period,
		custom_message, active, admin_email, created_at, updated_at
		FROM buildings`
}

func (r *buildingRepo) scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	if err := row.Scan(
		&b.ID, &b.Name, &b.Address, &b.City, &b.State, &b.PlanKey, &b.RegistrationCode,
		&b.NumApartments, &b.NotificationsUsed, &b.UsagePeriod,
		&b.CustomMessage, &b.Active, &b.AdminEmail, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
