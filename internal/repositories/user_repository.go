package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/utils"
)

/* ───────────── public interface ───────────── */

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

const insertUserSQL = `
	INSERT INTO users (id, email, name, password_hash, role, building_id, company_id, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
`

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, insertUserSQL,
		u.ID, u.Email, u.Name, u.PasswordHash,
		string(u.Role), nullableUUID(u.BuildingID), nullableUUID(u.CompanyID))
	if isUniqueViolation(err) {
		return utils.ErrEmailExists
	}
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id)
	return scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE lower(email)=lower($1)", email)
	return scanUser(row)
}

func (r *userRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, baseSelectUser()+" WHERE building_id=$1 ORDER BY created_at", buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

/* ---------- internals ---------- */

func baseSelectUser() string {
	return `
		SELECT id, email, name, password_hash, role, building_id, company_id, created_at
		FROM users`
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u          models.User
		role       string
		buildingID uuid.NullUUID
		companyID  uuid.NullUUID
	)
	if err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&role, &buildingID, &companyID, &u.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.Role(role)
	u.BuildingID = buildingID.UUID
	u.CompanyID = companyID.UUID
	return &u, nil
}

// nullableUUID maps uuid.Nil to SQL NULL so unbound principals
// (super admins) don't carry a fake building reference.
func nullableUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "duplicate key value")
}
