package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
)

/* ───────────── public interface ───────────── */

type CompanyRepository interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetBySuite(ctx context.Context, buildingID uuid.UUID, suite string) (*models.Company, error)
	ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Company, error)
	Update(ctx context.Context, c *models.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type companyRepo struct {
	db DB
}

func NewCompanyRepository(db DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, c *models.Company) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO companies (id, building_id, name, suite, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
	`, c.ID, c.BuildingID, c.Name, c.Suite, c.Active)
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	row := r.db.QueryRow(ctx, baseSelectCompany()+" WHERE id=$1", id)
	return scanCompany(row)
}

func (r *companyRepo) GetBySuite(ctx context.Context, buildingID uuid.UUID, suite string) (*models.Company, error) {
	row := r.db.QueryRow(ctx, baseSelectCompany()+" WHERE building_id=$1 AND suite=$2", buildingID, suite)
	return scanCompany(row)
}

func (r *companyRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Company, error) {
	rows, err := r.db.Query(ctx, baseSelectCompany()+" WHERE building_id=$1 ORDER BY suite", buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *companyRepo) Update(ctx context.Context, c *models.Company) error {
	_, err := r.db.Exec(ctx, `
		UPDATE companies SET name=$1, suite=$2, active=$3, updated_at=NOW() WHERE id=$4
	`, c.Name, c.Suite, c.Active, c.ID)
	return err
}

func (r *companyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id=$1`, id)
	return err
}

/* ---------- internals ---------- */

func baseSelectCompany() string {
	return `SELECT id, building_id, name, suite, active, created_at, updated_at FROM companies`
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var c models.Company
	if err := row.Scan(&c.ID, &c.BuildingID, &c.Name, &c.Suite, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
