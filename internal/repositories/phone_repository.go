package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
)

/* ───────────── public interface ───────────── */

type PhoneRepository interface {
	Create(ctx context.Context, p *models.Phone) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Phone, error)
	ListByApartmentID(ctx context.Context, apartmentID uuid.UUID) ([]*models.Phone, error)
	ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Phone, error)
	Exists(ctx context.Context, apartmentID uuid.UUID, number string) (bool, error)
	CountByApartmentID(ctx context.Context, apartmentID uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type phoneRepo struct {
	db DB
}

func NewPhoneRepository(db DB) PhoneRepository {
	return &phoneRepo{db: db}
}

func (r *phoneRepo) Create(ctx context.Context, p *models.Phone) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO phones (id, building_id, apartment_id, number, name, created_at)
		VALUES ($1,$2,$3,$4,$5,NOW())
	`, p.ID, p.BuildingID, p.ApartmentID, p.Number, p.Name)
	if isUniqueViolation(err) {
		return nil // duplicate (apartment, number); callers check Exists first
	}
	return err
}

func (r *phoneRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Phone, error) {
	row := r.db.QueryRow(ctx, baseSelectPhone()+" WHERE id=$1", id)
	return scanPhone(row)
}

func (r *phoneRepo) ListByApartmentID(ctx context.Context, apartmentID uuid.UUID) ([]*models.Phone, error) {
	rows, err := r.db.Query(ctx, baseSelectPhone()+" WHERE apartment_id=$1 ORDER BY created_at", apartmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPhones(rows)
}

func (r *phoneRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Phone, error) {
	rows, err := r.db.Query(ctx, baseSelectPhone()+" WHERE building_id=$1 ORDER BY created_at", buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPhones(rows)
}

func (r *phoneRepo) Exists(ctx context.Context, apartmentID uuid.UUID, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM phones WHERE apartment_id=$1 AND number=$2)`,
		apartmentID, number,
	).Scan(&exists)
	return exists, err
}

func (r *phoneRepo) CountByApartmentID(ctx context.Context, apartmentID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM phones WHERE apartment_id=$1`, apartmentID).Scan(&n)
	return n, err
}

func (r *phoneRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM phones WHERE id=$1`, id)
	return err
}

/* ---------- internals ---------- */

func baseSelectPhone() string {
	return `SELECT id, building_id, apartment_id, number, name, created_at FROM phones`
}

func scanPhone(row pgx.Row) (*models.Phone, error) {
	var p models.Phone
	if err := row.Scan(&p.ID, &p.BuildingID, &p.ApartmentID, &p.Number, &p.Name, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func scanPhones(rows pgx.Rows) ([]*models.Phone, error) {
	var out []*models.Phone
	for rows.Next() {
		p, err := scanPhone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
