package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
)

/* ───────────── public interface ───────────── */

// Apartment rows are only ever created alongside their building row
// (BuildingRepository.CreateWithSetup / UpdateWithApartments), so this
// interface is read-only.
type ApartmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error)
	GetByNumber(ctx context.Context, buildingID uuid.UUID, number int) (*models.Apartment, error)
	ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Apartment, error)
	CountByBuildingID(ctx context.Context, buildingID uuid.UUID) (int, error)
	MaxNumber(ctx context.Context, buildingID uuid.UUID) (int, error)
}

/* ───────────── implementation ───────────── */

const insertApartmentSQL = `
	INSERT INTO apartments (id, building_id, number, created_at)
	VALUES ($1,$2,$3,NOW())
`

type apartmentRepo struct {
	db DB
}

func NewApartmentRepository(db DB) ApartmentRepository {
	return &apartmentRepo{db: db}
}

func (r *apartmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Apartment, error) {
	row := r.db.QueryRow(ctx, baseSelectApartment()+" WHERE id=$1", id)
	return scanApartment(row)
}

func (r *apartmentRepo) GetByNumber(ctx context.Context, buildingID uuid.UUID, number int) (*models.Apartment, error) {
	row := r.db.QueryRow(ctx, baseSelectApartment()+" WHERE building_id=$1 AND number=$2", buildingID, number)
	return scanApartment(row)
}

func (r *apartmentRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID) ([]*models.Apartment, error) {
	rows, err := r.db.Query(ctx, baseSelectApartment()+" WHERE building_id=$1 ORDER BY number", buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Apartment
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *apartmentRepo) CountByBuildingID(ctx context.Context, buildingID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM apartments WHERE building_id=$1`, buildingID).Scan(&n)
	return n, err
}

func (r *apartmentRepo) MaxNumber(ctx context.Context, buildingID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(number),0) FROM apartments WHERE building_id=$1`, buildingID).Scan(&n)
	return n, err
}

/* ---------- internals ---------- */

func baseSelectApartment() string {
	return `SELECT id, building_id, number, created_at FROM apartments`
}

func scanApartment(row pgx.Row) (*models.Apartment, error) {
	var a models.Apartment
	if err := row.Scan(&a.ID, &a.BuildingID, &a.Number, &a.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
