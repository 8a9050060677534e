package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
)

// VisitorFilter narrows visitor listings. Zero values mean "no filter";
// Search matches name or host, case-insensitive.
type VisitorFilter struct {
	Status models.VisitorStatus
	Search string
	Limit  int
}

/* ───────────── public interface ───────────── */

type VisitorRepository interface {
	// CreateAndCount appends the visit and increments the building's
	// usage counter in one transaction (a visit is one metered unit).
	CreateAndCount(ctx context.Context, v *models.Visitor, period string) error

	GetByID(ctx context.Context, buildingID, id uuid.UUID) (*models.Visitor, error)
	ListByBuildingID(ctx context.Context, buildingID uuid.UUID, f VisitorFilter) ([]*models.Visitor, error)

	// Checkout applies the terminal transition; returns false when the
	// visitor doesn't exist in this building or is already out.
	Checkout(ctx context.Context, buildingID, id uuid.UUID, at time.Time) (bool, error)

	CountSince(ctx context.Context, buildingID uuid.UUID, since time.Time) (int, error)
	CountActive(ctx context.Context, buildingID uuid.UUID) (int, error)
	ListCompleted(ctx context.Context, buildingID uuid.UUID, limit int) ([]*models.Visitor, error)
}

/* ───────────── implementation ───────────── */

type visitorRepo struct {
	db DB
}

func NewVisitorRepository(db DB) VisitorRepository {
	return &visitorRepo{db: db}
}

func (r *visitorRepo) CreateAndCount(ctx context.Context, v *models.Visitor, period string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO visitors (
			id, building_id, company_id, full_name, host_name, representing_company,
			reason, companions, document, status, check_in_time, qr_code,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW())
	`, v.ID, v.BuildingID, v.CompanyID, v.FullName, v.HostName, v.RepresentingCompany,
		v.Reason, v.Companions, v.Document, string(v.Status), v.CheckInTime, v.QRCode)
	if err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, incrementUsageSQL, v.BuildingID, period, 1); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *visitorRepo) GetByID(ctx context.Context, buildingID, id uuid.UUID) (*models.Visitor, error) {
	row := r.db.QueryRow(ctx, baseSelectVisitor()+" WHERE id=$1 AND building_id=$2", id, buildingID)
	return scanVisitor(row)
}

func (r *visitorRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID, f VisitorFilter) ([]*models.Visitor, error) {
	sql := baseSelectVisitor() + " WHERE building_id=$1"
	args := []interface{}{buildingID}

	if f.Status != "" {
		args = append(args, string(f.Status))
		sql += " AND status=$2"
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		sql += " AND (full_name ILIKE $" + strconv.Itoa(len(args)) + " OR host_name ILIKE $" + strconv.Itoa(len(args)) + ")"
	}
	sql += " ORDER BY check_in_time DESC"
	if f.Limit > 0 {
		sql += " LIMIT " + strconv.Itoa(f.Limit)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *visitorRepo) Checkout(ctx context.Context, buildingID, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE visitors
		SET status=$1, check_out_time=$2, updated_at=NOW()
		WHERE id=$3 AND building_id=$4 AND status=$5
	`, string(models.VisitorCheckedOut), at, id, buildingID, string(models.VisitorCheckedIn))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *visitorRepo) CountSince(ctx context.Context, buildingID uuid.UUID, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM visitors WHERE building_id=$1 AND check_in_time >= $2`,
		buildingID, since,
	).Scan(&n)
	return n, err
}

func (r *visitorRepo) CountActive(ctx context.Context, buildingID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM visitors WHERE building_id=$1 AND status=$2`,
		buildingID, string(models.VisitorCheckedIn),
	).Scan(&n)
	return n, err
}

func (r *visitorRepo) ListCompleted(ctx context.Context, buildingID uuid.UUID, limit int) ([]*models.Visitor, error) {
	rows, err := r.db.Query(ctx,
		baseSelectVisitor()+` WHERE building_id=$1 AND status=$2 AND check_out_time IS NOT NULL
		ORDER BY check_out_time DESC LIMIT $3`,
		buildingID, string(models.VisitorCheckedOut), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

/* ---------- internals ---------- */

func baseSelectVisitor() string {
	return `
		SELECT id, building_id, company_id, full_name, host_name, representing_company,
		reason, companions, document, status, check_in_time, check_out_time, qr_code,
		created_at, updated_at
		FROM visitors`
}

func scanVisitor(row pgx.Row) (*models.Visitor, error) {
	var (
		v      models.Visitor
		status string
	)
	if err := row.Scan(
		&v.ID, &v.BuildingID, &v.CompanyID, &v.FullName, &v.HostName, &v.RepresentingCompany,
		&v.Reason, &v.Companions, &v.Document, &status, &v.CheckInTime, &v.CheckOutTime, &v.QRCode,
		&v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	v.Status = models.VisitorStatus(status)
	return &v, nil
}
