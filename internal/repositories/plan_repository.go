package repositories

import (
	"context"

	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
)

/* ───────────── public interface ───────────── */

type PlanRepository interface {
	GetByKey(ctx context.Context, key string) (*models.Plan, error)
	List(ctx context.Context) ([]*models.Plan, error)
	Update(ctx context.Context, p *models.Plan) error
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, p *models.Plan) error
}

/* ───────────── implementation ───────────── */

type planRepo struct {
	db DB
}

func NewPlanRepository(db DB) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) GetByKey(ctx context.Context, key string) (*models.Plan, error) {
	row := r.db.QueryRow(ctx, baseSelectPlan()+" WHERE key=$1", key)
	return scanPlan(row)
}

func (r *planRepo) List(ctx context.Context) ([]*models.Plan, error) {
	rows, err := r.db.Query(ctx, baseSelectPlan()+" ORDER BY monthly_price")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *planRepo) Update(ctx context.Context, p *models.Plan) error {
	_, err := r.db.Exec(ctx, `
		UPDATE plans
		SET name=$1, min_apartments=$2, max_apartments=$3, notification_limit=$4,
		    monthly_price=$5, active=$6, description=$7
		WHERE key=$8
	`, p.Name, p.MinApartments, p.MaxApartments, p.NotificationLimit,
		p.MonthlyPrice, p.Active, p.Description, p.Key)
	return err
}

func (r *planRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM plans`).Scan(&n)
	return n, err
}

func (r *planRepo) Create(ctx context.Context, p *models.Plan) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO plans (key, name, min_apartments, max_apartments, notification_limit,
			monthly_price, active, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, p.Key, p.Name, p.MinApartments, p.MaxApartments, p.NotificationLimit,
		p.MonthlyPrice, p.Active, p.Description)
	return err
}

/* ---------- internals ---------- */

func baseSelectPlan() string {
	return `
		SELECT key, name, min_apartments, max_apartments, notification_limit,
		monthly_price, active, description
		FROM plans`
}

func scanPlan(row pgx.Row) (*models.Plan, error) {
	var p models.Plan
	if err := row.Scan(
		&p.Key, &p.Name, &p.MinApartments, &p.MaxApartments, &p.NotificationLimit,
		&p.MonthlyPrice, &p.Active, &p.Description,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
