package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
)

// DeliveryFilter narrows delivery listings. Zero values mean "no filter".
type DeliveryFilter struct {
	Since       time.Time
	Until       time.Time
	ApartmentID uuid.UUID
	Status      models.DeliveryStatus
	Limit       int
}

// DeliveryStats is the on-demand aggregate over a building's log.
type DeliveryStats struct {
	Total               int                  `json:"total"`
	Notified            int                  `json:"notified"`
	Partial             int                  `json:"partial"`
	Failed              int                  `json:"failed"`
	TotalPhonesNotified int                  `json:"total_phones_notified"`
	TopApartments       []ApartmentEventRank `json:"top_apartments"`
}

type ApartmentEventRank struct {
	ApartmentNumber int `json:"apartment_number"`
	Count           int `json:"count"`
}

/* ───────────── public interface ───────────── */

type DeliveryRepository interface {
	// CreateAndCount appends the delivery and increments the building's
	// usage counter in one transaction, so a logged event is never
	// unaccounted for (and vice versa).
	CreateAndCount(ctx context.Context, d *models.Delivery, period string, usageDelta int) error

	ListByBuildingID(ctx context.Context, buildingID uuid.UUID, f DeliveryFilter) ([]*models.Delivery, error)
	Stats(ctx context.Context, buildingID uuid.UUID, f DeliveryFilter) (*DeliveryStats, error)
	CountAll(ctx context.Context) (int, error)
}

/* ───────────── implementation ───────────── */

type deliveryRepo struct {
	db DB
}

func NewDeliveryRepository(db DB) DeliveryRepository {
	return &deliveryRepo{db: db}
}

func (r *deliveryRepo) CreateAndCount(ctx context.Context, d *models.Delivery, period string, usageDelta int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO deliveries (
			id, building_id, apartment_id, apartment_number, doorman_id,
			status, phones_notified, message, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, d.ID, d.BuildingID, d.ApartmentID, d.ApartmentNumber, d.DoormanID,
		string(d.Status), d.PhonesNotified, d.Message, d.CreatedAt)
	if err != nil {
		return err
	}

	if usageDelta > 0 {
		if _, err = tx.Exec(ctx, incrementUsageSQL, d.BuildingID, period, usageDelta); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *deliveryRepo) ListByBuildingID(ctx context.Context, buildingID uuid.UUID, f DeliveryFilter) ([]*models.Delivery, error) {
	sql, args := deliveryQuery(baseSelectDelivery(), buildingID, f)
	sql += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		sql += " LIMIT " + strconv.Itoa(f.Limit)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *deliveryRepo) Stats(ctx context.Context, buildingID uuid.UUID, f DeliveryFilter) (*DeliveryStats, error) {
	stats := &DeliveryStats{}

	sql, args := deliveryQuery(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='notified'),
		       COUNT(*) FILTER (WHERE status='partial'),
		       COUNT(*) FILTER (WHERE status='failed'),
		       COALESCE(SUM(cardinality(phones_notified)),0)
		FROM deliveries`, buildingID, f)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(
		&stats.Total, &stats.Notified, &stats.Partial, &stats.Failed, &stats.TotalPhonesNotified,
	); err != nil {
		return nil, err
	}

	topSQL, topArgs := deliveryQuery(`
		SELECT apartment_number, COUNT(*) FROM deliveries`, buildingID, f)
	topSQL += " GROUP BY apartment_number ORDER BY COUNT(*) DESC, apartment_number LIMIT 10"
	rows, err := r.db.Query(ctx, topSQL, topArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rank ApartmentEventRank
		if err := rows.Scan(&rank.ApartmentNumber, &rank.Count); err != nil {
			return nil, err
		}
		stats.TopApartments = append(stats.TopApartments, rank)
	}
	return stats, rows.Err()
}

func (r *deliveryRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM deliveries`).Scan(&n)
	return n, err
}

/* ---------- internals ---------- */

func baseSelectDelivery() string {
	return `
		SELECT id, building_id, apartment_id, apartment_number, doorman_id,
		status, phones_notified, message, created_at
		FROM deliveries`
}

// deliveryQuery appends building scope plus the optional filters as
// WHERE clauses with positional args.
func deliveryQuery(base string, buildingID uuid.UUID, f DeliveryFilter) (string, []interface{}) {
	sql := base + " WHERE building_id=$1"
	args := []interface{}{buildingID}

	add := func(clause string, v interface{}) {
		args = append(args, v)
		sql += " AND " + clause + "$" + strconv.Itoa(len(args))
	}
	if !f.Since.IsZero() {
		add("created_at >= ", f.Since)
	}
	if !f.Until.IsZero() {
		add("created_at < ", f.Until)
	}
	if f.ApartmentID != uuid.Nil {
		add("apartment_id = ", f.ApartmentID)
	}
	if f.Status != "" {
		add("status = ", string(f.Status))
	}
	return sql, args
}

func scanDelivery(row pgx.Row) (*models.Delivery, error) {
	var (
		d      models.Delivery
		status string
	)
	if err := row.Scan(
		&d.ID, &d.BuildingID, &d.ApartmentID, &d.ApartmentNumber, &d.DoormanID,
		&status, &d.PhonesNotified, &d.Message, &d.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	d.Status = models.DeliveryStatus(status)
	return &d, nil
}
