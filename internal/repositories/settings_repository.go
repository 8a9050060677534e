package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/portaria-app/backend/internal/models"
)

/* ───────────── public interface ───────────── */

type SettingsRepository interface {
	GetSystem(ctx context.Context) (*models.SystemSettings, error)
	UpsertSystem(ctx context.Context, s *models.SystemSettings) error
	GetBuilding(ctx context.Context, buildingID uuid.UUID) (*models.BuildingSettings, error)
	UpsertBuilding(ctx context.Context, s *models.BuildingSettings) error
}

/* ───────────── implementation ───────────── */

type settingsRepo struct {
	db DB
}

func NewSettingsRepository(db DB) SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) GetSystem(ctx context.Context) (*models.SystemSettings, error) {
	row := r.db.QueryRow(ctx, `
		SELECT support_email, brand_name, brand_slogan, lgpd_text,
		       visitor_arrival_subject, visitor_arrival_body
		FROM system_settings LIMIT 1
	`)

	var s models.SystemSettings
	if err := row.Scan(
		&s.SupportEmail, &s.BrandName, &s.BrandSlogan, &s.LGPDText,
		&s.VisitorArrivalSubject, &s.VisitorArrivalBody,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) UpsertSystem(ctx context.Context, s *models.SystemSettings) error {
	// Singleton row keyed by a constant id.
	_, err := r.db.Exec(ctx, `
		INSERT INTO system_settings (id, support_email, brand_name, brand_slogan, lgpd_text,
			visitor_arrival_subject, visitor_arrival_body)
		VALUES (1,$1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			support_email=$1, brand_name=$2, brand_slogan=$3, lgpd_text=$4,
			visitor_arrival_subject=$5, visitor_arrival_body=$6
	`, s.SupportEmail, s.BrandName, s.BrandSlogan, s.LGPDText,
		s.VisitorArrivalSubject, s.VisitorArrivalBody)
	return err
}

func (r *settingsRepo) GetBuilding(ctx context.Context, buildingID uuid.UUID) (*models.BuildingSettings, error) {
	row := r.db.QueryRow(ctx, `
		SELECT building_id, document_required, selfie_required, default_language
		FROM building_settings WHERE building_id=$1
	`, buildingID)

	var s models.BuildingSettings
	if err := row.Scan(&s.BuildingID, &s.DocumentRequired, &s.SelfieRequired, &s.DefaultLanguage); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepo) UpsertBuilding(ctx context.Context, s *models.BuildingSettings) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO building_settings (building_id, document_required, selfie_required, default_language)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (building_id) DO UPDATE SET
			document_required=$2, selfie_required=$3, default_language=$4
	`, s.BuildingID, s.DocumentRequired, s.SelfieRequired, s.DefaultLanguage)
	return err
}
