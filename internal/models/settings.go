package models

import "github.com/google/uuid"

// SystemSettings is a platform-wide singleton editable by super admins.
type SystemSettings struct {
	SupportEmail        string `json:"support_email"`
	BrandName           string `json:"brand_name"`
	BrandSlogan         string `json:"brand_slogan"`
	LGPDText            string `json:"lgpd_text"`
	VisitorArrivalSubject string `json:"visitor_arrival_subject"`
	VisitorArrivalBody    string `json:"visitor_arrival_body"`
}

// DefaultSystemSettings are returned (and persisted) when no settings
// row exists yet.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{
		SupportEmail: "suporte@portaria.app",
		BrandName:    "Portaria",
		BrandSlogan:  "Acesso rápido, seguro e digital.",
		LGPDText:     "Ao prosseguir, você concorda com o uso dos seus dados exclusivamente para controle de acesso ao prédio.",
		VisitorArrivalSubject: "Chegada do visitante [visitorName]",
		VisitorArrivalBody:    "[visitorName] chegou e aguarda autorização.",
	}
}

// BuildingSettings holds per-building check-in requirements.
type BuildingSettings struct {
	BuildingID       uuid.UUID `json:"building_id"`
	DocumentRequired bool      `json:"document_required"`
	SelfieRequired   bool      `json:"selfie_required"`
	DefaultLanguage  string    `json:"default_language"`
}

func DefaultBuildingSettings(buildingID uuid.UUID) BuildingSettings {
	return BuildingSettings{
		BuildingID:      buildingID,
		DefaultLanguage: "pt",
	}
}
