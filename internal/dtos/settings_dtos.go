package dtos

// ----------------------
// Requests
// ----------------------

type UpdateSystemSettingsRequest struct {
	SupportEmail          string `json:"support_email" validate:"required,email"`
	BrandName             string `json:"brand_name" validate:"required,min=2,max=100"`
	BrandSlogan           string `json:"brand_slogan" validate:"max=200"`
	LGPDText              string `json:"lgpd_text" validate:"max=2000"`
	VisitorArrivalSubject string `json:"visitor_arrival_subject" validate:"max=200"`
	VisitorArrivalBody    string `json:"visitor_arrival_body" validate:"max=2000"`
}

type UpdateBuildingSettingsRequest struct {
	DocumentRequired bool   `json:"document_required"`
	SelfieRequired   bool   `json:"selfie_required"`
	DefaultLanguage  string `json:"default_language" validate:"required,oneof=pt en es"`
}

type UpdatePlanRequest struct {
	Name              string  `json:"name" validate:"required,min=2,max=100"`
	MinApartments     int     `json:"min_apartments" validate:"min=0"`
	MaxApartments     int     `json:"max_apartments" validate:"required,min=1"`
	NotificationLimit int     `json:"notification_limit" validate:"min=-1"`
	MonthlyPrice      float64 `json:"monthly_price" validate:"min=0"`
	Active            bool    `json:"active"`
	Description       string  `json:"description" validate:"max=500"`
}
