package dtos

import "github.com/google/uuid"

// ----------------------
// Requests
// ----------------------

type CheckInVisitorRequest struct {
	FullName            string    `json:"full_name" validate:"required,min=2,max=200"`
	HostName            string    `json:"host_name" validate:"max=200"`
	RepresentingCompany string    `json:"representing_company" validate:"max=200"`
	Reason              string    `json:"reason" validate:"max=300"`
	Companions          int       `json:"companions" validate:"min=0,max=50"`
	Document            string    `json:"document" validate:"max=50"`
	CompanyID           uuid.UUID `json:"company_id,omitempty"`
}

// ----------------------
// Responses
// ----------------------

type VisitorStatsResponse struct {
	Today       int    `json:"today"`
	Active      int    `json:"active"`
	MonthTotal  int    `json:"month_total"`
	AverageStay string `json:"average_stay"`
}
