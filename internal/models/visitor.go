package models

import (
	"time"

	"github.com/google/uuid"
)

type VisitorStatus string

const (
	VisitorCheckedIn  VisitorStatus = "checked_in"
	VisitorCheckedOut VisitorStatus = "checked_out"
)

// Visitor is a metered event in the visitor-management flow. The only
// mutation after creation is the terminal checkout transition.
type Visitor struct {
	ID                 uuid.UUID     `json:"id"`
	BuildingID         uuid.UUID     `json:"building_id"`
	CompanyID          uuid.UUID     `json:"company_id"`
	FullName           string        `json:"full_name"`
	HostName           string        `json:"host_name"`
	RepresentingCompany string       `json:"representing_company"`
	Reason             string        `json:"reason"`
	Companions         int           `json:"companions"`
	Document           string        `json:"document"`
	Status             VisitorStatus `json:"status"`
	CheckInTime        time.Time     `json:"check_in_time"`
	CheckOutTime       *time.Time    `json:"check_out_time,omitempty"`
	QRCode             string        `json:"qr_code"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}
