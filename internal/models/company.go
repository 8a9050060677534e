package models

import (
	"time"

	"github.com/google/uuid"
)

// Company occupies a suite in a commercial building and hosts visitors.
type Company struct {
	ID         uuid.UUID `json:"id"`
	BuildingID uuid.UUID `json:"building_id"`
	Name       string    `json:"name"`
	Suite      string    `json:"suite"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
