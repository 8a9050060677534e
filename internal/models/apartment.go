package models

import (
	"time"

	"github.com/google/uuid"
)

// Apartment is a resource unit of a building. Numbers are sequential
// starting at 1 and never reused.
type Apartment struct {
	ID         uuid.UUID `json:"id"`
	BuildingID uuid.UUID `json:"building_id"`
	Number     int       `json:"number"`
	CreatedAt  time.Time `json:"created_at"`
}

// Phone is a contact endpoint attached to an apartment. Number is the
// WhatsApp/SMS address the notifier sends to.
type Phone struct {
	ID          uuid.UUID `json:"id"`
	BuildingID  uuid.UUID `json:"building_id"`
	ApartmentID uuid.UUID `json:"apartment_id"`
	Number      string    `json:"number"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}
