package models

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryStatus string

const (
	// All phones on the apartment were notified.
	DeliveryNotified DeliveryStatus = "notified"
	// At least one phone was notified, at least one failed.
	DeliveryPartial DeliveryStatus = "partial"
	// No phone could be notified (or the apartment has none).
	DeliveryFailed DeliveryStatus = "failed"
)

// Delivery is an append-only metered event: a package registered by a
// doorman. Rows are immutable once created.
type Delivery struct {
	ID              uuid.UUID      `json:"id"`
	BuildingID      uuid.UUID      `json:"building_id"`
	ApartmentID     uuid.UUID      `json:"apartment_id"`
	ApartmentNumber int            `json:"apartment_number"`
	DoormanID       uuid.UUID      `json:"doorman_id"`
	Status          DeliveryStatus `json:"status"`
	PhonesNotified  []string       `json:"phones_notified"`
	Message         string         `json:"message"`
	CreatedAt       time.Time      `json:"created_at"`
}
