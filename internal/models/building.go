package models

import (
	"time"

	"github.com/google/uuid"
)

// Building is a tenant: it owns its apartments, phones, users and
// metered events, and is billed against a plan.
type Building struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	PlanKey          string    `json:"plan"`
	RegistrationCode string    `json:"registration_code"`
	NumApartments    int       `json:"num_apartments"`

	// Monthly notification accounting. UsagePeriod is "YYYY-MM"; a
	// period rollover resets the counter on the next metered action.
	NotificationsUsed int    `json:"notifications_used"`
	UsagePeriod       string `json:"usage_period"`

	CustomMessage string    `json:"custom_message"`
	Active        bool      `json:"active"`
	AdminEmail    string    `json:"admin_email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UsedInPeriod returns the notification count for the given period,
// treating a stale period as zero usage.
func (b *Building) UsedInPeriod(period string) int {
	if b.UsagePeriod != period {
		return 0
	}
	return b.NotificationsUsed
}
