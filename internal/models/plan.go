package models

// Plan is a static catalog entry. NotificationLimit is the monthly
// ceiling for metered events; Unlimited (-1) disables the quota check.
type Plan struct {
	Key               string  `json:"key"`
	Name              string  `json:"name"`
	MinApartments     int     `json:"min_apartments"`
	MaxApartments     int     `json:"max_apartments"`
	NotificationLimit int     `json:"notification_limit"`
	MonthlyPrice      float64 `json:"monthly_price"`
	Active            bool    `json:"active"`
	Description       string  `json:"description"`
}

const UnlimitedNotifications = -1

func (p *Plan) Unlimited() bool {
	return p.NotificationLimit == UnlimitedNotifications
}
