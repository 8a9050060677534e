package dtos

// ----------------------
// Requests
// ----------------------

type RegisterDeliveryRequest struct {
	ApartmentNumber int    `json:"apartment_number" validate:"required,min=1"`
	Message         string `json:"message" validate:"max=500"`
}

// ----------------------
// Responses
// ----------------------

type RegisterDeliveryResponse struct {
	Status         string   `json:"status"`
	PhonesNotified []string `json:"phones_notified"`
	PhonesFailed   []string `json:"phones_failed,omitempty"`
}

type DeliveryStatsResponse struct {
	Total               int                  `json:"total"`
	Notified            int                  `json:"notified"`
	Partial             int                  `json:"partial"`
	Failed              int                  `json:"failed"`
	TotalPhonesNotified int                  `json:"total_phones_notified"`
	TopApartments       []ApartmentEventRank `json:"top_apartments"`
}

type ApartmentEventRank struct {
	ApartmentNumber int `json:"apartment_number"`
	Count           int `json:"count"`
}
