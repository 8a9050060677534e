package dtos

import (
	"github.com/portaria-app/backend/internal/models"
)

// ----------------------
// Requests
// ----------------------

type CreateBuildingRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	Address       string `json:"address" validate:"max=300"`
	City          string `json:"city" validate:"max=100"`
	State         string `json:"state" validate:"max=50"`
	Plan          string `json:"plan" validate:"required"`
	NumApartments int    `json:"num_apartments" validate:"required,min=1"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminName     string `json:"admin_name" validate:"required,min=2,max=100"`
	AdminPassword string `json:"admin_password" validate:"required,min=8,max=128"`
}

type UpdateBuildingRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City          *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State         *string `json:"state,omitempty" validate:"omitempty,max=50"`
	Plan          *string `json:"plan,omitempty"`
	NumApartments *int    `json:"num_apartments,omitempty" validate:"omitempty,min=1"`
	Active        *bool   `json:"active,omitempty"`
}

type UpdateBuildingMessageRequest struct {
	CustomMessage string `json:"custom_message" validate:"max=500"`
}

type PublicRegisterRequest struct {
	RegistrationCode string `json:"registration_code" validate:"required,len=8"`
	ApartmentNumber  int    `json:"apartment_number" validate:"required,min=1"`
	Phone            string `json:"phone" validate:"required,min=8,max=20"`
	Name             string `json:"name" validate:"required,min=2,max=100"`
}

type CreatePhoneRequest struct {
	Number string `json:"number" validate:"required,min=8,max=20"`
	Name   string `json:"name" validate:"required,min=2,max=100"`
}

type CreateStaffUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=doorman receptionist building_admin"`
}

type CompanyRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=200"`
	Suite  string `json:"suite" validate:"required,min=1,max=20"`
	Active *bool  `json:"active,omitempty"`
}

// ----------------------
// Responses
// ----------------------

type PublicBuildingResponse struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type ApartmentWithPhones struct {
	Apartment *models.Apartment `json:"apartment"`
	Phones    []*models.Phone   `json:"phones"`
}

type SuperAdminStatsResponse struct {
	TotalBuildings  int     `json:"total_buildings"`
	ActiveBuildings int     `json:"active_buildings"`
	TotalDeliveries int     `json:"total_deliveries"`
	MonthlyRevenue  float64 `json:"monthly_revenue"`
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

type BuildingUsageResponse struct {
	Building          *models.Building `json:"building"`
	NotificationsUsed int              `json:"notifications_used"`
	NotificationLimit int              `json:"notification_limit"`
	ApartmentCount    int              `json:"apartment_count"`
}
