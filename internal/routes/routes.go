package routes

const (
	// Health
	Health = "/health"

	// Auth
	AuthLogin   = "/api/v1/auth/login"
	AuthRefresh = "/api/v1/auth/refresh"
	AuthLogout  = "/api/v1/auth/logout"

	// Public resident self-service
	PublicBuilding = "/api/v1/public/buildings/{code}"
	PublicRegister = "/api/v1/public/register"

	// ───────────────────────────────
	// Super admin
	// ───────────────────────────────
	SuperAdminBase      = "/api/v1/super-admin"
	SuperAdminBuildings = "/buildings"
	SuperAdminBuilding  = "/buildings/{id}"
	SuperAdminStats     = "/stats"

	// ───────────────────────────────
	// Plans & settings
	// ───────────────────────────────
	Plans            = "/api/v1/plans"
	Plan             = "/api/v1/plans/{key}"
	SystemSettings   = "/api/v1/settings"
	BuildingSettings = "/api/v1/settings/building/{id}"

	// ───────────────────────────────
	// Building admin panel
	// ───────────────────────────────
	AdminBase                = "/api/v1/admin"
	AdminBuilding            = "/building"
	AdminBuildingMessage     = "/building/message"
	AdminApartments          = "/apartments"
	AdminApartmentsAndPhones = "/apartments-with-phones"
	AdminApartmentPhones     = "/apartments/{id}/phones"
	AdminPhone               = "/phones/{id}"
	AdminAllPhones           = "/all-phones"
	AdminPhonesImport        = "/phones/import"
	AdminUsers               = "/users"
	AdminCompanies           = "/companies"
	AdminCompany             = "/companies/{id}"
	AdminDeliveries          = "/deliveries"
	AdminDeliveryStats       = "/deliveries/stats"

	// ───────────────────────────────
	// Doorman panel
	// ───────────────────────────────
	DoormanBase            = "/api/v1/doorman"
	DoormanDelivery        = "/delivery"
	DoormanDeliveriesToday = "/deliveries/today"
	DoormanDeliveries      = "/deliveries"

	// ───────────────────────────────
	// Visitors (reception)
	// ───────────────────────────────
	VisitorsBase    = "/api/v1/visitors"
	Visitors        = ""
	VisitorCheckout = "/{id}/checkout"
	VisitorQRCode   = "/{id}/qrcode"
	VisitorStats    = "/api/v1/stats"
)
