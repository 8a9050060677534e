package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/portaria-app/backend/internal/app"
	"github.com/portaria-app/backend/internal/config"
	"github.com/portaria-app/backend/internal/controllers"
	"github.com/portaria-app/backend/internal/middleware"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/routes"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

const appName = "portaria-backend"

func main() {
	utils.InitLogger(appName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize backend:", err)
	}
	defer application.Close()

	// Repositories
	buildingRepo := repositories.NewBuildingRepository(application.DB)
	apartmentRepo := repositories.NewApartmentRepository(application.DB)
	phoneRepo := repositories.NewPhoneRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)
	companyRepo := repositories.NewCompanyRepository(application.DB)
	planRepo := repositories.NewPlanRepository(application.DB)
	tokenRepo := repositories.NewTokenRepository(application.DB)
	settingsRepo := repositories.NewSettingsRepository(application.DB)
	deliveryRepo := repositories.NewDeliveryRepository(application.DB)
	visitorRepo := repositories.NewVisitorRepository(application.DB)

	// External senders
	notifier := services.NewTwilioNotifier(cfg)
	emailSender := services.NewSendGridSender(cfg)

	// Services
	jwtService := services.NewJWTService(cfg, tokenRepo, userRepo)
	authService := services.NewAuthService(userRepo, buildingRepo, jwtService)
	buildingService := services.NewBuildingService(buildingRepo, apartmentRepo, phoneRepo, userRepo, companyRepo, planRepo)
	deliveryService := services.NewDeliveryService(buildingRepo, apartmentRepo, phoneRepo, deliveryRepo, planRepo, notifier)
	visitorService := services.NewVisitorService(buildingRepo, visitorRepo, companyRepo, settingsRepo, planRepo, emailSender)
	statsService := services.NewStatsService(buildingRepo, visitorRepo, deliveryRepo, planRepo)
	planService := services.NewPlanService(planRepo)
	settingsService := services.NewSettingsService(settingsRepo)
	importService := services.NewImportService(apartmentRepo, phoneRepo)

	// Startup seeding
	ctx := context.Background()
	if err := planService.SeedDefaults(ctx); err != nil {
		utils.Logger.Fatal("Failed to seed plan catalog:", err)
	}
	if err := app.EnsureSuperAdmin(ctx, cfg, userRepo); err != nil {
		utils.Logger.Fatal("Failed to bootstrap super admin:", err)
	}

	// Controllers
	healthController := controllers.NewHealthController()
	authController := controllers.NewAuthController(authService)
	publicController := controllers.NewPublicController(buildingService)
	superAdminController := controllers.NewSuperAdminController(buildingService, statsService)
	adminController := controllers.NewAdminController(buildingService, deliveryService, importService)
	doormanController := controllers.NewDoormanController(deliveryService)
	visitorController := controllers.NewVisitorController(visitorService, statsService)
	planController := controllers.NewPlanController(planService)
	settingsController := controllers.NewSettingsController(settingsService)

	// Router setup
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc(routes.Health, healthController.Health).Methods(http.MethodGet)
	router.HandleFunc(routes.AuthLogin, authController.Login).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthRefresh, authController.Refresh).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogout, authController.Logout).Methods(http.MethodPost)
	router.HandleFunc(routes.PublicBuilding, publicController.LookupBuilding).Methods(http.MethodGet)
	router.HandleFunc(routes.PublicRegister, publicController.Register).Methods(http.MethodPost)

	authn := middleware.AuthMiddleware(cfg.JWTSecret)

	// Super admin panel
	superAdmin := router.PathPrefix(routes.SuperAdminBase).Subrouter()
	superAdmin.Use(authn, middleware.RequireRoles(models.RoleSuperAdmin))
	superAdmin.HandleFunc(routes.SuperAdminBuildings, superAdminController.ListBuildings).Methods(http.MethodGet)
	superAdmin.HandleFunc(routes.SuperAdminBuildings, superAdminController.CreateBuilding).Methods(http.MethodPost)
	superAdmin.HandleFunc(routes.SuperAdminBuilding, superAdminController.UpdateBuilding).Methods(http.MethodPut)
	superAdmin.HandleFunc(routes.SuperAdminBuilding, superAdminController.DeleteBuilding).Methods(http.MethodDelete)
	superAdmin.HandleFunc(routes.SuperAdminStats, superAdminController.Stats).Methods(http.MethodGet)

	// Plans: list for any signed-in user, updates for super admin only.
	plansRead := router.NewRoute().Subrouter()
	plansRead.Use(authn)
	plansRead.HandleFunc(routes.Plans, planController.List).Methods(http.MethodGet)

	plansWrite := router.NewRoute().Subrouter()
	plansWrite.Use(authn, middleware.RequireRoles(models.RoleSuperAdmin))
	plansWrite.HandleFunc(routes.Plan, planController.Update).Methods(http.MethodPut)

	// Settings
	settingsRead := router.NewRoute().Subrouter()
	settingsRead.Use(authn)
	settingsRead.HandleFunc(routes.SystemSettings, settingsController.GetSystem).Methods(http.MethodGet)
	settingsRead.HandleFunc(routes.BuildingSettings, settingsController.GetBuilding).Methods(http.MethodGet)
	settingsRead.HandleFunc(routes.BuildingSettings, settingsController.UpdateBuilding).Methods(http.MethodPut)

	settingsWrite := router.NewRoute().Subrouter()
	settingsWrite.Use(authn, middleware.RequireRoles(models.RoleSuperAdmin))
	settingsWrite.HandleFunc(routes.SystemSettings, settingsController.UpdateSystem).Methods(http.MethodPut)

	// Building admin panel
	admin := router.PathPrefix(routes.AdminBase).Subrouter()
	admin.Use(authn, middleware.RequireRoles(models.RoleBuildingAdmin))
	admin.HandleFunc(routes.AdminBuildingMessage, adminController.UpdateMessage).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminApartments, adminController.ListApartments).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminApartmentPhones, adminController.ListApartmentPhones).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminApartmentPhones, adminController.AddPhone).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminPhone, adminController.DeletePhone).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminAllPhones, adminController.ListAllPhones).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminPhonesImport, adminController.ImportPhones).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminUsers, adminController.ListUsers).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminUsers, adminController.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminCompanies, adminController.ListCompanies).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminCompanies, adminController.CreateCompany).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminCompany, adminController.UpdateCompany).Methods(http.MethodPut)
	admin.HandleFunc(routes.AdminCompany, adminController.DeleteCompany).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminDeliveries, adminController.ListDeliveries).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminDeliveryStats, adminController.DeliveryStats).Methods(http.MethodGet)

	// The building overview and apartment/phone listings also serve the
	// doorman panel.
	adminShared := router.PathPrefix(routes.AdminBase).Subrouter()
	adminShared.Use(authn, middleware.RequireRoles(models.RoleBuildingAdmin, models.RoleDoorman))
	adminShared.HandleFunc(routes.AdminBuilding, adminController.GetBuilding).Methods(http.MethodGet)
	adminShared.HandleFunc(routes.AdminApartmentsAndPhones, adminController.ListApartmentsWithPhones).Methods(http.MethodGet)

	// Doorman panel. Only doormen register deliveries; admins may read
	// the log. Handlers re-check against services.Authorize.
	doorman := router.PathPrefix(routes.DoormanBase).Subrouter()
	doorman.Use(authn, middleware.RequireRoles(models.RoleDoorman))
	doorman.HandleFunc(routes.DoormanDelivery, doormanController.RegisterDelivery).Methods(http.MethodPost)

	doormanShared := router.PathPrefix(routes.DoormanBase).Subrouter()
	doormanShared.Use(authn, middleware.RequireRoles(models.RoleDoorman, models.RoleBuildingAdmin))
	doormanShared.HandleFunc(routes.DoormanDeliveriesToday, doormanController.DeliveriesToday).Methods(http.MethodGet)
	doormanShared.HandleFunc(routes.DoormanDeliveries, doormanController.ListDeliveries).Methods(http.MethodGet)

	// Visitor reception
	visitors := router.PathPrefix(routes.VisitorsBase).Subrouter()
	visitors.Use(authn, middleware.RequireRoles(models.RoleReceptionist, models.RoleBuildingAdmin, models.RoleDoorman))
	visitors.HandleFunc(routes.Visitors, visitorController.List).Methods(http.MethodGet)
	visitors.HandleFunc(routes.Visitors, visitorController.CheckIn).Methods(http.MethodPost)
	visitors.HandleFunc(routes.VisitorCheckout, visitorController.Checkout).Methods(http.MethodPut)
	visitors.HandleFunc(routes.VisitorQRCode, visitorController.QRCode).Methods(http.MethodGet)

	stats := router.NewRoute().Subrouter()
	stats.Use(authn, middleware.RequireRoles(models.RoleReceptionist, models.RoleBuildingAdmin))
	stats.HandleFunc(routes.VisitorStats, visitorController.Stats).Methods(http.MethodGet)

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", appName, cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server failed to start:", err)
	}
}
