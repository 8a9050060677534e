package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

// AdminController serves the building admin panel. Every handler is
// scoped to the building carried in the caller's token.
type AdminController struct {
	buildingService services.BuildingService
	deliveryService services.DeliveryService
	importService   services.ImportService
}

func NewAdminController(
	buildingService services.BuildingService,
	deliveryService services.DeliveryService,
	importService services.ImportService,
) *AdminController {
	return &AdminController{
		buildingService: buildingService,
		deliveryService: deliveryService,
		importService:   importService,
	}
}

// ---------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------

func (c *AdminController) GetBuilding(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	usage, err := c.buildingService.GetBuildingUsage(r.Context(), claims.BuildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, usage)
}

func (c *AdminController) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	var req dtos.UpdateBuildingMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.buildingService.UpdateCustomMessage(r.Context(), claims.BuildingID, req.CustomMessage); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Message updated"})
}

// ---------------------------------------------------------------------
// Apartments & phones
// ---------------------------------------------------------------------

func (c *AdminController) ListApartments(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	apartments, err := c.buildingService.ListApartments(r.Context(), claims.BuildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, apartments)
}

func (c *AdminController) ListApartmentsWithPhones(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	out, err := c.buildingService.ListApartmentsWithPhones(r.Context(), claims.BuildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func (c *AdminController) ListApartmentPhones(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	apartmentID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	phones, err := c.buildingService.ListApartmentPhones(r.Context(), claims.BuildingID, apartmentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, phones)
}

func (c *AdminController) AddPhone(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	apartmentID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.CreatePhoneRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	phone, err := c.buildingService.AddPhone(r.Context(), claims.BuildingID, apartmentID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, phone)
}

func (c *AdminController) DeletePhone(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	phoneID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.buildingService.DeletePhone(r.Context(), claims.BuildingID, phoneID); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Phone removed"})
}

func (c *AdminController) ListAllPhones(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	phones, err := c.buildingService.ListPhones(r.Context(), claims.BuildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, phones)
}

// ImportPhones accepts the resident spreadsheet as a CSV body
// (text/csv or multipart "file" field).
func (c *AdminController) ImportPhones(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	body := r.Body
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		body = file
	}

	result, err := c.importService.ImportPhones(r.Context(), claims.BuildingID, body)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, result)
}

// ---------------------------------------------------------------------
// Staff users
// ---------------------------------------------------------------------

func (c *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	users, err := c.buildingService.ListStaff(r.Context(), claims.BuildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func (c *AdminController) CreateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	var req dtos.CreateStaffUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.buildingService.CreateStaff(r.Context(), claims.BuildingID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// ---------------------------------------------------------------------
// Companies
// ---------------------------------------------------------------------

func (c *AdminController) ListCompanies(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	companies, err := c.buildingService.ListCompanies(r.Context(), claims.BuildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, companies)
}

func (c *AdminController) CreateCompany(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	var req dtos.CompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	company, err := c.buildingService.CreateCompany(r.Context(), claims.BuildingID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, company)
}

func (c *AdminController) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	companyID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.CompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	company, err := c.buildingService.UpdateCompany(r.Context(), claims.BuildingID, companyID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, company)
}

func (c *AdminController) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	companyID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.buildingService.DeleteCompany(r.Context(), claims.BuildingID, companyID); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Company removed"})
}

// ---------------------------------------------------------------------
// Deliveries
// ---------------------------------------------------------------------

func (c *AdminController) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	filter, ok := deliveryFilterFromQuery(w, r)
	if !ok {
		return
	}

	deliveries, err := c.deliveryService.ListDeliveries(r.Context(), claims.BuildingID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, deliveries)
}

func (c *AdminController) DeliveryStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}

	filter, ok := deliveryFilterFromQuery(w, r)
	if !ok {
		return
	}

	stats, err := c.deliveryService.DeliveryStats(r.Context(), claims.BuildingID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// deliveryFilterFromQuery parses ?days / ?from / ?to / ?apartment_id /
// ?status / ?limit into a repository filter.
func deliveryFilterFromQuery(w http.ResponseWriter, r *http.Request) (repositories.DeliveryFilter, bool) {
	var f repositories.DeliveryFilter
	q := r.URL.Query()

	if v := q.Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 1 {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid days parameter", nil,
			)
			return f, false
		}
		f.Since = time.Now().AddDate(0, 0, -days)
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid from date", nil,
			)
			return f, false
		}
		f.Since = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid to date", nil,
			)
			return f, false
		}
		// Inclusive end of day.
		f.Until = t.AddDate(0, 0, 1)
	}
	if v := q.Get("apartment_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid apartment_id", nil,
			)
			return f, false
		}
		f.ApartmentID = id
	}
	if v := q.Get("status"); v != "" {
		switch models.DeliveryStatus(v) {
		case models.DeliveryNotified, models.DeliveryPartial, models.DeliveryFailed:
			f.Status = models.DeliveryStatus(v)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid status", nil,
			)
			return f, false
		}
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid limit", nil,
			)
			return f, false
		}
		f.Limit = limit
	}
	return f, true
}
