package controllers

import (
	"net/http"
	"strconv"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/repositories"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

type VisitorController struct {
	visitorService services.VisitorService
	statsService   services.StatsService
}

func NewVisitorController(
	visitorService services.VisitorService,
	statsService services.StatsService,
) *VisitorController {
	return &VisitorController{
		visitorService: visitorService,
		statsService:   statsService,
	}
}

func (c *VisitorController) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if !authorize(w, claims, services.ActionCheckInVisitor, claims.BuildingID) {
		return
	}

	var req dtos.CheckInVisitorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Receptionists are bound to their company.
	if claims.Role == models.RoleReceptionist {
		req.CompanyID = claims.CompanyID
	}

	visitor, err := c.visitorService.CheckIn(r.Context(), claims.BuildingID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, visitor)
}

func (c *VisitorController) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if !authorize(w, claims, services.ActionViewVisitors, claims.BuildingID) {
		return
	}

	var f repositories.VisitorFilter
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		switch models.VisitorStatus(v) {
		case models.VisitorCheckedIn, models.VisitorCheckedOut:
			f.Status = models.VisitorStatus(v)
		default:
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid status", nil,
			)
			return
		}
	}
	f.Search = q.Get("search")
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid limit", nil,
			)
			return
		}
		f.Limit = limit
	}

	visitors, err := c.visitorService.ListVisitors(r.Context(), claims.BuildingID, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, visitors)
}

func (c *VisitorController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if !authorize(w, claims, services.ActionCheckInVisitor, claims.BuildingID) {
		return
	}
	visitorID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	visitor, err := c.visitorService.Checkout(r.Context(), claims.BuildingID, visitorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, visitor)
}

func (c *VisitorController) QRCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if !authorize(w, claims, services.ActionViewVisitors, claims.BuildingID) {
		return
	}
	visitorID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	png, err := c.visitorService.QRCodePNG(r.Context(), claims.BuildingID, visitorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (c *VisitorController) Stats(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if !authorize(w, claims, services.ActionViewStats, claims.BuildingID) {
		return
	}

	stats, err := c.statsService.VisitorStats(r.Context(), claims.BuildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
