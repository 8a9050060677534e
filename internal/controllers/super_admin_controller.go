package controllers

import (
	"net/http"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

type SuperAdminController struct {
	buildingService services.BuildingService
	statsService    services.StatsService
}

func NewSuperAdminController(
	buildingService services.BuildingService,
	statsService services.StatsService,
) *SuperAdminController {
	return &SuperAdminController{
		buildingService: buildingService,
		statsService:    statsService,
	}
}

func (c *SuperAdminController) ListBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, err := c.buildingService.ListBuildings(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, buildings)
}

func (c *SuperAdminController) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateBuildingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	building, err := c.buildingService.CreateBuilding(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, building)
}

func (c *SuperAdminController) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.UpdateBuildingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	building, err := c.buildingService.UpdateBuilding(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, building)
}

func (c *SuperAdminController) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := c.buildingService.DeleteBuilding(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Building deleted"})
}

func (c *SuperAdminController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.statsService.PlatformStats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
