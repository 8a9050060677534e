package controllers

import (
	"net/http"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

type SettingsController struct {
	settingsService services.SettingsService
}

func NewSettingsController(settingsService services.SettingsService) *SettingsController {
	return &SettingsController{settingsService: settingsService}
}

func (c *SettingsController) GetSystem(w http.ResponseWriter, r *http.Request) {
	settings, err := c.settingsService.GetSystem(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, settings)
}

func (c *SettingsController) UpdateSystem(w http.ResponseWriter, r *http.Request) {
	var req dtos.UpdateSystemSettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := c.settingsService.UpdateSystem(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, settings)
}

func (c *SettingsController) GetBuilding(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	// Building staff may only read their own settings.
	if !authorize(w, claims, services.ActionViewSettings, buildingID) {
		return
	}

	settings, err := c.settingsService.GetBuilding(r.Context(), buildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, settings)
}

func (c *SettingsController) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	buildingID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if !authorize(w, claims, services.ActionManageBuilding, buildingID) {
		return
	}

	var req dtos.UpdateBuildingSettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := c.settingsService.UpdateBuilding(r.Context(), buildingID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, settings)
}
