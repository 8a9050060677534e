package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

// PublicController serves the unauthenticated resident self-service
// endpoints reached from the printed registration code.
type PublicController struct {
	buildingService services.BuildingService
}

func NewPublicController(buildingService services.BuildingService) *PublicController {
	return &PublicController{buildingService: buildingService}
}

func (c *PublicController) LookupBuilding(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])

	resp, err := c.buildingService.PublicLookup(r.Context(), code)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (c *PublicController) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.PublicRegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	req.RegistrationCode = strings.ToUpper(req.RegistrationCode)

	phone, err := c.buildingService.PublicRegister(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, phone)
}
