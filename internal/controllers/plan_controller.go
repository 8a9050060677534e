package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

type PlanController struct {
	planService services.PlanService
}

func NewPlanController(planService services.PlanService) *PlanController {
	return &PlanController{planService: planService}
}

func (c *PlanController) List(w http.ResponseWriter, r *http.Request) {
	plans, err := c.planService.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, plans)
}

func (c *PlanController) Update(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req dtos.UpdatePlanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	plan, err := c.planService.Update(r.Context(), key, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, plan)
}
