package controllers

import (
	"net/http"

	"github.com/portaria-app/backend/internal/dtos"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

type DoormanController struct {
	deliveryService services.DeliveryService
}

func NewDoormanController(deliveryService services.DeliveryService) *DoormanController {
	return &DoormanController{deliveryService: deliveryService}
}

func (c *DoormanController) RegisterDelivery(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if !authorize(w, claims, services.ActionRegisterDelivery, claims.BuildingID) {
		return
	}

	var req dtos.RegisterDeliveryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	delivery, err := c.deliveryService.RegisterDelivery(r.Context(), claims.BuildingID, claims.UserID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, delivery)
}

func (c *DoormanController) DeliveriesToday(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if !authorize(w, claims, services.ActionViewDeliveries, claims.BuildingID) {
		return
	}

	deliveries, err := c.deliveryService.DeliveriesToday(r.Context(), claims.BuildingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, deliveries)
}

func (c *DoormanController) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	claims, ok := mustClaims(w, r)
	if !ok {
		return
	}
	if !authorize(w, claims, services.ActionViewDeliveries, claims.BuildingID) {
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
