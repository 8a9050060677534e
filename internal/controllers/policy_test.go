package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/portaria-app/backend/internal/middleware"
	"github.com/portaria-app/backend/internal/models"
)

// The deny paths below never reach the service layer, so the
// controllers are built with nil services on purpose.

func requestAs(method, target, body string, claims *middleware.Claims) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyClaims, claims))
}

func TestRegisterDeliveryDeniedForBuildingAdmin(t *testing.T) {
	c := NewDoormanController(nil)
	admin := &middleware.Claims{
		UserID:     uuid.New(),
		Role:       models.RoleBuildingAdmin,
		BuildingID: uuid.New(),
	}

	rec := httptest.NewRecorder()
	c.RegisterDelivery(rec, requestAs(http.MethodPost, "/api/v1/doorman/delivery", `{"apartment_number":1}`, admin))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckInDeniedWithoutClaims(t *testing.T) {
	c := NewVisitorController(nil, nil)

	rec := httptest.NewRecorder()
	c.CheckIn(rec, requestAs(http.MethodPost, "/api/v1/visitors", `{"full_name":"Ana"}`, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVisitorStatsDeniedForDoorman(t *testing.T) {
	c := NewVisitorController(nil, nil)
	doorman := &middleware.Claims{
		UserID:     uuid.New(),
		Role:       models.RoleDoorman,
		BuildingID: uuid.New(),
	}

	rec := httptest.NewRecorder()
	c.Stats(rec, requestAs(http.MethodGet, "/api/v1/stats", "", doorman))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBuildingSettingsReadIsTenantScoped(t *testing.T) {
	c := NewSettingsController(nil)
	receptionist := &middleware.Claims{
		UserID:     uuid.New(),
		Role:       models.RoleReceptionist,
		BuildingID: uuid.New(),
	}

	otherBuilding := uuid.New()
	req := requestAs(http.MethodGet, "/api/v1/settings/building/"+otherBuilding.String(), "", receptionist)
	req = mux.SetURLVars(req, map[string]string{"id": otherBuilding.String()})

	rec := httptest.NewRecorder()
	c.GetBuilding(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBuildingSettingsUpdateDeniedForDoorman(t *testing.T) {
	c := NewSettingsController(nil)
	buildingID := uuid.New()
	doorman := &middleware.Claims{
		UserID:     uuid.New(),
		Role:       models.RoleDoorman,
		BuildingID: buildingID,
	}

	req := requestAs(http.MethodPut, "/api/v1/settings/building/"+buildingID.String(), `{"default_language":"pt"}`, doorman)
	req = mux.SetURLVars(req, map[string]string{"id": buildingID.String()})

	rec := httptest.NewRecorder()
	c.UpdateBuilding(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
