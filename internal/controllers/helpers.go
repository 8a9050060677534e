package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/portaria-app/backend/internal/middleware"
	"github.com/portaria-app/backend/internal/services"
	"github.com/portaria-app/backend/internal/utils"
)

var validate = validator.New()

// decodeAndValidate parses the JSON body into dst and runs struct
// validation, writing the error response itself. Returns false when
// the caller should stop.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid payload", nil, err,
		)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", validationDetails(err), err,
		)
		return false
	}
	return true
}

func validationDetails(err error) any {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}
	fields := make([]string, 0, len(vErrs))
	for _, f := range vErrs {
		fields = append(fields, f.Field())
	}
	return map[string]any{"invalid_fields": fields}
}

// pathUUID reads a UUID path variable, responding 400 on garbage.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Invalid id", nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// mustClaims returns the authenticated identity or writes a 401.
func mustClaims(w http.ResponseWriter, r *http.Request) (*middleware.Claims, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Missing credentials", nil,
		)
		return nil, false
	}
	return claims, true
}

// authorize runs the role/action/building policy and writes a 403 when
// it denies. The route gates only narrow who reaches a subrouter; this
// is the decision.
func authorize(w http.ResponseWriter, claims *middleware.Claims, action services.Action, buildingID uuid.UUID) bool {
	if err := services.Authorize(claims, action, buildingID); err != nil {
		respondServiceError(w, err)
		return false
	}
	return true
}

// respondServiceError maps service-layer errors onto the stable error
// codes of the HTTP contract.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, utils.ErrInvalidCredentials):
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid credentials", nil,
		)
	case errors.Is(err, utils.ErrBuildingInactive):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden, "Building is deactivated", nil,
		)
	case errors.Is(err, utils.ErrForbidden):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", nil,
		)
	case errors.Is(err, utils.ErrNotFound):
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound, "Resource not found", nil,
		)
	case errors.Is(err, utils.ErrEmailExists):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeConflict, "Email already registered", nil,
		)
	case errors.Is(err, utils.ErrPhoneExists):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeConflict, "Phone already registered for this apartment", nil,
		)
	case errors.Is(err, utils.ErrQuotaExceeded):
		utils.RespondErrorWithCode(
			w, http.StatusUnprocessableEntity, utils.ErrCodeQuotaExceeded, "Plan limit reached", nil,
		)
	case errors.Is(err, utils.ErrUnknownPlan):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation, "Unknown or inactive plan", nil,
		)
	case errors.Is(err, utils.ErrExternalServiceFailure):
		utils.RespondErrorWithCode(
			w, http.StatusFailedDependency, utils.ErrCodeExternalService, "External notification service failed", nil, err,
		)
	default:
		utils.HandleAppError(w, err)
	}
}
