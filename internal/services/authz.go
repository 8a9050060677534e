package services

import (
	"github.com/google/uuid"

	"github.com/portaria-app/backend/internal/middleware"
	"github.com/portaria-app/backend/internal/models"
	"github.com/portaria-app/backend/internal/utils"
)

// Action names a guarded operation, independent of HTTP surface.
type Action string

const (
	ActionManagePlatform   Action = "manage_platform"   // buildings CRUD, plans, system settings
	ActionManageBuilding   Action = "manage_building"   // apartments, phones, staff, companies
	ActionRegisterDelivery Action = "register_delivery" // doorman flow
	ActionViewDeliveries   Action = "view_deliveries"
	ActionCheckInVisitor   Action = "check_in_visitor"
	ActionViewVisitors     Action = "view_visitors"
	ActionViewStats        Action = "view_stats"
	ActionViewSettings     Action = "view_settings"
)

// rolePermissions maps each role to the actions it may perform inside
// its own building. Super admins bypass the table entirely.
var rolePermissions = map[models.Role]map[Action]bool{
	models.RoleBuildingAdmin: {
		ActionManageBuilding: true,
		ActionViewDeliveries: true,
		ActionCheckInVisitor: true,
		ActionViewVisitors:   true,
		ActionViewStats:      true,
		ActionViewSettings:   true,
	},
	models.RoleDoorman: {
		ActionRegisterDelivery: true,
		ActionViewDeliveries:   true,
		ActionCheckInVisitor:   true,
		ActionViewVisitors:     true,
		ActionViewSettings:     true,
	},
	models.RoleReceptionist: {
		ActionCheckInVisitor: true,
		ActionViewVisitors:   true,
		ActionViewStats:      true,
		ActionViewSettings:   true,
	},
}

// Authorize decides whether claims may perform action against the
// given building. Pure function; no I/O. targetBuilding may be
// uuid.Nil for platform-scoped actions.
func Authorize(claims *middleware.Claims, action Action, targetBuilding uuid.UUID) error {
	if claims == nil {
		return utils.ErrForbidden
	}

	if claims.Role == models.RoleSuperAdmin {
		return nil
	}

	if action == ActionManagePlatform {
		return utils.ErrForbidden
	}

	// Tenant isolation: a building-bound role never crosses buildings.
	if targetBuilding == uuid.Nil || claims.BuildingID != targetBuilding {
		return utils.ErrForbidden
	}

	if !rolePermissions[claims.Role][action] {
		return utils.ErrForbidden
	}
	return nil
}
