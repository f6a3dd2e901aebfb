// Package policy is the single access-control gate. Controllers never
// branch on roles themselves; they ask the table. Ownership-sensitive
// operations use distinct _own/_any actions so the caller only has to
// decide which of the two it is asking about.
package policy

import (
	"foodtruck-ops/apperr"
	"foodtruck-ops/models"
)

const (
	ResourceOrders   = "orders"
	ResourceProducts = "products"
	ResourceUsers    = "users"
)

const (
	ActionCreate    = "create"
	ActionReadAny   = "read_any"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionAdvance   = "advance"
	ActionCancelOwn = "cancel_own"
	ActionCancelAny = "cancel_any"
	ActionModifyOwn = "modify_own"
	ActionModifyAny = "modify_any"
	ActionRateOwn   = "rate_own"
)

var rules = map[models.Role]map[string]map[string]bool{
	models.RoleAdmin: {
		ResourceOrders: {
			ActionCreate:    true,
			ActionReadAny:   true,
			ActionAdvance:   true,
			ActionCancelOwn: true,
			ActionCancelAny: true,
			ActionModifyOwn: true,
			ActionModifyAny: true,
			ActionRateOwn:   true,
			ActionDelete:    true,
		},
		ResourceProducts: {
			ActionCreate: true,
			ActionUpdate: true,
			ActionDelete: true,
		},
		ResourceUsers: {
			ActionCreate:  true,
			ActionReadAny: true,
			ActionUpdate:  true,
			ActionDelete:  true,
		},
	},
	models.RoleStaff: {
		ResourceOrders: {
			ActionCreate:    true,
			ActionAdvance:   true,
			ActionCancelOwn: true,
			ActionCancelAny: true,
			ActionModifyOwn: true,
			ActionRateOwn:   true,
		},
	},
	models.RoleCustomer: {
		ResourceOrders: {
			ActionCreate:    true,
			ActionCancelOwn: true,
			ActionModifyOwn: true,
			ActionRateOwn:   true,
		},
	},
}

// Allow is a pure table lookup; unknown roles, resources and actions
// all deny.
func Allow(role models.Role, resource, action string) bool {
	return rules[role][resource][action]
}

// Check wraps Allow in the domain error the caller surfaces.
func Check(role models.Role, resource, action string) error {
	if !Allow(role, resource, action) {
		return apperr.Authorization("role %q is not allowed to %s %s", role, action, resource)
	}
	return nil
}
