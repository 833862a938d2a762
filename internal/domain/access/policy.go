package access

import (
	"github.com/google/uuid"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
)

// Capability names a single permission a role may hold.
type Capability string

const (
	CanViewAllLedgers       Capability = "canViewAllLedgers"
	CanViewAllBills         Capability = "canViewAllBills"
	CanCreateBills          Capability = "canCreateBills"
	CanRecordPayments       Capability = "canRecordPayments"
	CanViewReports          Capability = "canViewReports"
	CanManageProducts       Capability = "canManageProducts"
	CanManageUsers          Capability = "canManageUsers"
	CanPrint                Capability = "canPrint"
	CanCreateOrderForOthers Capability = "canCreateOrderForOthers"
)

// Principal is the authenticated caller every operation receives from
// the identity layer.
type Principal struct {
	ID         uuid.UUID
	Role       enum.Role
	BusinessID uuid.UUID
	StoreID    *uuid.UUID
}

// PermissionSet is the set of capabilities granted to one role.
type PermissionSet map[Capability]bool

// Policy maps roles to fixed permission sets. It is built once at
// process start and passed to every component that authorizes; it is
// never mutated afterwards.
type Policy struct {
	permissions map[enum.Role]PermissionSet
}

// NewPolicy builds a Policy from a role permission table.
func NewPolicy(table map[enum.Role]PermissionSet) *Policy {
	permissions := make(map[enum.Role]PermissionSet, len(table))
	for role, set := range table {
		copied := make(PermissionSet, len(set))
		for cap, granted := range set {
			copied[cap] = granted
		}
		permissions[role] = copied
	}
	return &Policy{permissions: permissions}
}

// DefaultPermissions returns the published role permission table.
//
// canCreateOrderForOthers is checked by order creation but granted to
// no role, so only self-orders are possible as configured.
func DefaultPermissions() map[enum.Role]PermissionSet {
	return map[enum.Role]PermissionSet{
		enum.RoleSuperAdmin: {
			CanViewAllLedgers: true,
			CanViewAllBills:   true,
			CanCreateBills:    true,
			CanRecordPayments: true,
			CanViewReports:    true,
			CanManageProducts: true,
			CanManageUsers:    true,
			CanPrint:          true,
		},
		enum.RoleManager: {
			CanViewAllLedgers: true,
			CanViewAllBills:   true,
			CanViewReports:    true,
			CanPrint:          true,
		},
		enum.RoleAccountant: {
			CanViewAllLedgers: true,
			CanViewAllBills:   true,
			CanRecordPayments: true,
			CanViewReports:    true,
			CanPrint:          true,
		},
		enum.RoleSales: {
			CanViewAllBills:   true,
			CanCreateBills:    true,
			CanRecordPayments: true,
			CanViewReports:    true,
			CanPrint:          true,
		},
		enum.RoleRetailer: {
			CanPrint: true,
		},
		enum.RoleWorkshop: {
			CanPrint: true,
		},
	}
}

// Allows reports whether the role holds the capability.
func (p *Policy) Allows(role enum.Role, cap Capability) bool {
	set, ok := p.permissions[role]
	if !ok {
		return false
	}
	return set[cap]
}

// PermissionsFor returns the capability set for a role. Unknown roles
// get an empty set.
func (p *Policy) PermissionsFor(role enum.Role) PermissionSet {
	set, ok := p.permissions[role]
	if !ok {
		return PermissionSet{}
	}
	copied := make(PermissionSet, len(set))
	for cap, granted := range set {
		copied[cap] = granted
	}
	return copied
}

// CanAccessUserData decides whether the principal may read or act on
// the target customer's bills, payments and ledger. Elevated roles see
// everything; customers only themselves.
func (p *Policy) CanAccessUserData(principal Principal, targetUserID uuid.UUID) bool {
	switch principal.Role {
	case enum.RoleSuperAdmin, enum.RoleManager, enum.RoleAccountant, enum.RoleSales:
		return true
	}
	return principal.ID == targetUserID
}
