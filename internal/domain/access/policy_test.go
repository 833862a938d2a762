package access_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
)

func defaultPolicy() *access.Policy {
	return access.NewPolicy(access.DefaultPermissions())
}

func TestPolicy_PermissionTable(t *testing.T) {
	policy := defaultPolicy()

	tests := []struct {
		name    string
		role    enum.Role
		cap     access.Capability
		granted bool
	}{
		{"super admin creates bills", enum.RoleSuperAdmin, access.CanCreateBills, true},
		{"super admin manages users", enum.RoleSuperAdmin, access.CanManageUsers, true},
		{"manager views ledgers", enum.RoleManager, access.CanViewAllLedgers, true},
		{"manager cannot create bills", enum.RoleManager, access.CanCreateBills, false},
		{"manager cannot record payments", enum.RoleManager, access.CanRecordPayments, false},
		{"accountant records payments", enum.RoleAccountant, access.CanRecordPayments, true},
		{"accountant cannot manage products", enum.RoleAccountant, access.CanManageProducts, false},
		{"sales creates bills", enum.RoleSales, access.CanCreateBills, true},
		{"sales cannot view all ledgers", enum.RoleSales, access.CanViewAllLedgers, false},
		{"retailer can print", enum.RoleRetailer, access.CanPrint, true},
		{"retailer cannot view bills of others", enum.RoleRetailer, access.CanViewAllBills, false},
		{"workshop cannot create bills", enum.RoleWorkshop, access.CanCreateBills, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.granted, policy.Allows(tt.role, tt.cap))
		})
	}
}

func TestPolicy_CreateOrderForOthers_NeverGranted(t *testing.T) {
	// The capability is consulted by order creation but no role holds
	// it, so self-orders are the only possible configuration.
	policy := defaultPolicy()

	for role := enum.RoleSuperAdmin; role <= enum.RoleWorkshop; role++ {
		assert.False(t, policy.Allows(role, access.CanCreateOrderForOthers),
			"role %s should not hold canCreateOrderForOthers", role)
	}
}

func TestPolicy_CanAccessUserData(t *testing.T) {
	policy := defaultPolicy()
	target := uuid.New()

	elevated := []enum.Role{enum.RoleSuperAdmin, enum.RoleManager, enum.RoleAccountant, enum.RoleSales}
	for _, role := range elevated {
		principal := access.Principal{ID: uuid.New(), Role: role}
		assert.True(t, policy.CanAccessUserData(principal, target), "%s should access any customer", role)
	}

	retailer := access.Principal{ID: uuid.New(), Role: enum.RoleRetailer}
	assert.False(t, policy.CanAccessUserData(retailer, target), "retailer blocked from others")
	assert.True(t, policy.CanAccessUserData(retailer, retailer.ID), "retailer sees own data")

	workshop := access.Principal{ID: uuid.New(), Role: enum.RoleWorkshop}
	assert.False(t, policy.CanAccessUserData(workshop, target))
	assert.True(t, policy.CanAccessUserData(workshop, workshop.ID))
}

func TestPolicy_UnknownRole_DeniedEverything(t *testing.T) {
	policy := defaultPolicy()

	unknown := enum.Role(42)
	require.Empty(t, policy.PermissionsFor(unknown))
	assert.False(t, policy.Allows(unknown, access.CanPrint))

	principal := access.Principal{ID: uuid.New(), Role: unknown}
	assert.False(t, policy.CanAccessUserData(principal, uuid.New()))
	assert.True(t, policy.CanAccessUserData(principal, principal.ID), "self access always allowed")
}

func TestPolicy_IsolatedFromTableMutation(t *testing.T) {
	table := access.DefaultPermissions()
	policy := access.NewPolicy(table)

	// Mutating the source table after construction must not affect the policy.
	table[enum.RoleRetailer][access.CanCreateBills] = true

	assert.False(t, policy.Allows(enum.RoleRetailer, access.CanCreateBills))
}
