package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed_Table(t *testing.T) {
	cases := []struct {
		cap      Capability
		admin    bool
		cashier  bool
		mechanic bool
	}{
		{ViewCatalog, true, true, true},
		{ViewCustomers, true, true, true},
		{ViewMechanics, true, true, true},
		{ViewTransactions, true, true, true},
		{ManageInventory, true, true, false},
		{ManageCustomers, true, true, false},
		{RecordSale, true, true, false},
		{ViewFinance, true, true, false},
		{ManageExpenses, true, true, false},
		{ViewCosts, true, true, false},
		{ManageMechanics, true, false, false},
		{ManageUsers, true, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.cap), func(t *testing.T) {
			assert.Equal(t, tc.admin, Allowed(RoleAdmin, tc.cap))
			assert.Equal(t, tc.cashier, Allowed(RoleCashier, tc.cap))
			assert.Equal(t, tc.mechanic, Allowed(RoleMechanic, tc.cap))
		})
	}
}

func TestAllowed_NormalizesRole(t *testing.T) {
	assert.True(t, Allowed(" kasir ", RecordSale))
	assert.True(t, Allowed("admin", ManageUsers))
}

func TestAllowed_UnknownRole(t *testing.T) {
	assert.False(t, Allowed("supervisor", ViewCatalog))
	assert.False(t, Allowed("", ViewCatalog))
	assert.Empty(t, Capabilities("guest"))
	assert.False(t, ValidRole("guest"))
}

func TestCapabilities_Sorted(t *testing.T) {
	caps := Capabilities(RoleMechanic)
	assert.Equal(t, []Capability{ViewCatalog, ViewCustomers, ViewMechanics, ViewTransactions}, caps)
	assert.Len(t, Capabilities(RoleAdmin), 12)
	assert.Len(t, Capabilities(RoleCashier), 10)
}
