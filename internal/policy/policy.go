// Package policy maps staff roles to the operations they may perform.
// Handlers check a capability once at the route boundary; services never look
// at roles.
package policy

import (
	"sort"
	"strings"
)

// Roles.
const (
	RoleAdmin    = "ADMIN"
	RoleCashier  = "KASIR"
	RoleMechanic = "MEKANIK"
)

// Capability names a permission a role may hold.
type Capability string

const (
	ViewCatalog      Capability = "view_catalog"
	ViewCustomers    Capability = "view_customers"
	ViewMechanics    Capability = "view_mechanics"
	ViewTransactions Capability = "view_transactions"

	ManageInventory Capability = "manage_inventory"
	ManageCustomers Capability = "manage_customers"
	RecordSale      Capability = "record_sale"
	ViewFinance     Capability = "view_finance"
	ManageExpenses  Capability = "manage_expenses"
	ViewCosts       Capability = "view_costs"

	ManageMechanics Capability = "manage_mechanics"
	ManageUsers     Capability = "manage_users"
)

type capSet map[Capability]struct{}

func newSet(caps ...Capability) capSet {
	s := make(capSet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

var (
	readOnly  = []Capability{ViewCatalog, ViewCustomers, ViewMechanics, ViewTransactions}
	frontDesk = append(append([]Capability{}, readOnly...),
		ManageInventory, ManageCustomers, RecordSale, ViewFinance, ManageExpenses, ViewCosts)
	everything = append(append([]Capability{}, frontDesk...), ManageMechanics, ManageUsers)

	table = map[string]capSet{
		RoleAdmin:    newSet(everything...),
		RoleCashier:  newSet(frontDesk...),
		RoleMechanic: newSet(readOnly...),
	}
)

// NormalizeRole upper-cases and trims a role string.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := table[NormalizeRole(role)]
	return ok
}

// Allowed reports whether role holds capability c. Unknown roles hold nothing.
func Allowed(role string, c Capability) bool {
	set, ok := table[NormalizeRole(role)]
	if !ok {
		return false
	}
	_, ok = set[c]
	return ok
}

// Capabilities lists the capabilities of role, sorted by name.
func Capabilities(role string) []Capability {
	set := table[NormalizeRole(role)]
	out := make([]Capability, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
