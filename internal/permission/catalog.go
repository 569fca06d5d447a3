package permission

// Role enum constants — fixed at account creation
const (
	RoleAdmin    = "ADMIN"
	RoleStaff    = "STAFF"
	RoleRider    = "RIDER"
	RoleBusiness = "BUSINESS"
)

// Action is a single capability scoped to one module.
// AvailableFor narrows the module's role list; empty means inherit.
type Action struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	AvailableFor []string `json:"available_for,omitempty"`
}

// Module is a static catalog entry grouping related actions.
// The catalog is the single source of truth for what a STAFF or RIDER
// grant set may legally contain.
type Module struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Actions      []Action `json:"actions"`
	AvailableFor []string `json:"available_for"`
}

var staffOnly = []string{RoleStaff}

// catalog defines every configurable permission module in the system.
// ADMIN and BUSINESS are not grant-based and never appear here.
var catalog = []Module{
	{
		ID: "businesses", Name: "Businesses", Description: "Business client accounts",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View businesses"},
			{ID: "create", Name: "Create businesses"},
			{ID: "edit", Name: "Edit businesses"},
			{ID: "delete", Name: "Delete businesses"},
		},
	},
	{
		ID: "users", Name: "Users", Description: "Staff and rider accounts",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View users"},
			{ID: "create", Name: "Create users"},
			{ID: "edit", Name: "Edit users and permissions"},
			{ID: "delete", Name: "Delete users"},
		},
	},
	{
		ID: "deliveries", Name: "Deliveries", Description: "Delivery orders and lifecycle",
		AvailableFor: []string{RoleStaff, RoleRider},
		Actions: []Action{
			{ID: "view", Name: "View all deliveries", AvailableFor: staffOnly},
			{ID: "view_assigned", Name: "View assigned deliveries", AvailableFor: []string{RoleRider}},
			{ID: "create", Name: "Create deliveries"},
			{ID: "assign", Name: "Assign riders", AvailableFor: staffOnly},
			{ID: "update_status", Name: "Update delivery status", AvailableFor: []string{RoleRider}},
			{ID: "confirm", Name: "Confirm or reject pending deliveries", AvailableFor: staffOnly},
			{ID: "edit_fee", Name: "Edit delivery fees", AvailableFor: staffOnly},
			{ID: "delete", Name: "Delete deliveries", AvailableFor: staffOnly},
		},
	},
	{
		ID: "operations", Name: "Operations", Description: "Operational dashboard and audit trail",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View operations dashboard"},
			{ID: "manage", Name: "Manage operational settings"},
		},
	},
	{
		ID: "financial", Name: "Financial", Description: "Revenue reports and charges",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View financial reports"},
			{ID: "manage", Name: "Manage charges"},
		},
	},
	{
		ID: "expenses", Name: "Expenses", Description: "Operating expenses",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View expenses"},
			{ID: "create", Name: "Create expenses"},
			{ID: "edit", Name: "Edit expenses"},
			{ID: "delete", Name: "Delete expenses"},
		},
	},
	{
		ID: "expense_categories", Name: "Expense Categories", Description: "Expense category setup",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View expense categories"},
			{ID: "manage", Name: "Manage expense categories"},
		},
	},
	{
		ID: "invoices", Name: "Invoices", Description: "Business invoicing",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View invoices"},
			{ID: "create", Name: "Create invoices"},
			{ID: "edit", Name: "Edit invoices"},
			{ID: "delete", Name: "Delete invoices"},
		},
	},
	{
		ID: "cms_sliders", Name: "CMS Sliders", Description: "Landing page sliders",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View sliders"},
			{ID: "manage", Name: "Manage sliders"},
		},
	},
	{
		ID: "cms_content", Name: "CMS Content", Description: "Landing page content blocks",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View content blocks"},
			{ID: "manage", Name: "Manage content blocks"},
		},
	},
	{
		ID: "company_profile", Name: "Company Profile", Description: "Platform company details",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View company profile"},
			{ID: "edit", Name: "Edit company profile"},
		},
	},
	{
		ID: "payment_instructions", Name: "Payment Instructions", Description: "How businesses pay invoices",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View payment instructions"},
			{ID: "manage", Name: "Manage payment instructions"},
		},
	},
	{
		ID: "delivery_packages", Name: "Delivery Fee Packages", Description: "Per-delivery fee packages",
		AvailableFor: staffOnly,
		Actions: []Action{
			{ID: "view", Name: "View fee packages"},
			{ID: "manage", Name: "Manage fee packages"},
		},
	},
}

// Catalog returns the full permission catalog.
func Catalog() []Module {
	return catalog
}

// ModulesForRole returns the catalog entries available to the given role,
// with the action list narrowed to that role.
func ModulesForRole(role string) []Module {
	res := make([]Module, 0, len(catalog))
	for _, m := range catalog {
		if !roleListed(m.AvailableFor, role) {
			continue
		}
		actions := make([]Action, 0, len(m.Actions))
		for _, a := range m.Actions {
			if actionAvailable(m, a, role) {
				actions = append(actions, a)
			}
		}
		narrowed := m
		narrowed.Actions = actions
		res = append(res, narrowed)
	}
	return res
}

// businessPermissions is the fixed capability list of BUSINESS accounts.
// These are not module-based and are never persisted as grants.
var businessPermissions = []string{
	"create_delivery",
	"view_own_deliveries",
	"view_own_invoices",
	"view_payment_instructions",
	"edit_own_profile",
}

// BusinessPermissions returns the hardcoded BUSINESS capability list.
func BusinessPermissions() []string {
	out := make([]string, len(businessPermissions))
	copy(out, businessPermissions)
	return out
}

// legacyPermissions maps pre-module-system permission names to the current
// module.action form so older persisted checks keep working.
var legacyPermissions = map[string]string{
	"view_all_deliveries":      "deliveries.view",
	"view_assigned_deliveries": "deliveries.view_assigned",
	"create_deliveries":        "deliveries.create",
	"assign_deliveries":        "deliveries.assign",
	"update_delivery_status":   "deliveries.update_status",
	"confirm_deliveries":       "deliveries.confirm",
	"manage_users":             "users.edit",
	"view_users":               "users.view",
	"view_invoices":            "invoices.view",
	"create_invoices":          "invoices.create",
	"view_financials":          "financial.view",
	"manage_cms":               "cms_content.manage",
	"manage_packages":          "delivery_packages.manage",
}

// defaultPermissions are the seed grant sets applied when a STAFF or
// RIDER account is provisioned.
var defaultPermissions = map[string][]string{
	RoleStaff: {
		"deliveries.view",
		"deliveries.create",
		"deliveries.assign",
		"invoices.view",
		"operations.view",
	},
	RoleRider: {
		"deliveries.view_assigned",
		"deliveries.create",
		"deliveries.update_status",
	},
}

// DefaultPermissions returns the seed grant set for a role.
// Roles without configurable grants get an empty set.
func DefaultPermissions(role string) []string {
	perms, ok := defaultPermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Preset names for bulk grant assignment.
const (
	PresetFull     = "full"
	PresetDefault  = "default"
	PresetViewOnly = "view_only"
)

// PresetPermissions expands a named preset into the permission list for a role.
// Unknown presets resolve to the empty set.
func PresetPermissions(preset, role string) []string {
	switch preset {
	case PresetFull:
		var perms []string
		for _, m := range ModulesForRole(role) {
			for _, a := range m.Actions {
				perms = append(perms, m.ID+"."+a.ID)
			}
		}
		return perms
	case PresetDefault:
		return DefaultPermissions(role)
	case PresetViewOnly:
		var perms []string
		for _, m := range ModulesForRole(role) {
			for _, a := range m.Actions {
				if a.ID == "view" || a.ID == "view_assigned" {
					perms = append(perms, m.ID+"."+a.ID)
				}
			}
		}
		return perms
	default:
		return nil
	}
}

func roleListed(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func actionAvailable(m Module, a Action, role string) bool {
	if len(a.AvailableFor) > 0 {
		return roleListed(a.AvailableFor, role)
	}
	return roleListed(m.AvailableFor, role)
}
