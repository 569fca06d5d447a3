package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasExactPermission(t *testing.T) {
	grants := NewGrants([]string{"deliveries.view", "invoices.view"})

	t.Run("admin always passes", func(t *testing.T) {
		assert.True(t, HasExactPermission(RoleAdmin, nil, "deliveries.delete"))
		assert.True(t, HasExactPermission(RoleAdmin, nil, "anything.at_all"))
	})

	t.Run("staff needs the grant", func(t *testing.T) {
		assert.True(t, HasExactPermission(RoleStaff, grants, "deliveries.view"))
		assert.False(t, HasExactPermission(RoleStaff, grants, "deliveries.delete"))
	})

	t.Run("rider needs the grant", func(t *testing.T) {
		riderGrants := NewGrants([]string{"deliveries.update_status"})
		assert.True(t, HasExactPermission(RoleRider, riderGrants, "deliveries.update_status"))
		assert.False(t, HasExactPermission(RoleRider, riderGrants, "deliveries.assign"))
	})

	t.Run("business uses the fixed list, never grants", func(t *testing.T) {
		assert.True(t, HasExactPermission(RoleBusiness, nil, "create_delivery"))
		assert.True(t, HasExactPermission(RoleBusiness, nil, "view_own_invoices"))
		assert.False(t, HasExactPermission(RoleBusiness, grants, "deliveries.view"))
	})

	t.Run("unknown roles fail closed", func(t *testing.T) {
		assert.False(t, HasExactPermission("", grants, "deliveries.view"))
		assert.False(t, HasExactPermission("SUPERUSER", grants, "deliveries.view"))
	})
}

func TestHasAnyPermission(t *testing.T) {
	grants := NewGrants([]string{"deliveries.view_assigned"})

	assert.True(t, HasAnyPermission(RoleAdmin, nil, []string{"nope"}))
	assert.True(t, HasAnyPermission(RoleRider, grants, []string{"deliveries.view", "deliveries.view_assigned"}))
	assert.False(t, HasAnyPermission(RoleRider, grants, []string{"deliveries.view"}))
	assert.True(t, HasAnyPermission(RoleBusiness, nil, []string{"deliveries.view", "view_own_deliveries"}))
	assert.False(t, HasAnyPermission(RoleStaff, grants, nil))
}

func TestHasModulePermission(t *testing.T) {
	grants := NewGrants([]string{"deliveries.view", "invoices.view"})

	assert.True(t, HasModulePermission(RoleAdmin, nil, "financial"))
	assert.True(t, HasModulePermission(RoleStaff, grants, "deliveries"))
	assert.False(t, HasModulePermission(RoleStaff, grants, "financial"))
	assert.False(t, HasModulePermission(RoleBusiness, grants, "deliveries"))
}

func TestNormalizeLegacyNames(t *testing.T) {
	assert.Equal(t, "deliveries.view", Normalize("view_all_deliveries"))
	assert.Equal(t, "deliveries.view_assigned", Normalize("view_assigned_deliveries"))
	assert.Equal(t, "users.edit", Normalize("manage_users"))
	assert.Equal(t, "deliveries.view", Normalize("deliveries.view"))
	assert.Equal(t, "made_up", Normalize("made_up"))
}

func TestGrantsHasNormalizes(t *testing.T) {
	// Legacy names normalize on the way in and on lookup.
	g := NewGrants([]string{"view_all_deliveries"})
	assert.True(t, g.Has("deliveries.view"))
	assert.True(t, g.Has("view_all_deliveries"))
}

func TestSplit(t *testing.T) {
	mod, act, ok := Split("deliveries.view_assigned")
	require.True(t, ok)
	assert.Equal(t, "deliveries", mod)
	assert.Equal(t, "view_assigned", act)

	for _, bad := range []string{"nodot", ".leading", "trailing.", ""} {
		_, _, ok := Split(bad)
		assert.False(t, ok, bad)
	}
}

func TestValidatePermissions(t *testing.T) {
	t.Run("drops unknown and malformed entries", func(t *testing.T) {
		got := ValidatePermissions([]string{
			"deliveries.view",
			"deliveries.teleport",
			"not_a_permission",
			"ghost_module.view",
		}, RoleStaff)
		assert.Equal(t, []string{"deliveries.view"}, got)
	})

	t.Run("collapses duplicates", func(t *testing.T) {
		got := ValidatePermissions([]string{
			"deliveries.view", "deliveries.view", "view_all_deliveries",
		}, RoleStaff)
		assert.Equal(t, []string{"deliveries.view"}, got)
	})

	t.Run("rider cannot hold staff-only actions", func(t *testing.T) {
		got := ValidatePermissions([]string{
			"deliveries.view",
			"deliveries.view_assigned",
			"deliveries.update_status",
			"deliveries.assign",
			"invoices.view",
		}, RoleRider)
		assert.Equal(t, []string{"deliveries.view_assigned", "deliveries.update_status"}, got)
	})

	t.Run("staff cannot hold rider-only actions", func(t *testing.T) {
		got := ValidatePermissions([]string{"deliveries.view_assigned", "deliveries.update_status"}, RoleStaff)
		assert.Empty(t, got)
	})

	t.Run("non-configurable roles get nothing", func(t *testing.T) {
		assert.Empty(t, ValidatePermissions([]string{"deliveries.view"}, RoleAdmin))
		assert.Empty(t, ValidatePermissions([]string{"deliveries.view"}, RoleBusiness))
	})

	t.Run("idempotent", func(t *testing.T) {
		first := ValidatePermissions([]string{"view_all_deliveries", "deliveries.create", "junk"}, RoleStaff)
		second := ValidatePermissions(first, RoleStaff)
		assert.Equal(t, first, second)
	})
}

func TestModulesForRole(t *testing.T) {
	t.Run("rider only sees rider-reachable modules", func(t *testing.T) {
		mods := ModulesForRole(RoleRider)
		require.Len(t, mods, 1)
		assert.Equal(t, "deliveries", mods[0].ID)
		for _, a := range mods[0].Actions {
			assert.NotContains(t, []string{"view", "assign", "confirm", "edit_fee", "delete"}, a.ID)
		}
	})

	t.Run("staff sees everything but rider-only actions", func(t *testing.T) {
		mods := ModulesForRole(RoleStaff)
		assert.Equal(t, len(Catalog()), len(mods))
		for _, m := range mods {
			if m.ID != "deliveries" {
				continue
			}
			for _, a := range m.Actions {
				assert.NotContains(t, []string{"view_assigned", "update_status"}, a.ID)
			}
		}
	})

	t.Run("business and admin see nothing", func(t *testing.T) {
		assert.Empty(t, ModulesForRole(RoleBusiness))
		assert.Empty(t, ModulesForRole(RoleAdmin))
	})
}

func TestDefaultPermissionsAreValid(t *testing.T) {
	for _, role := range []string{RoleStaff, RoleRider} {
		defaults := DefaultPermissions(role)
		require.NotEmpty(t, defaults, role)
		assert.Equal(t, defaults, ValidatePermissions(defaults, role), role)
	}
	assert.Nil(t, DefaultPermissions(RoleAdmin))
	assert.Nil(t, DefaultPermissions(RoleBusiness))
}

func TestPresetPermissions(t *testing.T) {
	t.Run("full covers every reachable action", func(t *testing.T) {
		full := PresetPermissions(PresetFull, RoleStaff)
		assert.Equal(t, full, ValidatePermissions(full, RoleStaff))
		assert.Contains(t, full, "deliveries.view")
		assert.Contains(t, full, "financial.manage")
		assert.NotContains(t, full, "deliveries.view_assigned")
	})

	t.Run("view_only holds only view actions", func(t *testing.T) {
		viewOnly := PresetPermissions(PresetViewOnly, RoleRider)
		assert.Equal(t, []string{"deliveries.view_assigned"}, viewOnly)
	})

	t.Run("default matches the seed set", func(t *testing.T) {
		assert.Equal(t, DefaultPermissions(RoleRider), PresetPermissions(PresetDefault, RoleRider))
	})

	t.Run("unknown preset is empty", func(t *testing.T) {
		assert.Empty(t, PresetPermissions("everything", RoleStaff))
	})
}

func TestBusinessPermissionsCopy(t *testing.T) {
	a := BusinessPermissions()
	a[0] = "mutated"
	assert.Equal(t, "create_delivery", BusinessPermissions()[0])
}
