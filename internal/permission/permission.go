package permission

import "strings"

// Grants is a user's set of permission strings ("module.action").
type Grants map[string]struct{}

// NewGrants builds a grant set from raw permission strings,
// normalizing legacy names along the way.
func NewGrants(perms []string) Grants {
	g := make(Grants, len(perms))
	for _, p := range perms {
		g[Normalize(p)] = struct{}{}
	}
	return g
}

// Has reports whether the normalized permission is in the set.
func (g Grants) Has(perm string) bool {
	_, ok := g[Normalize(perm)]
	return ok
}

// List returns the grant set as a sorted-insertion-free slice.
func (g Grants) List() []string {
	out := make([]string, 0, len(g))
	for p := range g {
		out = append(out, p)
	}
	return out
}

// Normalize translates legacy permission names to the current
// module.action form. Unknown strings pass through unchanged.
func Normalize(perm string) string {
	if mapped, ok := legacyPermissions[perm]; ok {
		return mapped
	}
	return perm
}

// Split breaks "module.action" into its parts. ok is false when the
// string has no dot or an empty side.
func Split(perm string) (moduleID, actionID string, ok bool) {
	i := strings.IndexByte(perm, '.')
	if i <= 0 || i == len(perm)-1 {
		return "", "", false
	}
	return perm[:i], perm[i+1:], true
}

// HasModulePermission reports whether the role/grant pair may access a
// module at all. ADMIN always may; BUSINESS is never module-based;
// STAFF and RIDER need at least one grant under the module prefix.
func HasModulePermission(role string, grants Grants, moduleID string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleStaff, RoleRider:
		prefix := moduleID + "."
		for p := range grants {
			if strings.HasPrefix(p, prefix) {
				return true
			}
		}
		return false
	default:
		// BUSINESS and unauthenticated callers fail closed.
		return false
	}
}

// HasExactPermission reports whether the role/grant pair holds one
// specific permission. BUSINESS consults its hardcoded list instead of grants.
func HasExactPermission(role string, grants Grants, perm string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleStaff, RoleRider:
		return grants.Has(perm)
	case RoleBusiness:
		for _, p := range businessPermissions {
			if p == perm {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// HasAnyPermission reports whether at least one of the listed
// permissions holds. ADMIN short-circuits true.
func HasAnyPermission(role string, grants Grants, perms []string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, p := range perms {
		if HasExactPermission(role, grants, p) {
			return true
		}
	}
	return false
}

// ValidatePermissions filters requested permission strings down to those
// present in the catalog and available to the role. Client-submitted
// strings are never trusted verbatim; anything unknown is dropped.
// Duplicates collapse to the first occurrence.
func ValidatePermissions(requested []string, role string) []string {
	if role != RoleStaff && role != RoleRider {
		return []string{}
	}

	valid := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, raw := range requested {
		perm := Normalize(raw)
		moduleID, actionID, ok := Split(perm)
		if !ok {
			continue
		}
		if _, dup := seen[perm]; dup {
			continue
		}
		if !catalogAllows(moduleID, actionID, role) {
			continue
		}
		seen[perm] = struct{}{}
		valid = append(valid, perm)
	}
	return valid
}

func catalogAllows(moduleID, actionID, role string) bool {
	for _, m := range catalog {
		if m.ID != moduleID {
			continue
		}
		if !roleListed(m.AvailableFor, role) {
			return false
		}
		for _, a := range m.Actions {
			if a.ID == actionID {
				return actionAvailable(m, a, role)
			}
		}
		return false
	}
	return false
}
