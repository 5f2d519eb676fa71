package domain

// Role constants define the allowed user roles.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// Permission constants name the actions gated by role.
const (
	PermissionCatalogWrite  = "catalog:write"
	PermissionCatalogDelete = "catalog:delete"
	PermissionUsersManage   = "users:manage"
)

// rolePermissions maps each role to the set of actions it may perform.
// Roles are strictly nested: admin ⊇ moderator ⊇ user.
var rolePermissions = map[string]map[string]bool{
	RoleUser: {},
	RoleModerator: {
		PermissionCatalogWrite: true,
	},
	RoleAdmin: {
		PermissionCatalogWrite:  true,
		PermissionCatalogDelete: true,
		PermissionUsersManage:   true,
	},
}

// Can reports whether the given role is allowed to perform the given action.
// Unknown roles and unknown permissions are denied.
func Can(role, permission string) bool {
	return rolePermissions[role][permission]
}

// ValidRoles returns the set of valid user roles.
func ValidRoles() []string {
	return []string{RoleUser, RoleModerator, RoleAdmin}
}

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}
