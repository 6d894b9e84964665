package auth

import (
	"fmt"
	"strings"
)

// Permission keys understood by the storefront backend
const (
	PermissionUsersRead       = "users:read"
	PermissionUsersAssignRole = "users:assign_role"
	PermissionUsersDelete     = "users:delete"

	PermissionRolesCreate = "roles:create"
	PermissionRolesRead   = "roles:read"
	PermissionRolesUpdate = "roles:update"
	PermissionRolesDelete = "roles:delete"

	PermissionCategoriesCreate = "categories:create"
	PermissionCategoriesUpdate = "categories:update"
	PermissionCategoriesDelete = "categories:delete"

	PermissionProductsCreate = "products:create"
	PermissionProductsUpdate = "products:update"
	PermissionProductsDelete = "products:delete"

	PermissionProductPhotosCreate = "product_photos:create"
	PermissionProductPhotosUpdate = "product_photos:update"
	PermissionProductPhotosDelete = "product_photos:delete"

	PermissionCommentsCreate    = "comments:create"
	PermissionCommentsUpdateOwn = "comments:update:own"
	PermissionCommentsDeleteOwn = "comments:delete:own"
	PermissionCommentsDeleteAny = "comments:delete:any"

	PermissionCartsReadOwn   = "carts:read:own"
	PermissionCartsUpdateOwn = "carts:update:own"

	PermissionOrdersCreateOwn = "orders:create:own"
	PermissionOrdersReadOwn   = "orders:read:own"
	PermissionOrdersReadAny   = "orders:read:any"
	PermissionOrdersUpdateAny = "orders:update:any"
)

// Permission is a parsed `resource:action[:scope]` key
type Permission struct {
	Resource string
	Action   string
	Scope    string
}

// Key returns the flat permission key
func (p Permission) Key() string {
	if p.Scope == "" {
		return p.Resource + ":" + p.Action
	}
	return p.Resource + ":" + p.Action + ":" + p.Scope
}

// ParsePermission parses a `resource:action[:scope]` key
func ParsePermission(key string) (Permission, error) {
	parts := strings.Split(key, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Permission{}, fmt.Errorf("invalid permission key %q", key)
	}
	for _, part := range parts {
		if part == "" {
			return Permission{}, fmt.Errorf("invalid permission key %q", key)
		}
	}
	ret := Permission{Resource: parts[0], Action: parts[1]}
	if len(parts) == 3 {
		ret.Scope = parts[2]
	}
	return ret, nil
}
