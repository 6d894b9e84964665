package mock

import (
	"github.com/google/uuid"
	"github.com/velovis/velovis/api"
	"github.com/velovis/velovis/auth"
)

// Demo accounts created unless WithoutSeed is used
const (
	AdminUsername    = "admin"
	AdminPassword    = "admin"
	CustomerUsername = "jane"
	CustomerPassword = "secret"
)

func customerPermissions() []string {
	return []string{
		auth.PermissionCartsReadOwn,
		auth.PermissionCartsUpdateOwn,
		auth.PermissionOrdersCreateOwn,
		auth.PermissionOrdersReadOwn,
		auth.PermissionCommentsCreate,
		auth.PermissionCommentsUpdateOwn,
		auth.PermissionCommentsDeleteOwn,
	}
}

func adminPermissions() []string {
	return []string{
		auth.PermissionUsersRead, auth.PermissionUsersAssignRole, auth.PermissionUsersDelete,
		auth.PermissionRolesCreate, auth.PermissionRolesRead, auth.PermissionRolesUpdate, auth.PermissionRolesDelete,
		auth.PermissionCategoriesCreate, auth.PermissionCategoriesUpdate, auth.PermissionCategoriesDelete,
		auth.PermissionProductsCreate, auth.PermissionProductsUpdate, auth.PermissionProductsDelete,
		auth.PermissionProductPhotosCreate, auth.PermissionProductPhotosUpdate, auth.PermissionProductPhotosDelete,
		auth.PermissionCommentsCreate, auth.PermissionCommentsUpdateOwn, auth.PermissionCommentsDeleteOwn, auth.PermissionCommentsDeleteAny,
		auth.PermissionCartsReadOwn, auth.PermissionCartsUpdateOwn,
		auth.PermissionOrdersCreateOwn, auth.PermissionOrdersReadOwn, auth.PermissionOrdersReadAny, auth.PermissionOrdersUpdateAny,
	}
}

func rolePermissions(keys []string) []api.RolePermission {
	ret := make([]api.RolePermission, 0, len(keys))
	for _, key := range keys {
		ret = append(ret, api.RolePermission{PermissionKey: key})
	}
	return ret
}

func (s *Service) seedData() {
	s.AddUser(AdminPassword, auth.Profile{
		ID:          uuid.NewString(),
		Username:    AdminUsername,
		FullName:    "Store Admin",
		Email:       "admin@velovis.test",
		Roles:       []string{"ADMIN"},
		Permissions: adminPermissions(),
	})
	s.AddUser(CustomerPassword, auth.Profile{
		ID:          uuid.NewString(),
		Username:    CustomerUsername,
		FullName:    "Jane Doe",
		Email:       "jane@velovis.test",
		Roles:       []string{"CUSTOMER"},
		Permissions: customerPermissions(),
	})
	s.roles = []*api.Role{
		{ID: uuid.NewString(), Name: "ADMIN", Permissions: rolePermissions(adminPermissions())},
		{ID: uuid.NewString(), Name: "CUSTOMER", Permissions: rolePermissions(customerPermissions())},
	}
	s.products = []*api.Product{
		{ID: uuid.NewString(), Name: "Trail Helmet", Slug: "trail-helmet", Description: "Ventilated MTB helmet", Price: 89.9, StockQuantity: 12},
		{ID: uuid.NewString(), Name: "City Lock", Slug: "city-lock", Description: "Hardened steel U-lock", Price: 45, StockQuantity: 3},
	}
}
