package api

import "time"

// Product represents a catalogue product
type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Slug            string  `json:"slug"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	StockQuantity   int     `json:"stockQuantity"`
	PrimaryPhotoURL *string `json:"primaryPhotoUrl,omitempty"`
}

// CartProduct is the product summary embedded in a cart item
type CartProduct struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	PrimaryPhotoURL *string `json:"primaryPhotoUrl"`
	StockQuantity   int     `json:"stockQuantity"`
}

// CartItem represents a product line in the user's cart
type CartItem struct {
	ID       string      `json:"id"`
	Quantity int         `json:"quantity"`
	Product  CartProduct `json:"product"`
}

// Subtotal returns the line total
func (c *CartItem) Subtotal() float64 {
	return c.Product.Price * float64(c.Quantity)
}

// OrderStatus represents an order lifecycle status
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Label returns a human readable status
func (s OrderStatus) Label() string {
	switch s {
	case OrderPending:
		return "Awaiting confirmation"
	case OrderPaid:
		return "Paid"
	case OrderShipped:
		return "Shipped"
	case OrderDelivered:
		return "Delivered"
	case OrderCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Order represents a placed order
type Order struct {
	ID         string      `json:"id"`
	TotalPrice float64     `json:"totalPrice"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// RolePermission links a role with a permission key
type RolePermission struct {
	PermissionKey string `json:"permissionKey"`
}

// Role represents an admin managed role
type Role struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Permissions []RolePermission `json:"permissions,omitempty"`
}

// PermissionKeys returns the flat permission keys of the role
func (r *Role) PermissionKeys() []string {
	ret := make([]string, 0, len(r.Permissions))
	for _, permission := range r.Permissions {
		ret = append(ret, permission.PermissionKey)
	}
	return ret
}

// UserRole links a user with a role
type UserRole struct {
	Role Role `json:"role"`
}

// User represents a user as listed in the admin panel
type User struct {
	ID       string     `json:"id"`
	Username string     `json:"username,omitempty"`
	FullName string     `json:"fullName"`
	Email    string     `json:"email"`
	Roles    []UserRole `json:"roles"`
}

// RoleNames returns names of the roles assigned to the user
func (u *User) RoleNames() []string {
	ret := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		ret = append(ret, role.Role.Name)
	}
	return ret
}

// Registration represents a sign up form
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Message represents a plain backend acknowledgement
type Message struct {
	Message string `json:"message"`
}
