package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

type createRoleRequest struct {
	Name string `json:"name"`
}

// Roles lists roles with their permissions
func (c *Client) Roles(ctx context.Context) ([]*Role, error) {
	var ret []*Role
	if err := c.send(ctx, http.MethodGet, "/roles", nil, &ret); err != nil {
		return nil, errors.Wrap(err, "[Client.Roles]")
	}
	return ret, nil
}

// Permissions lists every permission key known to the backend
func (c *Client) Permissions(ctx context.Context) ([]string, error) {
	var ret []string
	if err := c.send(ctx, http.MethodGet, "/roles/permissions", nil, &ret); err != nil {
		return nil, errors.Wrap(err, "[Client.Permissions]")
	}
	return ret, nil
}

// CreateRole creates an empty role
func (c *Client) CreateRole(ctx context.Context, name string) (*Role, error) {
	ret := &Role{}
	if err := c.send(ctx, http.MethodPost, "/roles", &createRoleRequest{Name: name}, ret); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateRole]")
	}
	return ret, nil
}

// DeleteRole deletes a role
func (c *Client) DeleteRole(ctx context.Context, roleID string) error {
	return errors.Wrap(c.send(ctx, http.MethodDelete, "/roles/"+roleID, nil, nil), "[Client.DeleteRole]")
}

// Users lists users with their roles
func (c *Client) Users(ctx context.Context) ([]*User, error) {
	var ret []*User
	if err := c.send(ctx, http.MethodGet, "/users", nil, &ret); err != nil {
		return nil, errors.Wrap(err, "[Client.Users]")
	}
	return ret, nil
}

// DeleteUser deletes a user
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return errors.Wrap(c.send(ctx, http.MethodDelete, "/users/"+userID, nil, nil), "[Client.DeleteUser]")
}
