package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// CreateOrder places an order from the current cart
func (c *Client) CreateOrder(ctx context.Context) (*Order, error) {
	ret := &Order{}
	if err := c.send(ctx, http.MethodPost, "/orders", nil, ret); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateOrder]")
	}
	return ret, nil
}

// Orders lists the signed in user's orders
func (c *Client) Orders(ctx context.Context) ([]*Order, error) {
	var ret []*Order
	if err := c.send(ctx, http.MethodGet, "/orders", nil, &ret); err != nil {
		return nil, errors.Wrap(err, "[Client.Orders]")
	}
	return ret, nil
}
