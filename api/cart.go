package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItems lists the signed in user's cart
func (c *Client) CartItems(ctx context.Context) ([]*CartItem, error) {
	var ret []*CartItem
	if err := c.send(ctx, http.MethodGet, "/cart-items", nil, &ret); err != nil {
		return nil, errors.Wrap(err, "[Client.CartItems]")
	}
	return ret, nil
}

// AddCartItem adds a product to the cart, returning the created or merged line
func (c *Client) AddCartItem(ctx context.Context, productID string, quantity int) (*CartItem, error) {
	ret := &CartItem{}
	if err := c.send(ctx, http.MethodPost, "/cart-items", &addCartItemRequest{ProductID: productID, Quantity: quantity}, ret); err != nil {
		return nil, errors.Wrap(err, "[Client.AddCartItem]")
	}
	return ret, nil
}

// UpdateCartItem sets the quantity of a cart line
func (c *Client) UpdateCartItem(ctx context.Context, cartItemID string, quantity int) (*CartItem, error) {
	ret := &CartItem{}
	if err := c.send(ctx, http.MethodPatch, "/cart-items/"+cartItemID, &updateCartItemRequest{Quantity: quantity}, ret); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateCartItem]")
	}
	return ret, nil
}

// RemoveCartItem deletes a cart line
func (c *Client) RemoveCartItem(ctx context.Context, cartItemID string) error {
	return errors.Wrap(c.send(ctx, http.MethodDelete, "/cart-items/"+cartItemID, nil, nil), "[Client.RemoveCartItem]")
}
