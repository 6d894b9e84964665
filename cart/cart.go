package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/velovis/velovis/api"
	"github.com/velovis/velovis/auth"
	"github.com/velovis/velovis/auth/session"
)

// Backend represents cart endpoints, implemented by *api.Client
type Backend interface {
	CartItems(ctx context.Context) ([]*api.CartItem, error)
	AddCartItem(ctx context.Context, productID string, quantity int) (*api.CartItem, error)
	UpdateCartItem(ctx context.Context, cartItemID string, quantity int) (*api.CartItem, error)
	RemoveCartItem(ctx context.Context, cartItemID string) error
}

// Cart represents the signed in user's cart
type Cart struct {
	backend     Backend
	logger      zerolog.Logger
	unsubscribe func()

	mux   sync.RWMutex
	items []*api.CartItem
	err   error
}

// New creates a cart bound to the session; an already authenticated session is fetched right away
func New(ctx context.Context, backend Backend, sess *session.Session, options ...Option) *Cart {
	ret := &Cart{
		backend: backend,
		logger:  log.Logger.With().Str("component", "cart").Logger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if sess == nil {
		return ret
	}
	ret.unsubscribe = sess.Subscribe(ret.onSession)
	if sess.Snapshot().Authenticated {
		_ = ret.Fetch(ctx)
	}
	return ret
}

func (c *Cart) onSession(ctx context.Context, current, previous auth.State) {
	switch {
	case current.Authenticated && (!previous.Authenticated || previous.Profile.ID != current.Profile.ID):
		if err := c.Fetch(ctx); err != nil {
			c.logger.Warn().Err(err).Msg("failed to fetch cart")
		}
	case !current.Authenticated && previous.Authenticated:
		c.Clear()
	}
}

// Close detaches the cart from the session
func (c *Cart) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Fetch replaces local items with the backend cart
func (c *Cart) Fetch(ctx context.Context) error {
	items, err := c.backend.CartItems(ctx)
	c.mux.Lock()
	defer c.mux.Unlock()
	c.err = err
	if err != nil {
		return fmt.Errorf("failed to fetch cart: %w", err)
	}
	c.items = items
	return nil
}

// Add adds quantity of the product; the backend line replaces a local line of the same product
func (c *Cart) Add(ctx context.Context, productID string, quantity int) (*api.CartItem, error) {
	item, err := c.backend.AddCartItem(ctx, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to add product %v: %w", productID, err)
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	index := slices.IndexFunc(c.items, func(candidate *api.CartItem) bool {
		return candidate.Product.ID == item.Product.ID
	})
	if index == -1 {
		c.items = append(c.items, item)
	} else {
		c.items[index] = item
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a cart line
func (c *Cart) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) (*api.CartItem, error) {
	item, err := c.backend.UpdateCartItem(ctx, cartItemID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item %v: %w", cartItemID, err)
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	for i, candidate := range c.items {
		if candidate.ID == cartItemID {
			c.items[i] = item
		}
	}
	return item, nil
}

// Remove deletes a cart line
func (c *Cart) Remove(ctx context.Context, cartItemID string) error {
	if err := c.backend.RemoveCartItem(ctx, cartItemID); err != nil {
		return fmt.Errorf("failed to remove cart item %v: %w", cartItemID, err)
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	c.items = slices.DeleteFunc(c.items, func(candidate *api.CartItem) bool {
		return candidate.ID == cartItemID
	})
	return nil
}

// Clear empties the local cart, the backend cart is left untouched
func (c *Cart) Clear() {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.items = nil
	c.err = nil
}

// Items returns a copy of the cart lines
func (c *Cart) Items() []api.CartItem {
	c.mux.RLock()
	defer c.mux.RUnlock()
	ret := make([]api.CartItem, 0, len(c.items))
	for _, item := range c.items {
		ret = append(ret, *item)
	}
	return ret
}

// TotalQuantity returns the number of carted units
func (c *Cart) TotalQuantity() int {
	c.mux.RLock()
	defer c.mux.RUnlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the cart value
func (c *Cart) TotalPrice() float64 {
	c.mux.RLock()
	defer c.mux.RUnlock()
	total := 0.0
	for _, item := range c.items {
		total += item.Subtotal()
	}
	return total
}

// Err returns the last fetch error
func (c *Cart) Err() error {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.err
}
