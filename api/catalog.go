package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// Products lists the catalogue
func (c *Client) Products(ctx context.Context) ([]*Product, error) {
	var ret []*Product
	if err := c.send(ctx, http.MethodGet, "/products", nil, &ret); err != nil {
		return nil, errors.Wrap(err, "[Client.Products]")
	}
	return ret, nil
}

// ProductBySlug looks a product up by its URL slug
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		if product.Slug == slug {
			return product, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "product %q", slug)
}
