// Package mock provides an in-memory storefront backend served over httptest.
//
// It issues short-lived JWT access tokens and single-use refresh tokens, and
// exposes the product, cart, order and admin endpoints the client consumes, so
// the refresh-and-retry flow can be exercised end to end without a real backend.
package mock
