// Package cart keeps the signed in user's cart in memory and in step with the session:
// the cart is fetched when a user signs in (or another user takes over the session)
// and cleared when the session ends.
package cart
