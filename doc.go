// Package velovis wires the storefront client together.
//
// A Client bundles the credential store (session), the authenticated transport that
// refreshes an expired access token once and retries, the typed REST API and the cart.
// ClientOptions can be populated from CLI flags, a YAML file or VELOVIS_* environment
// variables.
//
// Example:
//
//	options, _ := velovis.LoadOptions(ctx, "~/.velovis/config.yaml")
//	cli, _ := velovis.NewClient(ctx, options)
//	_, _ = cli.API.Login(ctx, "jane", "secret")
//	items := cli.Cart.Items()
package velovis
