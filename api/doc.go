// Package api is a typed client for the storefront REST API.
//
// All resource calls go through the authenticated transport so credentials are
// attached and refreshed transparently; session issuance (login) uses a plain
// client because it must never trigger a refresh. Failed calls surface as *Error
// carrying the HTTP status and the backend message.
package api
