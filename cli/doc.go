// Package cli implements the velovis command line client.
//
// The session is persisted between invocations (by default under ~/.velovis), so a user
// signs in once and subsequent commands reuse and transparently renew the credentials.
package cli
