// Package session implements the credential store: the single owner of the
// client side session state.
//
// A Session is created once per process (rehydrated from durable storage) and
// injected into every component that needs identity: the authenticated
// transport reads credentials through Snapshot before each request and writes
// refreshed pairs through SetCredentials; feature modules Subscribe to react to
// login and logout transitions.
package session
