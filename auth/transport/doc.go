// Package transport implements an http.RoundTripper that attaches the session's
// bearer credentials to every outbound request and, when the backend answers
// `401 Unauthorized`, silently exchanges the refresh token for a new pair and
// replays the request exactly once.
//
// The refresh call goes through a separate, non-intercepted HTTP client so it
// can never trigger another refresh. When the refresh itself fails the session
// is cleared and the configured sign-out hook is invoked so the caller can send
// the user back to the sign-in entry point.
package transport
