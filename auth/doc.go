// Package auth defines the session data model shared by the storefront client:
// the access/refresh credential pair, the authenticated user profile and the
// combined session state.
//
// The sub-packages build on it:
//   - `store` persists the session state between process restarts,
//   - `session` owns the live state and notifies observers about changes,
//   - `transport` attaches bearer credentials to outbound requests and
//     transparently refreshes them on a 401 Unauthorized response.
package auth
