// Package api implements the HTTP client for the storefront backend.
//
// [Client] wraps an *http.Client whose transport attaches the bearer token to
// every request and recovers transparently from access-token expiry: a 401
// triggers a single coalesced refresh-token exchange, concurrent requests wait
// on the same exchange, and each failed request is retried at most once with
// the new token. Refresh failure clears the persisted token pair and signals
// that the user must re-authenticate.
//
// All failures are normalized into [*Error] with a Kind discriminator before
// leaving this package; callers never see transport-specific error shapes.
package api
