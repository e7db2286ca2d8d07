// Package shared holds helpers used by every API handler: context keys,
// request decoding and response writing.
package shared

// ContextKey is the key type for context values set by API middleware.
type ContextKey string

// Context keys for various values
const (
	// UserIDContextKey is the context key for the authenticated user's ID,
	// set by the auth middleware after token validation.
	UserIDContextKey ContextKey = "userID"
)
