// internal/server/context.go
package server

// contextKey is a private type for request context values.
type contextKey string

const contextKeyUserID = contextKey("userID")
