// Package middleware provides HTTP middleware: request IDs, session
// identity resolution, role guards and Prometheus metrics.
package middleware

type contextKey string

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "vanir_session"
