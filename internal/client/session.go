// Package client implements the capture-and-upload workflow a kiosk or
// browser front end drives: request an upload ticket, PUT the captured
// frame, then ask the server to match and record attendance.
package client

import "time"

// SessionState describes the lifecycle of an authentication session.
type SessionState int

const (
	SessionAbsent SessionState = iota
	SessionValid
	SessionExpired
)

// Session holds the bearer token obtained from the identity provider.
// Token issuance happens outside this package; the session only tracks
// validity so callers never send a stale token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// State reports whether the session can still be used.
func (s Session) State() SessionState {
	if s.Token == "" {
		return SessionAbsent
	}
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return SessionExpired
	}
	return SessionValid
}

// TokenSupplier returns the session to use for a protected call. It is
// invoked before each request so a refreshed session is picked up
// immediately and an expired one is caught before the network round trip.
type TokenSupplier func() (Session, error)

// StaticToken returns a supplier for a token with a fixed expiry.
func StaticToken(token string, expiresAt time.Time) TokenSupplier {
	return func() (Session, error) {
		return Session{Token: token, ExpiresAt: expiresAt}, nil
	}
}
