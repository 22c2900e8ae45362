// Package session holds the session value type produced when a
// delivered payload checks in, plus the sqlite-backed store that
// records sessions and payload builds. Constructing a session from a
// live connection is the delivery layer's job, not this package's.
package session

import (
	"time"

	"stagecraft/shared"
)

// Session represents a session established by a delivered payload.
type Session struct {
	ID         string
	Codename   string
	Payload    string // name of the payload that produced the session
	RemoteAddr string
	LocalAddr  string
	Platform   string
	Arch       string
	Opened     time.Time
}

// New creates a session record for the named payload.
func New(payloadName, remoteAddr string) *Session {
	return &Session{
		ID:         shared.GenerateSessionID(),
		Codename:   shared.GenerateCodename(),
		Payload:    payloadName,
		RemoteAddr: remoteAddr,
		Opened:     time.Now(),
	}
}

// Age returns how long the session has been open.
func (s *Session) Age() time.Duration {
	return time.Since(s.Opened)
}
