package model

import "time"

// Session is the repository layer model for the single recorded peer session.
type Session struct {
	PeerAddress  string
	CallbackPort int
	RecordedAt   time.Time
}
