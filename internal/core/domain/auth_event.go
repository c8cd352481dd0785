package domain

import "time"

// Auth event kinds recorded in the audit trail.
const (
	EventRegister        = "register"
	EventLoginOK         = "login_ok"
	EventLoginFailed     = "login_failed"
	EventRefresh         = "refresh"
	EventPasswordChanged = "password_changed"
	EventResetRequested  = "password_reset_requested"
	EventPasswordReset   = "password_reset"
)

// AuthEvent is a single audit-trail entry. UserID is empty for failed
// logins against unknown accounts; Email is always set.
type AuthEvent struct {
	UserID    string    `json:"userId,omitempty"`
	Email     string    `json:"email"`
	Kind      string    `json:"kind"`
	RemoteIP  string    `json:"remoteIp,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShardKey identifies the stream the event belongs to. Events sharing a key
// are persisted in order.
func (e AuthEvent) ShardKey() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.Email
}
