package domain

import "time"

// AuthEventKind classifies entries in the local audit log.
type AuthEventKind string

const (
	EventLoginSucceeded  AuthEventKind = "login_succeeded"
	EventLoginChallenged AuthEventKind = "login_challenged"
	EventLoginFailed     AuthEventKind = "login_failed"
	EventVerifySucceeded AuthEventKind = "verify_succeeded"
	EventVerifyFailed    AuthEventKind = "verify_failed"
	EventRefreshFailed   AuthEventKind = "refresh_failed"
	EventGateDenied      AuthEventKind = "gate_denied"
	EventMarkerRejected  AuthEventKind = "marker_rejected"
	EventSessionRevoked  AuthEventKind = "session_revoked"
)

// AuthEvent is one append-only audit record. No session credentials are ever
// stored; the fingerprint hash is the only device-linked field.
type AuthEvent struct {
	ID          string
	Kind        AuthEventKind
	Path        string
	Fingerprint string
	RemoteAddr  string
	Detail      string
	CreatedAt   time.Time
}
