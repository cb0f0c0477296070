package model

// Identity is the authenticated player's profile as returned by the identity provider
type Identity struct {
	ExternalID  string // provider-issued, stable per player
	DisplayName string
	AvatarURL   string
}

// SessionStatus is the authentication lifecycle state of the running client
type SessionStatus string

const (
	SessionAnonymous      SessionStatus = "anonymous"
	SessionAuthenticating SessionStatus = "authenticating"
	SessionAuthenticated  SessionStatus = "authenticated"
)

// SessionState is a point-in-time view of the session.
// Identity is non-nil if and only if Status is SessionAuthenticated.
type SessionState struct {
	Status   SessionStatus
	Identity *Identity
}

// IsAuthenticated returns true when the state carries an identity
func (s SessionState) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated && s.Identity != nil
}
