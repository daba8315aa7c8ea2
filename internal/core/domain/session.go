package domain

// SnapshotVersion is the schema version written with every persisted
// session snapshot. Loaders discard snapshots carrying any other version.
const SnapshotVersion = 1

// Session is the current-user state. User is non-nil exactly when Token is
// non-empty: a session is either fully present or fully absent, never half
// built.
type Session struct {
	User  *SessionUser `json:"user"`
	Token string       `json:"token"`
}

// Authenticated reports whether the session carries a credential believed
// valid. Server-side validity is only ever confirmed by a non-401 response.
func (s Session) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Role returns the session's role, or "" for an anonymous session.
func (s Session) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
