package ports

import "github.com/kalafo/kalafo-go/internal/core/domain"

// ChangeListener observes credential mutations. present is false after a
// Clear. Listeners are invoked synchronously from SetToken/Clear so the
// next outbound request already reflects the change.
type ChangeListener func(token string, present bool)

// CredentialStore is the durable slot holding the current bearer token and
// the versioned session snapshot used for rehydration.
//
// Implementations are best-effort: a failing storage backend is logged and
// reported as absent, never surfaced to callers. At most one token is
// current at a time; legacy storage keys are migrated away at store
// construction. Concurrent writers race last-write-wins; login is a
// user-serialized action, so the race is accepted rather than locked away.
type CredentialStore interface {
	// Token returns the current bearer token, if any.
	Token() (string, bool)

	// SetToken makes token the current credential and notifies listeners.
	SetToken(token string)

	// Clear removes the token under every known storage key and notifies
	// listeners. Token afterwards reports absent.
	Clear()

	// SaveSession persists the session snapshot for rehydration.
	SaveSession(s domain.Session)

	// LoadSession restores a previously saved snapshot. Snapshots written
	// under a different schema version are discarded.
	LoadSession() (domain.Session, bool)

	// ClearSession removes the persisted snapshot.
	ClearSession()

	// OnChange registers a listener for token mutations.
	OnChange(fn ChangeListener)
}
