package ports

import "github.com/kalafo/kalafo-go/internal/core/domain"

// SessionStore is the reactive current-user state derived from the
// credential store.
type SessionStore interface {
	// Current returns the session as of the last mutation.
	Current() domain.Session

	// Login replaces the session wholesale with user's projection and
	// persists token. A login with an empty token is a no-op: stored
	// state must never end up half valid.
	Login(user domain.User, token string) error

	// Logout clears the credential store and nils the session user.
	Logout()

	// Subscribe registers fn to run on every session change, including
	// rehydration. The returned func cancels the subscription.
	Subscribe(fn func(domain.Session)) (cancel func())
}
