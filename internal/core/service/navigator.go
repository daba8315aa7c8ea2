package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/core/domain"
	"github.com/kalafo/kalafo-go/internal/core/ports"
)

// maxRedirectHops bounds redirect chasing. A valid policy settles in two
// hops (requested path → role home); more than four means the policy
// contradicts itself.
const maxRedirectHops = 4

// Navigator holds the current location and re-applies the route policy on
// every navigation and on every session change. Nothing is cached past a
// single (state, path) evaluation.
type Navigator struct {
	policy   RoutePolicy
	sessions ports.SessionStore
	log      zerolog.Logger

	mu     sync.Mutex
	path   string
	cancel func()
}

func NewNavigator(policy RoutePolicy, sessions ports.SessionStore, log zerolog.Logger) *Navigator {
	n := &Navigator{
		policy:   policy,
		sessions: sessions,
		log:      log.With().Str("component", "navigator").Logger(),
		path:     "/",
	}
	n.cancel = sessions.Subscribe(func(s domain.Session) {
		n.reevaluate(s)
	})
	return n
}

// Navigate requests path and returns where the guard actually lands:
// either path itself or the redirect target it resolves to.
func (n *Navigator) Navigate(path string) string {
	return n.settle(n.sessions.Current(), path)
}

// Location returns the current (already guarded) path.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Close detaches the navigator from session changes.
func (n *Navigator) Close() {
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}

// reevaluate re-runs the guard for the current location after a login,
// logout or rehydration; a now-forbidden location redirects away.
func (n *Navigator) reevaluate(s domain.Session) {
	n.settle(s, n.Location())
}

func (n *Navigator) settle(s domain.Session, path string) string {
	state := GuardStateOf(s)
	for hops := 0; hops < maxRedirectHops; hops++ {
		d := n.policy.Decide(state, path)
		if d.Allow {
			n.mu.Lock()
			n.path = path
			n.mu.Unlock()
			return path
		}
		n.log.Debug().Str("from", path).Str("to", d.RedirectTo).Msg("redirected by route guard")
		path = d.RedirectTo
	}
	// Unreachable with a validated policy.
	n.log.Error().Str("path", path).Msg("route guard redirect loop")
	n.mu.Lock()
	n.path = n.policy.SignInPath
	n.mu.Unlock()
	return n.policy.SignInPath
}
