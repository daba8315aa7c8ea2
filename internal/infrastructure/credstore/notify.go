// Package credstore provides the durable credential-slot backends: file
// (default), redis (headless deployments) and memory (tests, degraded
// mode). All backends share the same semantics: one current token, legacy
// keys migrated away at construction, a versioned session snapshot, and
// best-effort error handling. A broken backend behaves as permanently
// logged out, it never fails a caller.
package credstore

import (
	"sync"

	"github.com/kalafo/kalafo-go/internal/core/ports"
)

// Storage key names. The current token moved from "kalafo_token" to
// "token" early in the product's life; the old key is still checked once
// and deleted whenever a store starts up or writes.
const (
	tokenKey    = "token"
	snapshotKey = "kalafo_user"
)

var legacyTokenKeys = []string{"kalafo_token"}

// notifier fans a token change out to registered listeners, synchronously
// and in registration order.
type notifier struct {
	mu  sync.Mutex
	fns []ports.ChangeListener
}

func (n *notifier) add(fn ports.ChangeListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fns = append(n.fns, fn)
}

func (n *notifier) emit(token string, present bool) {
	n.mu.Lock()
	fns := make([]ports.ChangeListener, len(n.fns))
	copy(fns, n.fns)
	n.mu.Unlock()

	for _, fn := range fns {
		fn(token, present)
	}
}
