package credstore

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/core/domain"
	"github.com/kalafo/kalafo-go/internal/core/ports"
)

// MemoryStore holds the credential slot in process memory only. Used in
// tests and as the degraded fallback when no durable backend is usable;
// sessions then simply do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	token    string
	hasToken bool
	snapshot []byte
	notifier
}

var _ ports.CredentialStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.hasToken
}

func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.hasToken = true
	s.mu.Unlock()
	s.emit(token, true)
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.hasToken = false
	s.mu.Unlock()
	s.emit("", false)
}

func (s *MemoryStore) SaveSession(sess domain.Session) {
	data, err := encodeSnapshot(sess)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.snapshot = data
	s.mu.Unlock()
}

func (s *MemoryStore) LoadSession() (domain.Session, bool) {
	s.mu.Lock()
	raw := s.snapshot
	s.mu.Unlock()
	if raw == nil {
		return domain.Session{}, false
	}
	return decodeSnapshot(raw, zerolog.Nop())
}

func (s *MemoryStore) ClearSession() {
	s.mu.Lock()
	s.snapshot = nil
	s.mu.Unlock()
}

func (s *MemoryStore) OnChange(fn ports.ChangeListener) {
	s.add(fn)
}
