package credstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/core/domain"
	"github.com/kalafo/kalafo-go/internal/core/ports"
)

// FileStore keeps each storage key as a file inside a directory. It is the
// default backend.
type FileStore struct {
	dir string
	log zerolog.Logger
	notifier
}

var _ ports.CredentialStore = (*FileStore)(nil)

// NewFileStore opens (creating if needed) the store at dir and runs the
// legacy-key migration exactly once, so reads never have to probe old
// keys. When dir is empty a "kalafo" directory under the user config dir
// is used.
func NewFileStore(dir string, log zerolog.Logger) *FileStore {
	if dir == "" {
		if base, err := os.UserConfigDir(); err == nil {
			dir = filepath.Join(base, "kalafo")
		} else {
			dir = ".kalafo"
		}
	}
	s := &FileStore{
		dir: dir,
		log: log.With().Str("component", "credstore").Logger(),
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		s.log.Warn().Err(err).Str("dir", dir).Msg("credential dir unavailable, operating logged out")
	}
	s.migrate()
	return s
}

// migrate promotes a token found under a legacy key to the current key and
// deletes every legacy key. Runs once, at construction.
func (s *FileStore) migrate() {
	for _, key := range legacyTokenKeys {
		v, ok := s.read(key)
		if ok {
			if _, exists := s.read(tokenKey); !exists {
				s.write(tokenKey, v)
			}
			s.log.Debug().Str("key", key).Msg("migrated legacy credential key")
		}
		s.remove(key)
	}
}

func (s *FileStore) Token() (string, bool) {
	return s.read(tokenKey)
}

func (s *FileStore) SetToken(token string) {
	s.write(tokenKey, token)
	for _, key := range legacyTokenKeys {
		s.remove(key)
	}
	s.emit(token, true)
}

func (s *FileStore) Clear() {
	s.remove(tokenKey)
	for _, key := range legacyTokenKeys {
		s.remove(key)
	}
	s.emit("", false)
}

func (s *FileStore) SaveSession(sess domain.Session) {
	data, err := encodeSnapshot(sess)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode session snapshot")
		return
	}
	s.write(snapshotKey, string(data))
}

func (s *FileStore) LoadSession() (domain.Session, bool) {
	raw, ok := s.read(snapshotKey)
	if !ok {
		return domain.Session{}, false
	}
	return decodeSnapshot([]byte(raw), s.log)
}

func (s *FileStore) ClearSession() {
	s.remove(snapshotKey)
}

func (s *FileStore) OnChange(fn ports.ChangeListener) {
	s.add(fn)
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *FileStore) read(key string) (string, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("key", key).Msg("credential read failed")
		}
		return "", false
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", false
	}
	return v, true
}

func (s *FileStore) write(key, value string) {
	if err := os.WriteFile(s.path(key), []byte(value), 0o600); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("credential write failed")
	}
}

func (s *FileStore) remove(key string) {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.Warn().Err(err).Str("key", key).Msg("credential delete failed")
	}
}
