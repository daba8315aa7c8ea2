package credstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/core/domain"
	"github.com/kalafo/kalafo-go/internal/core/ports"
)

const redisOpTimeout = 2 * time.Second

// redisNamespace prefixes current keys; legacy keys predate namespacing
// and are looked up bare.
const redisNamespace = "kalafo:"

// RedisStore keeps the credential slot in Redis. Intended for headless
// deployments (kiosk terminals, service accounts) where the client core
// runs without a per-user filesystem profile.
type RedisStore struct {
	client *redis.Client
	log    zerolog.Logger
	notifier
}

var _ ports.CredentialStore = (*RedisStore)(nil)

// NewRedisStore wraps an established client and, like the file backend,
// runs the legacy-key migration once up front.
func NewRedisStore(client *redis.Client, log zerolog.Logger) *RedisStore {
	s := &RedisStore{
		client: client,
		log:    log.With().Str("component", "credstore-redis").Logger(),
	}
	s.migrate()
	return s
}

func (s *RedisStore) migrate() {
	ctx, cancel := opCtx()
	defer cancel()

	for _, key := range legacyTokenKeys {
		v, err := s.client.Get(ctx, key).Result()
		if err == nil && v != "" {
			if _, cur := s.Token(); !cur {
				if err := s.client.Set(ctx, redisNamespace+tokenKey, v, 0).Err(); err != nil {
					s.log.Warn().Err(err).Msg("legacy credential migration failed")
					continue
				}
			}
			s.log.Debug().Str("key", key).Msg("migrated legacy credential key")
		}
		if err := s.client.Del(ctx, key).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("legacy credential delete failed")
		}
	}
}

func (s *RedisStore) Token() (string, bool) {
	ctx, cancel := opCtx()
	defer cancel()

	v, err := s.client.Get(ctx, redisNamespace+tokenKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn().Err(err).Msg("credential read failed")
		}
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

func (s *RedisStore) SetToken(token string) {
	ctx, cancel := opCtx()
	defer cancel()

	if err := s.client.Set(ctx, redisNamespace+tokenKey, token, 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("credential write failed")
	}
	if err := s.client.Del(ctx, legacyTokenKeys...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("legacy credential delete failed")
	}
	s.emit(token, true)
}

func (s *RedisStore) Clear() {
	ctx, cancel := opCtx()
	defer cancel()

	keys := append([]string{redisNamespace + tokenKey}, legacyTokenKeys...)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("credential delete failed")
	}
	s.emit("", false)
}

func (s *RedisStore) SaveSession(sess domain.Session) {
	data, err := encodeSnapshot(sess)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to encode session snapshot")
		return
	}

	ctx, cancel := opCtx()
	defer cancel()
	if err := s.client.Set(ctx, redisNamespace+snapshotKey, data, 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("session snapshot write failed")
	}
}

func (s *RedisStore) LoadSession() (domain.Session, bool) {
	ctx, cancel := opCtx()
	defer cancel()

	raw, err := s.client.Get(ctx, redisNamespace+snapshotKey).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn().Err(err).Msg("session snapshot read failed")
		}
		return domain.Session{}, false
	}
	return decodeSnapshot([]byte(raw), s.log)
}

func (s *RedisStore) ClearSession() {
	ctx, cancel := opCtx()
	defer cancel()
	if err := s.client.Del(ctx, redisNamespace+snapshotKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("session snapshot delete failed")
	}
}

func (s *RedisStore) OnChange(fn ports.ChangeListener) {
	s.add(fn)
}

func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}
