package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/core/domain"
	"github.com/kalafo/kalafo-go/internal/core/ports"
)

// SessionService is the reactive current-user state, kept in sync with the
// credential store and rehydrated from its snapshot slot.
//
// Two concurrent logins race last-write-wins on the credential slot. The
// UI serializes login (one form, one submit), so the race is accepted
// rather than locked away.
type SessionService struct {
	creds   ports.CredentialStore
	gateway ports.AuthGateway
	log     zerolog.Logger

	mu      sync.Mutex
	current domain.Session
	subs    map[int]func(domain.Session)
	nextSub int
}

var _ ports.SessionStore = (*SessionService)(nil)

// NewSessionService builds the session layer on top of the credential
// store. It registers for credential changes so a clear from any writer,
// in particular the API client invalidating on a 401, immediately drops
// the session and its persisted snapshot.
func NewSessionService(creds ports.CredentialStore, gateway ports.AuthGateway, log zerolog.Logger) *SessionService {
	s := &SessionService{
		creds:   creds,
		gateway: gateway,
		log:     log.With().Str("component", "session").Logger(),
		subs:    make(map[int]func(domain.Session)),
	}
	creds.OnChange(func(_ string, present bool) {
		if !present {
			s.invalidate()
		}
	})
	return s
}

// Current returns the session as of the last mutation.
func (s *SessionService) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Login persists token and replaces the session user wholesale with user's
// five-field projection. An empty token returns domain.ErrEmptyToken and
// leaves both the session and the credential store untouched.
func (s *SessionService) Login(user domain.User, token string) error {
	if token == "" {
		return domain.ErrEmptyToken
	}

	s.creds.SetToken(token)
	projected := user.Project()
	sess := domain.Session{User: &projected, Token: token}
	s.creds.SaveSession(sess)

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.log.Info().Str("user_id", string(projected.ID)).Str("role", string(projected.Role)).Msg("session established")
	s.notify(sess)
	return nil
}

// Logout clears every credential key and the snapshot, and nils the user.
// The session itself is dropped by the change listener the Clear triggers,
// so an externally initiated clear and an explicit logout converge on the
// same path and subscribers see exactly one event.
func (s *SessionService) Logout() {
	s.creds.Clear()
	s.creds.ClearSession()
	s.log.Info().Msg("session cleared")
}

// invalidate drops the in-memory session and the persisted snapshot after
// the credential slot was cleared, by Logout or by a 401 from any
// endpoint. No-op when already anonymous.
func (s *SessionService) invalidate() {
	s.mu.Lock()
	if !s.current.Authenticated() {
		s.mu.Unlock()
		return
	}
	s.current = domain.Session{}
	s.mu.Unlock()

	s.creds.ClearSession()
	s.log.Info().Msg("session invalidated by credential clear")
	s.notify(domain.Session{})
}

// Rehydrate restores a previously persisted session. Re-writing the token
// through the store re-arms the API client's default Authorization header,
// so the very next request is authenticated with no intervening login.
// Call it once at startup, before any request is issued.
func (s *SessionService) Rehydrate() {
	sess, ok := s.creds.LoadSession()
	if !ok || !sess.Authenticated() {
		return
	}

	s.creds.SetToken(sess.Token)

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.log.Debug().Str("user_id", string(sess.User.ID)).Msg("session rehydrated")
	s.notify(sess)
}

// Subscribe registers fn to run on every session change. Notifications are
// synchronous and in no particular order across subscribers.
func (s *SessionService) Subscribe(fn func(domain.Session)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionService) notify(sess domain.Session) {
	s.mu.Lock()
	fns := make([]func(domain.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

// SignIn is the login action: dispatch, extract token, persist, update.
// The returned user is the full API account, not the session projection.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (domain.User, error) {
	res, err := s.gateway.SignIn(ctx, email, password)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.Login(res.User, res.Token); err != nil {
		return res.User, err
	}
	return res.User, nil
}

// SignUp is the register action. When the API returns a token alongside
// the created account the session is established immediately; otherwise
// the caller stays anonymous and signs in explicitly.
func (s *SessionService) SignUp(ctx context.Context, reg domain.Registration) (domain.User, error) {
	res, err := s.gateway.SignUp(ctx, reg)
	if err != nil {
		return domain.User{}, err
	}
	if res.Token != "" {
		if err := s.Login(res.User, res.Token); err != nil {
			return res.User, err
		}
	}
	return res.User, nil
}

// SignOut is the logout action. Purely local: the API holds no server-side
// session to revoke.
func (s *SessionService) SignOut() {
	s.Logout()
}
