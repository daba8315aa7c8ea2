package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/core/domain"
	"github.com/kalafo/kalafo-go/internal/infrastructure/credstore"
)

// stubGateway satisfies ports.AuthGateway with canned results.
type stubGateway struct {
	result domain.AuthResult
	err    error
}

func (g *stubGateway) SignIn(_ context.Context, _, _ string) (domain.AuthResult, error) {
	return g.result, g.err
}

func (g *stubGateway) SignUp(_ context.Context, _ domain.Registration) (domain.AuthResult, error) {
	return g.result, g.err
}

func (g *stubGateway) Me(_ context.Context) (domain.User, error) {
	return g.result.User, g.err
}

func testUser() domain.User {
	return domain.User{
		ID:        "42",
		Email:     "doc@kalafo.com",
		Role:      domain.RoleDoctor,
		FirstName: "Gregory",
		LastName:  "House",
		CreatedAt: "2024-01-01T00:00:00Z",
		IsActive:  true,
	}
}

func TestSessionService_LoginReplacesWholesale(t *testing.T) {
	creds := credstore.NewMemoryStore()
	svc := NewSessionService(creds, &stubGateway{}, zerolog.Nop())

	if err := svc.Login(testUser(), "tok-42"); err != nil {
		t.Fatalf("login: %v", err)
	}

	sess := svc.Current()
	if !sess.Authenticated() {
		t.Fatalf("expected authenticated session")
	}
	if sess.User.FirstName != "Gregory" || sess.User.Role != domain.RoleDoctor {
		t.Fatalf("unexpected projection: %+v", sess.User)
	}
	if tok, ok := creds.Token(); !ok || tok != "tok-42" {
		t.Fatalf("token not persisted: %q, %v", tok, ok)
	}
	if snap, ok := creds.LoadSession(); !ok || snap.Token != "tok-42" {
		t.Fatalf("snapshot not persisted: %+v, %v", snap, ok)
	}
}

func TestSessionService_LoginEmptyTokenIsNoOp(t *testing.T) {
	creds := credstore.NewMemoryStore()
	svc := NewSessionService(creds, &stubGateway{}, zerolog.Nop())

	// Establish a prior session, then attempt a token-less login.
	if err := svc.Login(testUser(), "tok-old"); err != nil {
		t.Fatalf("first login: %v", err)
	}

	other := testUser()
	other.Email = "other@kalafo.com"
	if err := svc.Login(other, ""); !errors.Is(err, domain.ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}

	// Neither the session nor the store may have moved.
	if got := svc.Current(); got.User.Email != "doc@kalafo.com" || got.Token != "tok-old" {
		t.Fatalf("session mutated by empty-token login: %+v", got)
	}
	if tok, _ := creds.Token(); tok != "tok-old" {
		t.Fatalf("store mutated by empty-token login: %q", tok)
	}
}

func TestSessionService_Logout(t *testing.T) {
	creds := credstore.NewMemoryStore()
	svc := NewSessionService(creds, &stubGateway{}, zerolog.Nop())

	if err := svc.Login(testUser(), "tok"); err != nil {
		t.Fatalf("login: %v", err)
	}
	svc.Logout()

	if svc.Current().Authenticated() {
		t.Fatalf("session survived logout")
	}
	if _, ok := creds.Token(); ok {
		t.Fatalf("token survived logout")
	}
	if _, ok := creds.LoadSession(); ok {
		t.Fatalf("snapshot survived logout")
	}
}

func TestSessionService_RehydrateRearmsToken(t *testing.T) {
	creds := credstore.NewMemoryStore()
	user := testUser().Project()
	creds.SaveSession(domain.Session{User: &user, Token: "tok-restored"})

	var armed string
	creds.OnChange(func(token string, present bool) {
		if present {
			armed = token
		}
	})

	svc := NewSessionService(creds, &stubGateway{}, zerolog.Nop())
	svc.Rehydrate()

	if armed != "tok-restored" {
		t.Fatalf("rehydration did not re-arm the token, armed=%q", armed)
	}
	if got := svc.Current(); !got.Authenticated() || got.User.ID != "42" {
		t.Fatalf("unexpected rehydrated session: %+v", got)
	}
}

func TestSessionService_RehydrateNothingPersisted(t *testing.T) {
	creds := credstore.NewMemoryStore()
	svc := NewSessionService(creds, &stubGateway{}, zerolog.Nop())

	svc.Rehydrate()
	if svc.Current().Authenticated() {
		t.Fatalf("rehydration invented a session")
	}
}

func TestSessionService_SubscribersNotified(t *testing.T) {
	creds := credstore.NewMemoryStore()
	svc := NewSessionService(creds, &stubGateway{}, zerolog.Nop())

	var events []bool
	cancel := svc.Subscribe(func(s domain.Session) {
		events = append(events, s.Authenticated())
	})

	if err := svc.Login(testUser(), "tok"); err != nil {
		t.Fatalf("login: %v", err)
	}
	svc.Logout()
	cancel()
	svc.Logout() // after cancel: no event

	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Fatalf("unexpected event sequence: %v", events)
	}
}

func TestSessionService_ExternalCredentialClearInvalidates(t *testing.T) {
	creds := credstore.NewMemoryStore()
	svc := NewSessionService(creds, &stubGateway{}, zerolog.Nop())

	var events []bool
	svc.Subscribe(func(s domain.Session) {
		events = append(events, s.Authenticated())
	})

	if err := svc.Login(testUser(), "tok"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// A clear from outside the service, as the API client issues on a 401.
	creds.Clear()

	if svc.Current().Authenticated() {
		t.Fatalf("session survived credential clear")
	}
	if _, ok := creds.LoadSession(); ok {
		t.Fatalf("snapshot survived credential clear")
	}
	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Fatalf("unexpected event sequence: %v", events)
	}
}

func TestSessionService_SignInAction(t *testing.T) {
	creds := credstore.NewMemoryStore()
	gw := &stubGateway{result: domain.AuthResult{User: testUser(), Token: "tok-gw"}}
	svc := NewSessionService(creds, gw, zerolog.Nop())

	user, err := svc.SignIn(context.Background(), "doc@kalafo.com", "pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if user.Email != "doc@kalafo.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if tok, ok := creds.Token(); !ok || tok != "tok-gw" {
		t.Fatalf("token not persisted: %q", tok)
	}
}

func TestSessionService_SignInGatewayError(t *testing.T) {
	creds := credstore.NewMemoryStore()
	gw := &stubGateway{err: errors.New("boom")}
	svc := NewSessionService(creds, gw, zerolog.Nop())

	if _, err := svc.SignIn(context.Background(), "a@b.com", "pw"); err == nil {
		t.Fatalf("expected error")
	}
	if svc.Current().Authenticated() {
		t.Fatalf("failed sign-in established a session")
	}
}

func TestSessionService_SignUpWithoutTokenStaysAnonymous(t *testing.T) {
	creds := credstore.NewMemoryStore()
	gw := &stubGateway{result: domain.AuthResult{User: testUser()}}
	svc := NewSessionService(creds, gw, zerolog.Nop())

	user, err := svc.SignUp(context.Background(), domain.Registration{
		Email: "doc@kalafo.com", Password: "longenough", Role: domain.RoleDoctor,
		FirstName: "Gregory", LastName: "House",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.ID != "42" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if svc.Current().Authenticated() {
		t.Fatalf("token-less registration established a session")
	}
	if _, ok := creds.Token(); ok {
		t.Fatalf("token-less registration stored a token")
	}
}
