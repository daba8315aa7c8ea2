package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/core/domain"
	"github.com/kalafo/kalafo-go/internal/core/ports"
	"github.com/kalafo/kalafo-go/internal/infrastructure/credstore"
)

func newTestClient(t *testing.T, url string, creds ports.CredentialStore) *Client {
	t.Helper()
	return NewClient(url, 5*time.Second, creds, zerolog.Nop())
}

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:5000/api":  "http://localhost:5000/api",
		"http://localhost:5000/api/": "http://localhost:5000/api",
		"http://localhost:5000":      "http://localhost:5000/api",
		"http://localhost:5000///":   "http://localhost:5000/api",
		"https://api.kalafo.com/api": "https://api.kalafo.com/api",
	}
	for in, want := range cases {
		if got := NormalizeBaseURL(in); got != want {
			t.Fatalf("NormalizeBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClient_AttachesBearerFromStore(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	creds := credstore.NewMemoryStore()
	creds.SetToken("tok-123")
	c := newTestClient(t, srv.URL, creds)

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestClient_AnonymousWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, credstore.NewMemoryStore())
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected unauthenticated dispatch, got %q", gotAuth)
	}
}

func TestClient_401ClearsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Token invalid"}`))
	}))
	defer srv.Close()

	creds := credstore.NewMemoryStore()
	creds.SetToken("stale")
	c := newTestClient(t, srv.URL, creds)

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, ok := creds.Token(); ok {
		t.Fatalf("credential store not cleared after 401")
	}
	if c.DefaultAuthorization() != "" {
		t.Fatalf("default header still armed after 401")
	}
	if ErrorMessage(err) != "Token invalid" {
		t.Fatalf("unexpected message %q", ErrorMessage(err))
	}
}

func TestClient_401WithExpiredJWTIsSessionExpired(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Token expired"}`))
	}))
	defer srv.Close()

	creds := credstore.NewMemoryStore()
	creds.SetToken(signed)
	c := newTestClient(t, srv.URL, creds)

	_, err = c.Me(context.Background())
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("session expiry must still match ErrUnauthorized")
	}
	if _, ok := creds.Token(); ok {
		t.Fatalf("credential store not cleared")
	}
	if ErrorMessage(err) != msgSessionExpired {
		t.Fatalf("unexpected message %q", ErrorMessage(err))
	}
}

func TestClient_ValidationErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors": {"first_name": ["Required"]}}`))
	}))
	defer srv.Close()

	creds := credstore.NewMemoryStore()
	creds.SetToken("tok")
	c := newTestClient(t, srv.URL, creds)

	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if ErrorMessage(err) != "First Name: Required" {
		t.Fatalf("unexpected message %q", ErrorMessage(err))
	}
	// 4xx other than 401 never invalidates the session.
	if _, ok := creds.Token(); !ok {
		t.Fatalf("credential store cleared by non-401 response")
	}
}

func TestClient_CancellationIsNotANetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, credstore.NewMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.Health(ctx)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Kind != KindCancelled {
		t.Fatalf("expected cancelled kind, got %q", apiErr.Kind)
	}
	if apiErr.Message != msgCancelled {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestClient_TimeoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond, credstore.NewMemoryStore(), zerolog.Nop())

	_, err := c.Health(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Kind != KindTimeout {
		t.Fatalf("expected timeout kind, got %q", apiErr.Kind)
	}
	if apiErr.Message != msgTimeout {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestClient_NetworkErrorMessage(t *testing.T) {
	// Nothing listens here.
	c := newTestClient(t, "http://127.0.0.1:1", credstore.NewMemoryStore())

	_, err := c.Health(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Kind != KindNetwork {
		t.Fatalf("expected network kind, got %q", apiErr.Kind)
	}
	if apiErr.Message != msgNetwork {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

// stubStore reports no current token but still accepts the armed default
// header: models a storage backend that died after startup.
type stubStore struct {
	credstore.MemoryStore
}

func (s *stubStore) Token() (string, bool) { return "", false }

func TestClient_FallsBackToArmedDefaultHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	store := &stubStore{}
	c := newTestClient(t, srv.URL, store)
	// Arm via the store's change notification, as a rehydration would.
	store.SetToken("restored")

	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if gotAuth != "Bearer restored" {
		t.Fatalf("expected restored bearer, got %q", gotAuth)
	}
}
