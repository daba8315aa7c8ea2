// Package api is the single outbound gateway to the Kalafo API. Every
// request goes through Client.do: the credential store is read before each
// dispatch, a bearer header is attached when a token exists, and a 401
// clears the store before the error reaches the caller. All failures are
// normalized into *Error.
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kalafo/kalafo-go/internal/api/metrics"
	"github.com/kalafo/kalafo-go/internal/core/ports"
)

// apiSuffix is the path segment every base URL must end in. Request paths
// are given relative to it ("/login", not "/api/login").
const apiSuffix = "/api"

// Client dispatches all API traffic.
type Client struct {
	base  string
	http  *http.Client
	creds ports.CredentialStore
	log   zerolog.Logger

	mu          sync.RWMutex
	defaultAuth string // "Bearer <token>" armed by store changes; "" when anonymous
}

// NewClient builds the gateway. The base URL is normalized exactly once:
// trailing slashes are dropped and the API suffix appended unless already
// present. The client registers itself with the store so set/clear arm and
// disarm the default Authorization header without any restart, and arms it
// immediately from whatever token the store already holds (rehydration).
func NewClient(baseURL string, timeout time.Duration, creds ports.CredentialStore, log zerolog.Logger) *Client {
	c := &Client{
		base:  NormalizeBaseURL(baseURL),
		http:  &http.Client{Timeout: timeout},
		creds: creds,
		log:   log.With().Str("component", "api").Logger(),
	}
	creds.OnChange(func(token string, present bool) {
		c.armAuthorization(token, present)
	})
	if token, ok := creds.Token(); ok {
		c.armAuthorization(token, true)
	}
	return c
}

// NormalizeBaseURL strips trailing slashes and guarantees the /api suffix.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if !strings.HasSuffix(u, apiSuffix) {
		u += apiSuffix
	}
	return u
}

// BaseURL returns the normalized base the client was built with.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) armAuthorization(token string, present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if present && token != "" {
		c.defaultAuth = "Bearer " + token
	} else {
		c.defaultAuth = ""
	}
}

// DefaultAuthorization exposes the armed header value for inspection.
func (c *Client) DefaultAuthorization() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultAuth
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// do is the dispatch entry point used by every API call.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return transportErr(KindDecode, msgGeneric, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return transportErr(KindNetwork, msgNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	sentToken := c.attachAuthorization(req)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		apiErr := c.classifyTransport(ctx, err)
		metrics.RequestsTotal.WithLabelValues(method, path, "0").Inc()
		metrics.RequestErrorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return apiErr
	}
	defer res.Body.Close()

	data, readErr := io.ReadAll(res.Body)
	metrics.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(res.StatusCode)).Inc()
	metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

	if res.StatusCode == http.StatusUnauthorized {
		// Invalidate before the caller can observe the failure, so any
		// "am I logged in" check after an awaited error sees the cleared
		// state.
		c.creds.Clear()
		metrics.AuthInvalidationsTotal.Inc()
		return c.unauthorized(sentToken, res.StatusCode, data, method, path)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := httpErr(res.StatusCode, data)
		metrics.RequestErrorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		return apiErr
	}

	if readErr != nil {
		metrics.RequestErrorsTotal.WithLabelValues(string(KindNetwork)).Inc()
		return transportErr(KindNetwork, msgNetwork, readErr)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			metrics.RequestErrorsTotal.WithLabelValues(string(KindDecode)).Inc()
			return &Error{Kind: KindDecode, Status: res.StatusCode, Message: msgGeneric, Body: data, cause: err}
		}
	}
	return nil
}

// attachAuthorization reads the store and sets the bearer header, falling
// back to the store-armed default. Returns the token that was sent, if
// any.
func (c *Client) attachAuthorization(req *http.Request) string {
	if token, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
		return token
	}
	if auth := c.DefaultAuthorization(); auth != "" {
		req.Header.Set("Authorization", auth)
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// classifyTransport maps a transport failure to its fixed user-facing
// message. Caller-initiated cancellation is kept apart from genuine
// network failure.
func (c *Client) classifyTransport(ctx context.Context, err error) *Error {
	if ctx.Err() == context.Canceled || errors.Is(err, context.Canceled) {
		return transportErr(KindCancelled, msgCancelled, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return transportErr(KindTimeout, msgTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return transportErr(KindTimeout, msgTimeout, err)
	}
	return transportErr(KindNetwork, msgNetwork, err)
}

// unauthorized builds the 401 error after the store has been cleared. When
// the rejected token is a readable JWT whose expiry has passed, the error
// is refined to the session-expired kind.
func (c *Client) unauthorized(sentToken string, status int, body []byte, method, path string) *Error {
	var apiErr *Error
	if sentToken != "" && tokenExpired(sentToken, time.Now()) {
		apiErr = sessionExpiredErr(status, body)
	} else {
		apiErr = httpErr(status, body)
	}
	metrics.RequestErrorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
	c.log.Info().Str("method", method).Str("path", path).Str("kind", string(apiErr.Kind)).Msg("credential invalidated by 401")
	return apiErr
}
