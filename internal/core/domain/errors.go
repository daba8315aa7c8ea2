package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyToken is returned when a login attempt supplies no token.
	// The session must stay exactly as it was; a user without a credential
	// (or the reverse) is never stored.
	ErrEmptyToken = errors.New("empty credential token")

	// ErrUnauthorized marks a 401 from any endpoint. By the time a caller
	// sees it the credential store has already been cleared.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired refines ErrUnauthorized (and matches it under
	// errors.Is) when the rejected token carries a readable, past expiry.
	ErrSessionExpired = fmt.Errorf("session expired: %w", ErrUnauthorized)

	ErrInvalidRole = errors.New("unknown role")
)
