package ports

import (
	"context"

	"github.com/kalafo/kalafo-go/internal/core/domain"
)

// AuthGateway is the slice of the API client the session layer needs for
// credential-changing calls.
type AuthGateway interface {
	// SignIn exchanges credentials for a bearer token and user.
	SignIn(ctx context.Context, email, password string) (domain.AuthResult, error)

	// SignUp creates an account; the API may or may not return a token.
	SignUp(ctx context.Context, reg domain.Registration) (domain.AuthResult, error)

	// Me fetches the account behind the current credential.
	Me(ctx context.Context) (domain.User, error)
}
