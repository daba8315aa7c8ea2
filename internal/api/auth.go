package api

import (
	"context"

	"github.com/kalafo/kalafo-go/internal/core/domain"
	"github.com/kalafo/kalafo-go/internal/core/ports"
)

var _ ports.AuthGateway = (*Client)(nil)

// authResponse covers both token field spellings the API has used.
type authResponse struct {
	AccessToken string      `json:"access_token"`
	Token       string      `json:"token"`
	User        domain.User `json:"user"`
}

// bearer returns whichever token field is populated, access_token first.
func (r authResponse) bearer() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// SignIn exchanges credentials for a bearer token and user. It does not
// mutate session state; that orchestration belongs to the session service.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.AuthResult, error) {
	payload := LoginPayload{Email: email, Password: password}
	if err := payload.Validate(); err != nil {
		return domain.AuthResult{}, err
	}

	var res authResponse
	if err := c.post(ctx, "/login", payload, &res); err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{User: res.User, Token: res.bearer()}, nil
}

// SignUp creates an account. Some deployments return a token on register,
// some require an explicit login afterwards; the result's Token is empty
// in the latter case.
func (c *Client) SignUp(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	payload := RegisterPayload{
		Email:     reg.Email,
		Password:  reg.Password,
		Role:      reg.Role,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
	}
	if err := payload.Validate(); err != nil {
		return domain.AuthResult{}, err
	}

	var res authResponse
	if err := c.post(ctx, "/register", payload, &res); err != nil {
		return domain.AuthResult{}, err
	}
	return domain.AuthResult{User: res.User, Token: res.bearer()}, nil
}

// Me fetches the account behind the current credential.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	if err := c.get(ctx, "/me", &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
