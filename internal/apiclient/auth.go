package apiclient

import (
	"context"
	"net/http"

	"github.com/wanderlust/travel-portal/internal/core/domain"
)

// Login posts credentials to /auth/login. Credentials are not validated
// locally; the backend decides.
func (c *Client) Login(ctx context.Context, email, password string) Response[domain.AuthResult] {
	return request[domain.AuthResult](ctx, c, call{
		method: http.MethodPost,
		path:   "/auth/login",
		route:  "/auth/login",
		body:   domain.LoginInput{Email: email, Password: password},
	})
}

// Register creates an account; a successful reply already carries a token.
func (c *Client) Register(ctx context.Context, in domain.RegisterInput) Response[domain.AuthResult] {
	return request[domain.AuthResult](ctx, c, call{
		method:   http.MethodPost,
		path:     "/auth/register",
		route:    "/auth/register",
		body:     in,
		validate: true,
	})
}

// CurrentUser fetches the account behind the current token.
func (c *Client) CurrentUser(ctx context.Context) Response[domain.User] {
	return request[domain.User](ctx, c, call{
		method: http.MethodGet,
		path:   "/auth/me",
		route:  "/auth/me",
	})
}

// RefreshToken exchanges the current token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) Response[domain.TokenRefresh] {
	return request[domain.TokenRefresh](ctx, c, call{
		method: http.MethodPost,
		path:   "/auth/refresh",
		route:  "/auth/refresh",
	})
}
