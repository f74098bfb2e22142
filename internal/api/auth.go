package api

import (
	"context"
	"net/http"

	"github.com/Allan-Sanchez/storefront-client/internal/models"
)

// AuthClient talks to the auth service: login, refresh, registration and
// profile management.
type AuthClient struct {
	c *Client
}

func NewAuthClient(baseURL string, tokens TokenSource) *AuthClient {
	return &AuthClient{c: NewClient(baseURL, tokens)}
}

func (a *AuthClient) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	return call[models.AuthResponse](ctx, a.c, request{
		method: http.MethodPost,
		path:   "api/auth/login",
		body:   req,
	})
}

func (a *AuthClient) Refresh(ctx context.Context, refreshToken string) (models.AuthResponse, error) {
	return call[models.AuthResponse](ctx, a.c, request{
		method: http.MethodPost,
		path:   "api/auth/refresh",
		body:   map[string]string{"refreshToken": refreshToken},
	})
}

func (a *AuthClient) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	return call[models.AuthResponse](ctx, a.c, request{
		method: http.MethodPost,
		path:   "api/users/register",
		body:   req,
	})
}

func (a *AuthClient) Profile(ctx context.Context) (models.User, error) {
	return call[models.User](ctx, a.c, request{
		method: http.MethodGet,
		path:   "api/users/me",
	})
}

// UpdateProfile sends a partial update; only the provided fields change.
func (a *AuthClient) UpdateProfile(ctx context.Context, fields map[string]any) (models.User, error) {
	return call[models.User](ctx, a.c, request{
		method: http.MethodPatch,
		path:   "api/users/me",
		body:   fields,
	})
}

func (a *AuthClient) Logout(ctx context.Context) error {
	_, err := call[struct{}](ctx, a.c, request{
		method: http.MethodPost,
		path:   "api/users/logout",
	})
	return err
}
