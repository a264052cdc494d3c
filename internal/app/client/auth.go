package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// AuthClient talks to /api/auth.
type AuthClient struct {
	*Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{Client: c}
}

// Login exchanges credentials for a session. A 401 matches
// models.ErrUnauthenticated.
func (c *AuthClient) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, &s); err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, fmt.Errorf("login response for %q carried no token: %w", creds.Username, models.ErrUnauthenticated)
	}
	return &s, nil
}
