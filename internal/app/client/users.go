package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// UsersClient talks to /api/users.
type UsersClient struct {
	*Client
}

func NewUsersClient(c *Client) *UsersClient {
	return &UsersClient{Client: c}
}

func userPath(id models.ID) string {
	return "/api/users/" + url.PathEscape(id.String())
}

func (c *UsersClient) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) Get(ctx context.Context, id models.ID) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UsersClient) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/username/"+url.PathEscape(username), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UsersClient) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	q := url.Values{"role": {string(role)}}
	if err := c.do(ctx, http.MethodGet, "/api/users/by-role", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UsersClient) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "/api/users", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UsersClient) Update(ctx context.Context, id models.ID, in models.UserInput) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, userPath(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UsersClient) Delete(ctx context.Context, id models.ID) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil)
}

// ToggleStatus flips the enabled flag and returns the updated user.
func (c *UsersClient) ToggleStatus(ctx context.Context, id models.ID) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPatch, userPath(id)+"/toggle-status", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *UsersClient) UsernameExists(ctx context.Context, username string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	q := url.Values{"username": {username}}
	if err := c.do(ctx, http.MethodGet, "/api/users/check-username", q, nil, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}
