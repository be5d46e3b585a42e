package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
)

// Login posts credentials. A 401 here means bad credentials, not an
// expired session, so the session hook is skipped.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.call(ctx, Request{
		Method:          http.MethodPost,
		Path:            "auth/login/",
		Body:            req,
		SkipSessionHook: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout tells the server to drop the token.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, Request{
		Method:          http.MethodPost,
		Path:            "auth/logout/",
		SkipSessionHook: true,
	}, nil)
}

// CheckAuth asks whether the current token is still valid.
func (c *Client) CheckAuth(ctx context.Context) (*models.AuthStatus, error) {
	var out models.AuthStatus
	err := c.call(ctx, Request{
		Method:          http.MethodGet,
		Path:            "auth/check/",
		SkipSessionHook: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Permissions returns the capability map of the current user.
func (c *Client) Permissions(ctx context.Context) (models.Permissions, error) {
	var out models.Permissions
	if err := c.Get(ctx, "auth/permissions/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.Get(ctx, "auth/profile/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replies {user, message}.
func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.Put(ctx, "auth/profile/", upd, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.Message, error) {
	var out models.Message
	if err := c.Post(ctx, "auth/change-password/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists accounts; admins only.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	return All[models.User](ctx, c, "auth/users/", ListParams{})
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.Delete(ctx, fmt.Sprintf("auth/users/%d/", id))
}
