// Package services contains the application services of the secdesk
// console. Each service is an interface backed by a private struct that
// talks to the REST API and keeps the session store in step with it.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/client/session"
	"github.com/dmitrijs2005/secdesk/internal/logging"
)

// AuthAPI is the part of the REST client the auth service needs.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) (*models.AuthStatus, error)
	Permissions(ctx context.Context) (models.Permissions, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.Message, error)
	ResetSession()
}

// AuthService signs users in and out.
//
//   - Login stores token, user and permissions and re-arms the 401 hook.
//   - Logout notifies the server when a token exists and always clears.
//   - CheckAuthStatus never fails: any error means "not signed in".
type AuthService interface {
	Login(ctx context.Context, username, password string, rememberMe bool) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	CheckAuthStatus(ctx context.Context) bool
	RefreshPermissions(ctx context.Context) error
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error)
}

type authService struct {
	api    AuthAPI
	store  *session.Store
	logger logging.Logger
}

func NewAuthService(api AuthAPI, store *session.Store, logger logging.Logger) AuthService {
	return &authService{api: api, store: store, logger: logger}
}

func (a *authService) Login(ctx context.Context, username, password string, rememberMe bool) (*models.LoginResponse, error) {
	resp, err := a.api.Login(ctx, models.LoginRequest{
		Username:   username,
		Password:   password,
		RememberMe: rememberMe,
	})
	if err != nil {
		return nil, err
	}

	if err := a.store.Init(ctx, resp.Token, resp.User, resp.Permissions); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	a.api.ResetSession()

	a.logger.Info(ctx, "signed in", "user", resp.User.Username)
	return resp, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if a.store.Token() != "" {
		if err := a.api.Logout(ctx); err != nil {
			a.logger.Warn(ctx, "logout notify failed", "error", err)
		}
	}
	return a.store.Clear(ctx)
}

func (a *authService) CheckAuthStatus(ctx context.Context) bool {
	if a.store.Token() == "" {
		return false
	}

	status, err := a.api.CheckAuth(ctx)
	if err != nil || !status.Authenticated {
		if err != nil {
			a.logger.Debug(ctx, "auth check failed", "error", err)
		}
		if err := a.Logout(ctx); err != nil {
			a.logger.Warn(ctx, "clear session failed", "error", err)
		}
		return false
	}

	if err := a.store.Refresh(ctx, status.User, status.Permissions); err != nil {
		a.logger.Warn(ctx, "persist session failed", "error", err)
	}
	return true
}

func (a *authService) RefreshPermissions(ctx context.Context) error {
	perms, err := a.api.Permissions(ctx)
	if err != nil {
		return err
	}
	user := a.store.User()
	if user == nil {
		return nil
	}
	return a.store.Refresh(ctx, *user, perms)
}

func (a *authService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	user, err := a.api.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, err
	}
	if err := a.store.Refresh(ctx, *user, a.store.Permissions()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return user, nil
}

// ChangePassword returns the server's confirmation text.
func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	msg, err := a.api.ChangePassword(ctx, models.ChangePasswordRequest{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}
