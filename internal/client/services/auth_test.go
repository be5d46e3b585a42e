package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/secdesk/internal/client/apierr"
	"github.com/dmitrijs2005/secdesk/internal/client/client"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/client/session"
	"github.com/dmitrijs2005/secdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	loginResp *models.LoginResponse
	loginErr  error
	logoutErr error
	status    *models.AuthStatus
	checkErr  error
	perms     models.Permissions
	profile   *models.User
	pwMessage string
	pwErr     error
	logouts   int
	resets    int
	lastPwReq models.ChangePasswordRequest
	lastLogin models.LoginRequest
}

func (f *fakeAuthAPI) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.lastLogin = req
	return f.loginResp, f.loginErr
}

func (f *fakeAuthAPI) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAuthAPI) CheckAuth(context.Context) (*models.AuthStatus, error) {
	return f.status, f.checkErr
}

func (f *fakeAuthAPI) Permissions(context.Context) (models.Permissions, error) {
	return f.perms, nil
}

func (f *fakeAuthAPI) UpdateProfile(context.Context, models.ProfileUpdate) (*models.User, error) {
	return f.profile, nil
}

func (f *fakeAuthAPI) ChangePassword(_ context.Context, req models.ChangePasswordRequest) (*models.Message, error) {
	f.lastPwReq = req
	if f.pwErr != nil {
		return nil, f.pwErr
	}
	return &models.Message{Message: f.pwMessage}, nil
}

func (f *fakeAuthAPI) ResetSession() { f.resets++ }

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "s.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return session.NewStore(repos.Metadata)
}

var testUser = models.User{ID: 7, Username: "omar", Role: "normal"}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{loginResp: &models.LoginResponse{
		Token:       "abc",
		User:        testUser,
		Permissions: models.Permissions{models.PermCanCreateCorrespondence: true},
	}}
	store := newTestStore(t)
	svc := NewAuthService(api, store, logging.Nop{})

	_, err := svc.Login(ctx, "omar", "pw", true)
	require.NoError(t, err)

	assert.Equal(t, models.LoginRequest{Username: "omar", Password: "pw", RememberMe: true}, api.lastLogin)
	assert.Equal(t, "abc", store.Token())
	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.CanCreateCorrespondence())
	assert.Equal(t, 1, api.resets)
}

func TestAuthService_LoginFailureLeavesStoreEmpty(t *testing.T) {
	api := &fakeAuthAPI{loginErr: &apierr.Error{Kind: apierr.KindValidation, Status: 400}}
	store := newTestStore(t)
	svc := NewAuthService(api, store, logging.Nop{})

	_, err := svc.Login(context.Background(), "omar", "bad", false)
	require.Error(t, err)
	assert.Empty(t, store.Token())
	assert.Zero(t, api.resets)
}

func TestAuthService_LogoutClearsEvenWhenServerFails(t *testing.T) {
	ctx := context.Background()
	api := &fakeAuthAPI{logoutErr: errors.New("boom")}
	store := newTestStore(t)
	require.NoError(t, store.Init(ctx, "abc", testUser, nil))

	svc := NewAuthService(api, store, logging.Nop{})
	require.NoError(t, svc.Logout(ctx))

	assert.Equal(t, 1, api.logouts)
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestAuthService_LogoutWithoutTokenSkipsServer(t *testing.T) {
	api := &fakeAuthAPI{}
	svc := NewAuthService(api, newTestStore(t), logging.Nop{})

	require.NoError(t, svc.Logout(context.Background()))
	assert.Zero(t, api.logouts)
}

func TestAuthService_CheckAuthStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("no token", func(t *testing.T) {
		svc := NewAuthService(&fakeAuthAPI{}, newTestStore(t), logging.Nop{})
		assert.False(t, svc.CheckAuthStatus(ctx))
	})

	t.Run("server error clears", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Init(ctx, "abc", testUser, nil))
		api := &fakeAuthAPI{checkErr: apierr.Network(errors.New("refused"))}

		svc := NewAuthService(api, store, logging.Nop{})
		assert.False(t, svc.CheckAuthStatus(ctx))
		assert.Empty(t, store.Token())
	})

	t.Run("not authenticated clears", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Init(ctx, "abc", testUser, nil))
		api := &fakeAuthAPI{status: &models.AuthStatus{Authenticated: false}}

		svc := NewAuthService(api, store, logging.Nop{})
		assert.False(t, svc.CheckAuthStatus(ctx))
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("valid refreshes user and permissions", func(t *testing.T) {
		store := newTestStore(t)
		require.NoError(t, store.Init(ctx, "abc", testUser, nil))
		fresh := testUser
		fresh.FullNameArabic = "عمر"
		api := &fakeAuthAPI{status: &models.AuthStatus{
			Authenticated: true,
			User:          fresh,
			Permissions:   models.Permissions{models.PermIsAdmin: true},
		}}

		svc := NewAuthService(api, store, logging.Nop{})
		assert.True(t, svc.CheckAuthStatus(ctx))
		assert.Equal(t, "عمر", store.User().FullNameArabic)
		assert.True(t, store.IsAdmin())
		assert.Equal(t, "abc", store.Token())
	})
}

func TestAuthService_RefreshPermissions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Init(ctx, "abc", testUser, nil))
	api := &fakeAuthAPI{perms: models.Permissions{models.PermCanManagePermits: true}}

	svc := NewAuthService(api, store, logging.Nop{})
	require.NoError(t, svc.RefreshPermissions(ctx))
	assert.True(t, store.CanManagePermits())
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Init(ctx, "abc", testUser, models.Permissions{models.PermIsAdmin: true}))

	updated := testUser
	updated.Department = "الأمن"
	api := &fakeAuthAPI{profile: &updated}

	svc := NewAuthService(api, store, logging.Nop{})
	dept := "الأمن"
	u, err := svc.UpdateProfile(ctx, models.ProfileUpdate{Department: &dept})
	require.NoError(t, err)
	assert.Equal(t, "الأمن", u.Department)
	assert.Equal(t, "الأمن", store.User().Department)
	assert.True(t, store.IsAdmin())
}

func TestAuthService_ChangePassword(t *testing.T) {
	api := &fakeAuthAPI{pwMessage: "تم تغيير كلمة المرور بنجاح"}
	svc := NewAuthService(api, newTestStore(t), logging.Nop{})

	msg, err := svc.ChangePassword(context.Background(), "old", "new")
	require.NoError(t, err)
	assert.Equal(t, "تم تغيير كلمة المرور بنجاح", msg)
	assert.Equal(t, models.ChangePasswordRequest{OldPassword: "old", NewPassword: "new"}, api.lastPwReq)

	api.pwErr = &apierr.Error{Kind: apierr.KindValidation}
	_, err = svc.ChangePassword(context.Background(), "old", "new")
	assert.Error(t, err)
}
