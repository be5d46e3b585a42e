package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/cryptox"
	"github.com/dmitrijs2005/secdesk/internal/server/auth"
	"github.com/dmitrijs2005/secdesk/internal/server/config"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/repomanager"
)

// Operator-facing messages of the auth endpoints.
const (
	MsgBadCredentials   = "بيانات تسجيل الدخول غير صحيحة"
	MsgLoggedIn         = "تم تسجيل الدخول بنجاح"
	MsgLoggedOut        = "تم تسجيل الخروج بنجاح"
	MsgProfileUpdated   = "تم تحديث الملف الشخصي بنجاح"
	MsgWrongPassword    = "كلمة المرور الحالية غير صحيحة"
	MsgPasswordChanged  = "تم تغيير كلمة المرور بنجاح"
	MsgPasswordMismatch = "كلمتا المرور غير متطابقتين"
)

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 8

type LoginResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	db                 *sql.DB
	repomanager        repomanager.RepositoryManager
	jwtSecret          []byte
	tokenValidity      time.Duration
	rememberMeValidity time.Duration
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                 db,
		repomanager:        m,
		jwtSecret:          []byte(cfg.SecretKey),
		tokenValidity:      cfg.TokenValidityDuration,
		rememberMeValidity: cfg.RememberMeValidityDuration,
	}
}

// Login checks the credentials and issues a token. Unknown users, wrong
// passwords and inactive accounts look the same to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string, rememberMe bool) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fail(common.ErrorValidation, MsgBadCredentials)
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fail(common.ErrorUnauthorized, MsgBadCredentials)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, []byte(password))
	if err != nil || !ok || !user.IsActive {
		return nil, fail(common.ErrorUnauthorized, MsgBadCredentials)
	}

	ttl := s.tokenValidity
	if rememberMe {
		ttl = s.rememberMeValidity
	}
	token, err := auth.GenerateToken(user.ID, user.TokenVersion, s.jwtSecret, ttl)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Logout revokes every token of the user.
func (s *AuthService) Logout(ctx context.Context, user *models.User) error {
	if _, err := s.repomanager.Users(s.db).BumpTokenVersion(ctx, user.ID); err != nil {
		return fmt.Errorf("error revoking tokens: %w", err)
	}
	return nil
}

// Authenticate resolves a token to an active user. Tokens issued before
// the last logout are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive || user.TokenVersion != claims.Version {
		return nil, common.ErrInvalidToken
	}
	return user, nil
}

// UpdateProfile applies the self-editable fields.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, upd models.ProfileUpdate) (*models.User, error) {
	if upd.Email != nil && *upd.Email != "" {
		if _, err := mail.ParseAddress(*upd.Email); err != nil {
			return nil, fieldError("email", "Enter a valid email address.")
		}
	}

	updated := *user
	upd.Apply(&updated)
	if err := s.repomanager.Users(s.db).UpdateProfile(ctx, &updated); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	updated.FillDisplay()
	return &updated, nil
}

// ChangePassword replaces the password after checking the current one.
// confirm may be empty when the client does not ask for it twice.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword, confirm string) error {
	ok, err := cryptox.VerifyPassword(user.PasswordHash, []byte(oldPassword))
	if err != nil || !ok {
		return fail(common.ErrorValidation, MsgWrongPassword)
	}

	verr := &ValidationError{}
	if len([]rune(newPassword)) < MinPasswordLength {
		verr.Add("new_password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength))
	}
	if confirm != "" && confirm != newPassword {
		verr.Add("new_password_confirm", MsgPasswordMismatch)
	}
	if err := verr.Err(); err != nil {
		return err
	}

	hash := cryptox.HashPassword([]byte(newPassword))
	if err := s.repomanager.Users(s.db).SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error saving password: %w", err)
	}
	return nil
}

func (s *AuthService) Users(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// DeleteUser removes an account other than the caller's own.
func (s *AuthService) DeleteUser(ctx context.Context, caller *models.User, id int64) error {
	if caller.ID == id {
		return fail(common.ErrorValidation, "لا يمكن حذف حسابك الحالي")
	}
	return s.repomanager.Users(s.db).Delete(ctx, id)
}

// EnsureAdmin creates the first administrator when there are no users at
// all. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	repo := s.repomanager.Users(s.db)
	n, err := repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("error counting users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = repo.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: cryptox.HashPassword([]byte(password)),
		Role:         common.RoleAdmin,
		IsActive:     true,
		IsSuperuser:  true,
	})
	if err != nil {
		return false, fmt.Errorf("error creating admin: %w", err)
	}
	return true, nil
}
