// Package session keeps the signed-in state of the console: token, user
// and permission map. The state lives in memory and is mirrored to the
// local metadata store so a restart keeps the user signed in.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/client/repositories/metadata"
)

// Persistence keys.
const (
	KeyToken       = "authToken"
	KeyUser        = "user"
	KeyPermissions = "permissions"
)

// DefaultRoleDisplay is shown when the server sends no role label.
const DefaultRoleDisplay = "مستخدم عادي"

// Store is the session. The zero value is not usable; call NewStore.
type Store struct {
	repo metadata.Repository

	mu    sync.RWMutex
	token string
	user  *models.User
	perms models.Permissions
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo, perms: models.Permissions{}}
}

// Load restores a persisted session. Unreadable entries are treated as
// absent.
func (s *Store) Load(ctx context.Context) error {
	token, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	userRaw, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	permsRaw, err := s.repo.Get(ctx, KeyPermissions)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	var user *models.User
	if len(userRaw) > 0 {
		var u models.User
		if json.Unmarshal(userRaw, &u) == nil {
			user = &u
		}
	}
	perms := models.Permissions{}
	if len(permsRaw) > 0 {
		_ = json.Unmarshal(permsRaw, &perms)
	}

	s.mu.Lock()
	s.token = string(token)
	s.user = user
	s.perms = perms
	s.mu.Unlock()
	return nil
}

// Init starts a session and persists it.
func (s *Store) Init(ctx context.Context, token string, user models.User, perms models.Permissions) error {
	if perms == nil {
		perms = models.Permissions{}
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.perms = perms
	s.mu.Unlock()

	if err := s.repo.Set(ctx, KeyToken, []byte(token)); err != nil {
		return err
	}
	return s.persistProfile(ctx, user, perms)
}

// Refresh replaces user and permissions, keeping the token.
func (s *Store) Refresh(ctx context.Context, user models.User, perms models.Permissions) error {
	if perms == nil {
		perms = models.Permissions{}
	}
	s.mu.Lock()
	s.user = &user
	s.perms = perms
	s.mu.Unlock()

	return s.persistProfile(ctx, user, perms)
}

func (s *Store) persistProfile(ctx context.Context, user models.User, perms models.Permissions) error {
	userRaw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	permsRaw, err := json.Marshal(perms)
	if err != nil {
		return fmt.Errorf("encode permissions: %w", err)
	}
	if err := s.repo.Set(ctx, KeyUser, userRaw); err != nil {
		return err
	}
	return s.repo.Set(ctx, KeyPermissions, permsRaw)
}

// Clear drops the session from memory and storage. The in-memory state
// is cleared even when storage fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.perms = models.Permissions{}
	s.mu.Unlock()

	for _, k := range []string{KeyToken, KeyUser, KeyPermissions} {
		if err := s.repo.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, nil when signed out.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Permissions returns a copy of the permission map.
func (s *Store) Permissions() models.Permissions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(models.Permissions, len(s.perms))
	for k, v := range s.perms {
		out[k] = v
	}
	return out
}

// IsAuthenticated needs both a token and a user.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// Can reports a permission; unknown keys are false.
func (s *Store) Can(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.perms[key]
}

func (s *Store) IsAdmin() bool      { return s.Can(models.PermIsAdmin) }
func (s *Store) IsNormalUser() bool { return s.Can(models.PermIsNormalUser) }

func (s *Store) CanCreateCorrespondence() bool { return s.Can(models.PermCanCreateCorrespondence) }
func (s *Store) CanEditCorrespondence() bool   { return s.Can(models.PermCanEditCorrespondence) }
func (s *Store) CanDeleteCorrespondence() bool { return s.Can(models.PermCanDeleteCorrespondence) }
func (s *Store) CanManageUsers() bool          { return s.Can(models.PermCanManageUsers) }
func (s *Store) CanViewReports() bool          { return s.Can(models.PermCanViewReports) }
func (s *Store) CanManagePermits() bool        { return s.Can(models.PermCanManagePermits) }

// Role defaults to the normal role.
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.Role == "" {
		return "normal"
	}
	return s.user.Role
}

func (s *Store) RoleDisplay() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.RoleDisplay == "" {
		return DefaultRoleDisplay
	}
	return s.user.RoleDisplay
}
