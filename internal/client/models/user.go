// Package models holds the JSON shapes exchanged with the secdesk REST API.
package models

// User is the account behind a session.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	FullNameArabic string `json:"full_name_arabic,omitempty"`
	Department     string `json:"department,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Role           string `json:"role"`
	RoleDisplay    string `json:"role_display,omitempty"`
	IsActive       bool   `json:"is_active"`
	IsSuperuser    bool   `json:"is_superuser,omitempty"`
}

// DisplayName prefers the Arabic full name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullNameArabic != "" {
		return u.FullNameArabic
	}
	return u.Username
}

// Permission keys as sent by the server.
const (
	PermIsAdmin                 = "is_admin"
	PermIsNormalUser            = "is_normal_user"
	PermCanCreateCorrespondence = "can_create_correspondence"
	PermCanEditCorrespondence   = "can_edit_correspondence"
	PermCanDeleteCorrespondence = "can_delete_correspondence"
	PermCanManageUsers          = "can_manage_users"
	PermCanViewReports          = "can_view_reports"
	PermCanManagePermits        = "can_manage_permits"
)

// Permissions is the flat capability map attached to a session.
type Permissions map[string]bool

// LoginRequest is the body of POST /api/auth/login/.
type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User        User        `json:"user"`
	Token       string      `json:"token"`
	Message     string      `json:"message,omitempty"`
	Permissions Permissions `json:"permissions"`
}

// AuthStatus is returned by GET /api/auth/check/.
type AuthStatus struct {
	Authenticated bool        `json:"authenticated"`
	User          User        `json:"user"`
	Permissions   Permissions `json:"permissions"`
}

// ChangePasswordRequest is the body of POST /api/auth/change-password/.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Email          *string `json:"email,omitempty"`
	FullNameArabic *string `json:"full_name_arabic,omitempty"`
	Department     *string `json:"department,omitempty"`
	PhoneNumber    *string `json:"phone_number,omitempty"`
}

// Message is the {message} / {error} envelope used by several endpoints.
type Message struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
