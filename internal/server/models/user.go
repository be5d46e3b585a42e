// Package models holds the server-side records and their JSON shapes.
package models

import (
	"time"

	"github.com/dmitrijs2005/secdesk/internal/common"
)

// User is an account. PasswordHash and TokenVersion never leave the server.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	Email          string    `db:"email" json:"email"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	FullNameArabic string    `db:"full_name_arabic" json:"full_name_arabic"`
	Department     string    `db:"department" json:"department"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	Role           string    `db:"role" json:"role"`
	RoleDisplay    string    `db:"-" json:"role_display"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	IsSuperuser    bool      `db:"is_superuser" json:"is_superuser"`
	TokenVersion   int64     `db:"token_version" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"date_joined"`
}

var roleDisplay = map[string]string{
	common.RoleAdmin:  "Administrator",
	common.RoleNormal: "Normal User",
}

// FillDisplay sets the derived display fields.
func (u *User) FillDisplay() {
	u.RoleDisplay = roleDisplay[u.Role]
}

func (u *User) IsAdmin() bool      { return u.Role == common.RoleAdmin || u.IsSuperuser }
func (u *User) IsNormalUser() bool { return u.Role == common.RoleNormal }

// Permissions is the flat capability map sent to clients. Inactive users
// get only the role flags.
func (u *User) Permissions() map[string]bool {
	admin := u.IsAdmin()
	normal := u.IsNormalUser()
	return map[string]bool{
		"can_create_correspondence": u.IsActive && (admin || normal),
		"can_edit_correspondence":   u.IsActive && admin,
		"can_delete_correspondence": u.IsActive && admin,
		"can_manage_users":          u.IsActive && admin,
		"can_view_reports":          u.IsActive && (admin || normal),
		"can_manage_permits":        u.IsActive && admin,
		"is_admin":                  admin,
		"is_normal_user":            normal,
	}
}

// ProfileUpdate carries the self-editable fields; nil means unchanged.
type ProfileUpdate struct {
	Email          *string `json:"email"`
	FullNameArabic *string `json:"full_name_arabic"`
	Department     *string `json:"department"`
	PhoneNumber    *string `json:"phone_number"`
}

// Apply copies the set fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{p.Email, &u.Email},
		{p.FullNameArabic, &u.FullNameArabic},
		{p.Department, &u.Department},
		{p.PhoneNumber, &u.PhoneNumber},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
}
