package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/client/apierr"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/common"
)

// loginError is a failed sign-in as the operator should read it.
type loginError struct {
	err error
}

func (e *loginError) Error() string { return apierr.LoginMessage(e.err) }
func (e *loginError) Unwrap() error { return e.err }

// Login prompts for credentials and signs in. The password is wiped
// before returning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "اسم المستخدم", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "كلمة المرور")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	remember, err := getSimpleText(a.reader, "تذكرني؟ (y/n)", a.out)
	if err != nil {
		return err
	}

	resp, err := a.auth.Login(ctx, username, string(password), strings.EqualFold(remember, "y"))
	if err != nil {
		a.logger.Info(ctx, "login unsuccessful", "user", username, "error", err)
		if _, ok := apierr.As(err); ok {
			return &loginError{err: err}
		}
		return err
	}

	name := resp.User.FullNameArabic
	if name == "" {
		name = resp.User.Username
	}
	printlnFn(fmt.Sprintf("مرحباً %s (%s)", name, a.store.RoleDisplay()))
	return nil
}

// Logout notifies the server and always clears the local session.
func (a *App) Logout(ctx context.Context) error {
	a.setView(nil)
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("تم تسجيل الخروج")
	return nil
}

// Whoami prints the signed-in user and the granted capabilities.
func (a *App) Whoami(ctx context.Context) error {
	if err := a.auth.RefreshPermissions(ctx); err != nil {
		a.logger.Warn(ctx, "refresh permissions", "error", err)
	}

	u := a.store.User()
	if u == nil {
		return fmt.Errorf("not signed in")
	}
	printlnFn(fmt.Sprintf("%s  %s  %s", u.Username, u.FullNameArabic, a.store.RoleDisplay()))

	caps := []struct {
		label string
		ok    bool
	}{
		{"إنشاء خطابات", a.store.CanCreateCorrespondence()},
		{"تعديل خطابات", a.store.CanEditCorrespondence()},
		{"حذف خطابات", a.store.CanDeleteCorrespondence()},
		{"إدارة المستخدمين", a.store.CanManageUsers()},
		{"عرض التقارير", a.store.CanViewReports()},
		{"إدارة التصاريح", a.store.CanManagePermits()},
	}
	for _, c := range caps {
		mark := "✗"
		if c.ok {
			mark = "✓"
		}
		printlnFn(fmt.Sprintf("  %s %s", mark, c.label))
	}
	return nil
}

// Password changes the password of the signed-in user.
func (a *App) Password(ctx context.Context) error {
	oldPw, err := getPassword(a.out, "كلمة المرور الحالية")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPw)

	newPw, err := getPassword(a.out, "كلمة المرور الجديدة")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPw)

	msg, err := a.auth.ChangePassword(ctx, string(oldPw), string(newPw))
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

// Profile edits the user's own profile fields.
func (a *App) Profile(ctx context.Context) error {
	u := a.store.User()
	if u == nil {
		return fmt.Errorf("not signed in")
	}

	var upd models.ProfileUpdate
	fields := []struct {
		label string
		cur   string
		dst   **string
	}{
		{"الاسم بالعربية", u.FullNameArabic, &upd.FullNameArabic},
		{"البريد الإلكتروني", u.Email, &upd.Email},
		{"القسم", u.Department, &upd.Department},
		{"رقم الهاتف", u.PhoneNumber, &upd.PhoneNumber},
	}

	// Only changed fields are sent.
	for _, f := range fields {
		v, err := GetDefault(a.reader, f.label, f.cur, a.out)
		if err != nil {
			return err
		}
		if v != f.cur {
			*f.dst = &v
		}
	}

	if _, err := a.auth.UpdateProfile(ctx, upd); err != nil {
		return err
	}
	printlnFn("تم تحديث الملف الشخصي")
	return nil
}
