package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/services"
)

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type loginResponse struct {
	User        *models.User    `json:"user"`
	Token       string          `json:"token"`
	Message     string          `json:"message"`
	Permissions map[string]bool `json:"permissions"`
}

type authStatus struct {
	Authenticated bool            `json:"authenticated"`
	User          *models.User    `json:"user"`
	Permissions   map[string]bool `json:"permissions"`
}

type changePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !readJSON(w, r, &req) {
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res.User.FillDisplay()
	s.logger.Info(r.Context(), "user logged in", "user_id", res.User.ID)
	writeJSON(w, http.StatusOK, loginResponse{
		User:        res.User,
		Token:       res.Token,
		Message:     services.MsgLoggedIn,
		Permissions: res.User.Permissions(),
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Auth.Logout(r.Context(), userFrom(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, services.MsgLoggedOut)
}

func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	u.FillDisplay()
	writeJSON(w, http.StatusOK, authStatus{Authenticated: true, User: u, Permissions: u.Permissions()})
}

func (s *Server) permissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()).Permissions())
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	u.FillDisplay()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if !readJSON(w, r, &upd) {
		return
	}

	u, err := s.svc.Auth.UpdateProfile(r.Context(), userFrom(r.Context()), upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u, "message": services.MsgProfileUpdated})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !readJSON(w, r, &req) {
		return
	}

	err := s.svc.Auth.ChangePassword(r.Context(), userFrom(r.Context()), req.OldPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, services.MsgPasswordChanged)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	l, err := query.Parse(r.URL.Query(), query.Spec{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	all, err := s.svc.Auth.Users(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	for i := range all {
		all[i].FillDisplay()
	}

	page, err := newPage(r, l, paginate(all, l), len(all))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Auth.DeleteUser(r.Context(), userFrom(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
