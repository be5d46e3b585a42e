package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/contacts"
)

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	serveList(s, w, r, contacts.Spec, s.svc.Contacts.List)
}

// approvers is not paginated.
func (s *Server) approvers(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Contacts.Approvers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := s.svc.Contacts.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	var c models.Contact
	if !readJSON(w, r, &c) {
		return
	}
	out, err := s.svc.Contacts.Create(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var c models.Contact
	if !readJSON(w, r, &c) {
		return
	}
	c.ID = id

	out, err := s.svc.Contacts.Update(r.Context(), c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Contacts.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
