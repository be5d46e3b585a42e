package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/letters"
)

func (s *Server) listLetters(w http.ResponseWriter, r *http.Request) {
	serveList(s, w, r, letters.Spec, s.svc.Letters.List)
}

func (s *Server) createLetter(w http.ResponseWriter, r *http.Request) {
	var in models.CorrespondenceInput
	if !readJSON(w, r, &in) {
		return
	}

	c, err := s.svc.Letters.Create(r.Context(), userFrom(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "letter created", "id", c.ID, "user_id", userFrom(r.Context()).ID)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) getLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := s.svc.Letters.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.CorrespondenceInput
	if !readJSON(w, r, &in) {
		return
	}

	res, err := s.svc.Letters.Update(r.Context(), userFrom(r.Context()), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// updateLetterField takes {field: value, ...} and answers the saved letter
// with the procedures of its type.
func (s *Server) updateLetterField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var fields map[string]json.RawMessage
	if !readJSON(w, r, &fields) {
		return
	}

	res, err := s.svc.Letters.UpdateField(r.Context(), userFrom(r.Context()), id, fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) deleteLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Letters.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "letter deleted", "id", id, "user_id", userFrom(r.Context()).ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) letterDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	d, err := s.svc.Letters.Detail(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) parseFilename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename string `json:"filename"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	res, err := s.svc.Letters.ParseFilename(req.Filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
