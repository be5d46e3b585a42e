package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/lettertypes"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/procedures"
)

func (s *Server) listTypes(w http.ResponseWriter, r *http.Request) {
	serveList(s, w, r, lettertypes.Spec, s.svc.Workflow.Types)
}

func (s *Server) getType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	t, err := s.svc.Workflow.Type(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createType(w http.ResponseWriter, r *http.Request) {
	var t models.CorrespondenceType
	if !readJSON(w, r, &t) {
		return
	}
	out, err := s.svc.Workflow.CreateType(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) updateType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var t models.CorrespondenceType
	if !readJSON(w, r, &t) {
		return
	}
	t.ID = id

	out, err := s.svc.Workflow.UpdateType(r.Context(), t)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Workflow.DeleteType(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProcedures(w http.ResponseWriter, r *http.Request) {
	serveList(s, w, r, procedures.Spec, s.svc.Workflow.Procedures)
}

func (s *Server) getProcedure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := s.svc.Workflow.Procedure(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProcedure(w http.ResponseWriter, r *http.Request) {
	var p models.Procedure
	if !readJSON(w, r, &p) {
		return
	}
	out, err := s.svc.Workflow.CreateProcedure(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// updateProcedure replaces a step. Reordering clients send one of these
// per step.
func (s *Server) updateProcedure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var p models.Procedure
	if !readJSON(w, r, &p) {
		return
	}
	p.ID = id

	out, err := s.svc.Workflow.UpdateProcedure(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteProcedure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Workflow.DeleteProcedure(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
