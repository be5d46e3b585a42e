package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// Messages of the generic error bodies.
const (
	MsgNotFound        = "Not found."
	MsgInvalidPage     = "Invalid page."
	MsgNoCredentials   = "Authentication credentials were not provided."
	MsgInvalidToken    = "Invalid token."
	MsgTokenExpired    = "Token has expired."
	MsgForbidden       = "You do not have permission to perform this action."
	MsgServerError     = "A server error occurred."
	MsgTooLarge        = "Request entity too large."
	MsgBadJSON         = "JSON parse error."
	MsgUnsupportedType = "Unsupported media type in request."
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// readJSON decodes the body of r into v. A failure has already been
// answered when it returns false.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		writeJSON(w, http.StatusBadRequest, map[string][]string{services.NonFieldErrors: {"No data provided."}})
	default:
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeDetail(w, http.StatusRequestEntityTooLarge, MsgTooLarge)
			return false
		}
		writeDetail(w, http.StatusBadRequest, MsgBadJSON)
	}
	return false
}

// statusOf maps a sentinel error kind to a response status.
func statusOf(kind error) int {
	switch {
	case errors.Is(kind, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(kind, common.ErrorUnauthorized),
		errors.Is(kind, common.ErrInvalidToken),
		errors.Is(kind, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(kind, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(kind, common.ErrorValidation),
		errors.Is(kind, common.ErrorAlreadyExists),
		errors.Is(kind, common.ErrorConstraint):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError answers err in the body shape its kind calls for. Unknown
// errors are logged and hidden behind a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *services.ValidationError
		fail *services.Failure
		cerr *dberr.ConstraintError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.As(err, &fail):
		writeJSON(w, statusOf(fail.Kind), map[string]string{"error": fail.Message})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusBadRequest, map[string][]string{services.NonFieldErrors: {cerr.Detail}})
	case errors.Is(err, query.ErrInvalidPage):
		writeDetail(w, http.StatusNotFound, MsgInvalidPage)
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, MsgNotFound)
	case errors.Is(err, common.ErrTokenExpired):
		writeDetail(w, http.StatusUnauthorized, MsgTokenExpired)
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		writeDetail(w, http.StatusUnauthorized, MsgInvalidToken)
	case errors.Is(err, common.ErrorForbidden):
		writeDetail(w, http.StatusForbidden, MsgForbidden)
	case errors.Is(err, common.ErrorValidation):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeDetail(w, http.StatusInternalServerError, MsgServerError)
	}
}

// pathID reads a positive integer URL parameter. A bad value is answered
// with 404, matching an unknown id.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeDetail(w, http.StatusNotFound, MsgNotFound)
		return 0, false
	}
	return id, true
}

// newPage builds the collection envelope. next/previous are absolute
// links that keep every other query parameter of r.
func newPage[T any](r *http.Request, l query.List, items []T, total int) (*models.Page[T], error) {
	if l.Page > 1 && l.Offset() >= total {
		return nil, query.ErrInvalidPage
	}
	if items == nil {
		items = []T{}
	}

	p := &models.Page[T]{Count: total, Results: items}
	if l.Offset()+len(items) < total {
		p.Next = pageLink(r, l.Page+1)
	}
	if l.Page > 1 {
		p.Previous = pageLink(r, l.Page-1)
	}
	return p, nil
}

func pageLink(r *http.Request, page int) *string {
	u := url.URL{Scheme: "http", Host: r.Host, Path: r.URL.Path}
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		u.Scheme = p
	}

	q := r.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	s := u.String()
	return &s
}

// paginate slices an in-memory collection the way a query would.
func paginate[T any](items []T, l query.List) []T {
	start := min(l.Offset(), len(items))
	end := min(start+l.PageSize, len(items))
	return items[start:end]
}

// serveList parses the collection query of r against spec, runs fetch and
// writes the page.
func serveList[T any](s *Server, w http.ResponseWriter, r *http.Request, spec query.Spec,
	fetch func(ctx context.Context, l query.List) ([]T, int, error)) {

	l, err := query.Parse(r.URL.Query(), spec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, total, err := fetch(r.Context(), l)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := newPage(r, l, items, total)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
