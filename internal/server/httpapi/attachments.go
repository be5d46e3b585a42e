package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/secdesk/internal/server/services"
)

const (
	// maxFilesPerUpload bounds one multipart upload together with maxUpload.
	maxFilesPerUpload = 20
	// multipartMemory is kept in memory; larger parts spill to disk.
	multipartMemory = 32 << 20
)

func (s *Server) listAttachments(w http.ResponseWriter, r *http.Request) {
	serveList(s, w, r, attachments.Spec, s.svc.Attachments.List)
}

// parseMultipart reads a multipart body of at most limit bytes. A failure
// has already been answered when it returns false.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeDetail(w, http.StatusUnsupportedMediaType, MsgUnsupportedType)
		return false
	}
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeDetail(w, http.StatusRequestEntityTooLarge, MsgTooLarge)
			return false
		}
		writeDetail(w, http.StatusBadRequest, "Multipart form parse error.")
		return false
	}
	return true
}

func (s *Server) uploadAttachments(w http.ResponseWriter, r *http.Request) {
	limit := int64(0)
	if s.maxUpload > 0 {
		limit = s.maxUpload*maxFilesPerUpload + 1<<20
	}
	if !s.parseMultipart(w, r, limit) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	raw := strings.TrimSpace(r.FormValue("correspondence"))
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"correspondence": {"This field is required."}})
		return
	}
	letterID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || letterID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"correspondence": {"Incorrect type. Expected pk value."}})
		return
	}

	headers := r.MultipartForm.File["file"]
	files := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			s.writeError(w, r, fmt.Errorf("error opening part %s: %w", fh.Filename, err))
			return
		}
		defer f.Close()
		files = append(files, upload(fh, f))
	}

	out, err := s.svc.Attachments.Upload(r.Context(), letterID, files)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "attachments uploaded", "letter_id", letterID, "count", len(out))
	writeJSON(w, http.StatusCreated, map[string]any{
		"attachments": out,
		"message":     fmt.Sprintf("Successfully uploaded %d files", len(out)),
	})
}

func upload(fh *multipart.FileHeader, body io.Reader) services.Upload {
	return services.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        body,
	}
}

func (s *Server) deleteAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.svc.Attachments.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// processMsg extracts the files of one uploaded Outlook message.
func (s *Server) processMsg(w http.ResponseWriter, r *http.Request) {
	limit := int64(0)
	if s.maxUpload > 0 {
		limit = s.maxUpload + 1<<20
	}
	if !s.parseMultipart(w, r, limit) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, fh, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": services.MsgNoFile})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("error reading %s: %w", fh.Filename, err))
		return
	}

	res, err := s.svc.Attachments.ProcessMsg(r.Context(), fh.Filename, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
