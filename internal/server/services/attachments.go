package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/filex"
	"github.com/dmitrijs2005/secdesk/internal/logging"
	"github.com/dmitrijs2005/secdesk/internal/server/config"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/outlook"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secdesk/internal/server/storage"
)

// Messages of the upload and .msg endpoints.
const (
	MsgNoFile     = "No file provided"
	MsgNotMsgFile = "File must be a .msg file"
)

// Upload is one received file.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	logger      logging.Logger
	maxSize     int64
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, cfg *config.Config, logger logging.Logger) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger,
		maxSize:     cfg.MaxUploadBytes,
	}
}

func (s *AttachmentService) List(ctx context.Context, l query.List) ([]models.Attachment, int, error) {
	atts, total, err := s.repomanager.Attachments(s.db).List(ctx, l)
	if err != nil {
		return nil, 0, err
	}
	return withURLs(ctx, s.store, s.logger, atts), total, nil
}

// Upload stores files against a letter. Files are stored one by one; the
// ones saved before a failure are kept.
func (s *AttachmentService) Upload(ctx context.Context, letterID int64, files []Upload) ([]models.Attachment, error) {
	if len(files) == 0 {
		return nil, fail(common.ErrorValidation, MsgNoFile)
	}
	if _, err := s.repomanager.Letters(s.db).Get(ctx, letterID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fieldError("correspondence", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", letterID))
		}
		return nil, err
	}

	verr := &ValidationError{}
	for _, f := range files {
		if s.maxSize > 0 && f.Size > s.maxSize {
			verr.Add("file", fmt.Sprintf("%s: File too large. Maximum size is %s.", f.Name, filex.HumanSize(s.maxSize)))
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Attachment, 0, len(files))
	for _, f := range files {
		a, err := s.put(ctx, letterID, f)
		if err != nil {
			return out, err
		}
		out = append(out, *a)
	}
	return withURLs(ctx, s.store, s.logger, out), nil
}

func (s *AttachmentService) put(ctx context.Context, letterID int64, f Upload) (*models.Attachment, error) {
	key := storage.NewKey(letterID, f.Name)
	ct := f.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = filex.DetectMime(f.Name, nil)
	}

	if err := s.store.Put(ctx, key, f.Body, f.Size, ct); err != nil {
		return nil, fmt.Errorf("error storing %s: %w", f.Name, err)
	}

	a, err := s.repomanager.Attachments(s.db).Create(ctx, &models.Attachment{
		Correspondence: letterID,
		StorageKey:     key,
		FileName:       f.Name,
		FileType:       ct,
		FileSize:       f.Size,
	})
	if err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.logger.Warn(ctx, "orphaned attachment object", "key", key, "err", derr)
		}
		return nil, err
	}
	return a, nil
}

func (s *AttachmentService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Attachments(s.db)
	a, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, a.StorageKey); err != nil {
		s.logger.Warn(ctx, "attachment object not removed", "key", a.StorageKey, "err", err)
	}
	return nil
}

// ProcessMsg extracts the files of an Outlook message. Nothing is stored;
// the client uploads the files it keeps.
func (s *AttachmentService) ProcessMsg(ctx context.Context, name string, data []byte) (*models.ProcessMsgResult, error) {
	if len(data) == 0 {
		return nil, fail(common.ErrorValidation, MsgNoFile)
	}
	if !filex.IsOutlookMessage(name) {
		return nil, fail(common.ErrorValidation, MsgNotMsgFile)
	}

	msg, err := outlook.Parse(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn(ctx, "msg not processed", "file", name, "err", err)
		return nil, fail(common.ErrorValidation, "Failed to process .msg file: "+err.Error())
	}

	res := &models.ProcessMsgResult{
		Success:     true,
		Attachments: make([]models.ExtractedAttachment, 0, len(msg.Attachments)),
		EmailInfo: models.EmailInfo{
			Subject: msg.Subject,
			Sender:  msg.Sender,
			Body:    msg.Body,
		},
	}
	if !msg.Date.IsZero() {
		res.EmailInfo.Date = msg.Date.Format(time.DateTime)
	}

	for _, a := range msg.Attachments {
		mt := strings.TrimSpace(a.MimeType)
		if mt == "" {
			mt = filex.DetectMime(a.Name, a.Data)
		}
		res.Attachments = append(res.Attachments, models.ExtractedAttachment{
			Name:     a.Name,
			Size:     int64(len(a.Data)),
			Data:     hex.EncodeToString(a.Data),
			MimeType: mt,
		})
	}
	res.Message = fmt.Sprintf("Successfully extracted %d attachments", len(res.Attachments))
	return res, nil
}
