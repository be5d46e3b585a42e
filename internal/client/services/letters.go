package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/client/api"
	"github.com/dmitrijs2005/secdesk/internal/client/apierr"
	"github.com/dmitrijs2005/secdesk/internal/client/letters"
	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/client/table"
	"github.com/dmitrijs2005/secdesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

// LettersAPI is the part of the REST client the letter service needs.
type LettersAPI interface {
	Letters(ctx context.Context, p api.ListParams) (*models.Page[models.Record], error)
	LetterDetail(ctx context.Context, id int64) (*models.LetterDetail, error)
	CreateLetter(ctx context.Context, in models.CorrespondenceInput) (*models.CreatedCorrespondence, error)
	UpdateLetterField(ctx context.Context, id int64, field string, value any) (*models.FieldUpdateResult, error)
	DeleteLetter(ctx context.Context, id int64) error
	UploadAttachments(ctx context.Context, letterID int64, files []api.File) (*models.UploadResult, error)
	ProcessMsg(ctx context.Context, f api.File) (*models.ProcessMsgResponse, error)
	Types(ctx context.Context) ([]models.CorrespondenceType, error)
	Procedures(ctx context.Context, typeID int64) ([]models.Procedure, error)
	Contacts(ctx context.Context) ([]models.Contact, error)
}

// Capabilities are the permission checks the letter service consults.
type Capabilities interface {
	CanCreateCorrespondence() bool
	CanEditCorrespondence() bool
	CanDeleteCorrespondence() bool
}

// Lookups are the reference lists the letter form offers.
type Lookups struct {
	Types      []models.CorrespondenceType
	Procedures []models.Procedure
	Contacts   []models.Contact
	Parents    []models.Record
}

// ProceduresOf returns the procedures of typeID.
func (l Lookups) ProceduresOf(typeID int64) []models.Procedure {
	var out []models.Procedure
	for _, p := range l.Procedures {
		if p.CorrespondenceType == typeID {
			out = append(out, p)
		}
	}
	return out
}

// SubmitResult is a created letter.
type SubmitResult struct {
	LetterID    int64
	Attachments []models.Attachment
	Message     string
}

// SubmitError carries the message shown to the user. LetterID is set
// when the letter was created and then rolled back.
type SubmitError struct {
	Message  string
	LetterID int64
	Err      error
}

func (e *SubmitError) Error() string { return e.Message }
func (e *SubmitError) Unwrap() error { return e.Err }

const parentLookupSize = 100

// relationFields are update-field targets that take an id.
var relationFields = map[string]bool{
	"type":                  true,
	"current_status":        true,
	"contact":               true,
	"assigned_to":           true,
	"parent_correspondence": true,
}

// LetterService manages incoming letters.
type LetterService interface {
	List(ctx context.Context, p api.ListParams) (*models.Page[models.Record], error)
	Detail(ctx context.Context, id int64) (*models.LetterDetail, error)
	LoadLookups(ctx context.Context) (*Lookups, error)
	AddFiles(ctx context.Context, form *letters.Form, files []letters.Attachment) letters.IntakeReport
	Submit(ctx context.Context, form *letters.Form) (*SubmitResult, error)
	SaveField(ctx context.Context, id int64, field, value string) table.SaveResult
	Delete(ctx context.Context, id int64) error
}

type letterService struct {
	api    LettersAPI
	caps   Capabilities
	intake *letters.Intake
	logger logging.Logger
}

func NewLetterService(a LettersAPI, caps Capabilities, logger logging.Logger) LetterService {
	return &letterService{
		api:    a,
		caps:   caps,
		intake: letters.NewIntake(a, logger),
		logger: logger,
	}
}

func (s *letterService) List(ctx context.Context, p api.ListParams) (*models.Page[models.Record], error) {
	return s.api.Letters(ctx, p)
}

func (s *letterService) Detail(ctx context.Context, id int64) (*models.LetterDetail, error) {
	return s.api.LetterDetail(ctx, id)
}

// LoadLookups fetches the form's reference lists in parallel. Types are
// narrowed to the form's category.
func (s *letterService) LoadLookups(ctx context.Context) (*Lookups, error) {
	var l Lookups
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		types, err := s.api.Types(gctx)
		if err != nil {
			return fmt.Errorf("load types: %w", err)
		}
		l.Types = letters.TypesInCategory(types, letters.DefaultTypeCategory)
		return nil
	})
	g.Go(func() error {
		procs, err := s.api.Procedures(gctx, 0)
		if err != nil {
			return fmt.Errorf("load procedures: %w", err)
		}
		l.Procedures = procs
		return nil
	})
	g.Go(func() error {
		contacts, err := s.api.Contacts(gctx)
		if err != nil {
			return fmt.Errorf("load contacts: %w", err)
		}
		l.Contacts = contacts
		return nil
	})
	g.Go(func() error {
		page, err := s.api.Letters(gctx, api.ListParams{
			PageSize: parentLookupSize,
			Ordering: "-correspondence_date",
		})
		if err != nil {
			return fmt.Errorf("load letters: %w", err)
		}
		l.Parents = page.Results
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *letterService) AddFiles(ctx context.Context, form *letters.Form, files []letters.Attachment) letters.IntakeReport {
	return s.intake.Add(ctx, form, files)
}

// Submit creates the letter and uploads its attachments. Nothing is sent
// when the form is invalid. When the upload fails the new letter is
// deleted once; a failing delete is only logged.
func (s *letterService) Submit(ctx context.Context, form *letters.Form) (*SubmitResult, error) {
	if !s.caps.CanCreateCorrespondence() {
		return nil, &SubmitError{Message: letters.MsgNoCreatePermission}
	}
	if err := form.Validate(); err != nil {
		return nil, &SubmitError{Message: err.Error(), Err: err}
	}

	created, err := s.api.CreateLetter(ctx, form.Input())
	if err != nil {
		return nil, &SubmitError{Message: apierr.Message(err), Err: err}
	}
	id := created.LetterID()

	up, err := s.api.UploadAttachments(ctx, id, letters.Files(form.Attachments))
	if err != nil {
		s.rollback(ctx, id)
		return nil, &SubmitError{
			Message:  fmt.Sprintf(MsgUploadFailedFmt, apierr.AttachmentMessage(err)),
			LetterID: id,
			Err:      err,
		}
	}

	s.logger.Info(ctx, "letter created", "id", id, "attachments", len(up.Attachments))
	return &SubmitResult{LetterID: id, Attachments: up.Attachments, Message: MsgLetterSaved}, nil
}

func (s *letterService) rollback(ctx context.Context, id int64) {
	if id == 0 {
		return
	}
	if err := s.api.DeleteLetter(ctx, id); err != nil {
		s.logger.Error(ctx, "rollback of letter failed", "id", id, "error", err)
		return
	}
	s.logger.Warn(ctx, "letter rolled back after failed upload", "id", id)
}

// SaveField commits one inline edit through the update-field endpoint.
// Relation fields take an id; an empty value clears them.
func (s *letterService) SaveField(ctx context.Context, id int64, field, value string) table.SaveResult {
	if !s.caps.CanEditCorrespondence() {
		return table.SaveResult{Error: MsgNoEditPermission}
	}

	var v any = value
	if relationFields[field] {
		value = strings.TrimSpace(value)
		if value == "" {
			v = nil
		} else {
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return table.SaveResult{Error: apierr.MsgBadInput}
			}
			v = n
		}
	}

	res, err := s.api.UpdateLetterField(ctx, id, field, v)
	if err != nil {
		return table.SaveResult{Error: apierr.Message(err)}
	}

	rec, err := toRecord(res.Correspondence)
	if err != nil {
		s.logger.Warn(ctx, "decode updated letter", "error", err)
		return table.SaveResult{Success: true}
	}
	return table.SaveResult{Success: true, Record: rec}
}

func (s *letterService) Delete(ctx context.Context, id int64) error {
	if !s.caps.CanDeleteCorrespondence() {
		return &SubmitError{Message: MsgNoDeletePermission}
	}
	return s.api.DeleteLetter(ctx, id)
}

// toRecord re-reads v as a loosely typed row.
func toRecord(v any) (models.Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec models.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
