package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/filex"
	"github.com/dmitrijs2005/secdesk/internal/logging"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secdesk/internal/server/storage"
)

type LetterService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	logger      logging.Logger
}

func NewLetterService(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, logger logging.Logger) *LetterService {
	return &LetterService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger,
	}
}

func (s *LetterService) List(ctx context.Context, l query.List) ([]models.Correspondence, int, error) {
	return s.repomanager.Letters(s.db).List(ctx, l)
}

// Get returns a letter with its attachments.
func (s *LetterService) Get(ctx context.Context, id int64) (*models.Correspondence, error) {
	return s.load(ctx, s.db, id)
}

func (s *LetterService) load(ctx context.Context, db dbx.DBTX, id int64) (*models.Correspondence, error) {
	c, err := s.repomanager.Letters(db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	atts, err := s.repomanager.Attachments(db).ByLetter(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Attachments = withURLs(ctx, s.store, s.logger, atts)
	return c, nil
}

// Create stores a new letter. A status is logged when the letter starts
// with one.
func (s *LetterService) Create(ctx context.Context, user *models.User, in models.CorrespondenceInput) (*models.Correspondence, error) {
	in = normalize(in)
	if err := validateLetter(in, 0); err != nil {
		return nil, err
	}

	var id int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if in, err = s.checkStatus(ctx, tx, in); err != nil {
			return err
		}
		if id, err = s.repomanager.Letters(tx).Create(ctx, in); err != nil {
			return err
		}
		if in.CurrentStatus != nil {
			return s.logStatus(ctx, tx, user, id, nil, in.CurrentStatus, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Update replaces every writable field of a letter.
func (s *LetterService) Update(ctx context.Context, user *models.User, id int64, in models.CorrespondenceInput) (*models.FieldUpdateResult, error) {
	in = normalize(in)
	if err := validateLetter(in, id); err != nil {
		return nil, err
	}
	return s.save(ctx, user, id, func(models.CorrespondenceInput) (models.CorrespondenceInput, error) {
		return in, nil
	})
}

// UpdateField changes the named fields only. Values are JSON; relation
// ids may be numbers, numeric strings or null.
func (s *LetterService) UpdateField(ctx context.Context, user *models.User, id int64, fields map[string]json.RawMessage) (*models.FieldUpdateResult, error) {
	if len(fields) == 0 {
		return nil, fieldError(NonFieldErrors, "No field to update.")
	}
	return s.save(ctx, user, id, func(cur models.CorrespondenceInput) (models.CorrespondenceInput, error) {
		verr := &ValidationError{}
		for name, raw := range fields {
			if err := applyField(&cur, name, raw); err != nil {
				verr.Add(name, err.Error())
			}
		}
		if err := verr.Err(); err != nil {
			return cur, err
		}
		cur = normalize(cur)
		return cur, validateLetter(cur, id)
	})
}

// save loads the letter, lets change produce the new input, keeps the
// status consistent with the type and logs status transitions, all in one
// transaction. The result carries the procedures of the letter's type.
func (s *LetterService) save(ctx context.Context, user *models.User, id int64,
	change func(models.CorrespondenceInput) (models.CorrespondenceInput, error)) (*models.FieldUpdateResult, error) {

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Letters(tx)
		cur, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		old := cur.Input()

		in, err := change(old)
		if err != nil {
			return err
		}
		if in, err = s.checkStatus(ctx, tx, in); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, in); err != nil {
			return err
		}
		if !sameID(old.CurrentStatus, in.CurrentStatus) {
			return s.logStatus(ctx, tx, user, id, old.CurrentStatus, in.CurrentStatus, "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &models.FieldUpdateResult{Correspondence: c, AvailableProcedures: []models.Procedure{}}
	if c.Type != nil {
		if res.AvailableProcedures, err = s.repomanager.Procedures(s.db).ByType(ctx, c.Type.ID); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Delete removes a letter, its history and its attachments. Stored files
// are removed after the rows; failures there are only logged.
func (s *LetterService) Delete(ctx context.Context, id int64) error {
	atts, err := s.repomanager.Attachments(s.db).ByLetter(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repomanager.Letters(s.db).Delete(ctx, id); err != nil {
		return err
	}
	for _, a := range atts {
		if err := s.store.Delete(ctx, a.StorageKey); err != nil {
			s.logger.Warn(ctx, "attachment object not removed", "key", a.StorageKey, "err", err)
		}
	}
	return nil
}

// Detail gathers everything the letter screen shows in one call.
func (s *LetterService) Detail(ctx context.Context, id int64) (*models.LetterDetail, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Letters(s.db)
	history, err := repo.StatusLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := repo.Children(ctx, id)
	if err != nil {
		return nil, err
	}

	related := append([]models.Correspondence{}, children...)
	var siblings []models.Correspondence
	if c.ParentCorrespondence != nil {
		if siblings, err = repo.Siblings(ctx, id, *c.ParentCorrespondence); err != nil {
			return nil, err
		}
		related = append(related, siblings...)

		parent, err := repo.Get(ctx, *c.ParentCorrespondence)
		switch {
		case err == nil:
			related = append(related, *parent)
		case !errors.Is(err, common.ErrorNotFound):
			return nil, err
		}
	}

	types, err := s.repomanager.Types(s.db).All(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.repomanager.Contacts(s.db).All(ctx)
	if err != nil {
		return nil, err
	}
	procedures := []models.Procedure{}
	if c.Type != nil {
		if procedures, err = s.repomanager.Procedures(s.db).ByType(ctx, c.Type.ID); err != nil {
			return nil, err
		}
	}

	return &models.LetterDetail{
		Letter:                c,
		StatusHistory:         history,
		RelatedCorrespondence: related,
		CorrespondenceTypes:   types,
		Contacts:              contacts,
		Procedures:            procedures,
		Metadata: models.DetailMetadata{
			HasParent:     c.ParentCorrespondence != nil,
			ChildrenCount: len(children),
			SiblingsCount: len(siblings),
			TotalRelated:  len(related),
		},
	}, nil
}

// FilenameParse is the result of reading letter fields off a file name.
type FilenameParse struct {
	Success bool          `json:"success"`
	Parsed  bool          `json:"parsed"`
	Method  string        `json:"method,omitempty"`
	Data    *FilenameData `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
}

type FilenameData struct {
	ReferenceNumber    string `json:"reference_number"`
	CorrespondenceDate string `json:"correspondence_date"`
	Subject            string `json:"subject"`
}

// ParseFilename reads reference number, date and subject from the name
// of a scanned letter.
func (s *LetterService) ParseFilename(name string) (*FilenameParse, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fieldError("filename", "This field is required.")
	}
	ln, ok := filex.ParseLetterName(name)
	if !ok {
		return &FilenameParse{Success: true, Parsed: false, Message: "Filename does not match the expected pattern"}, nil
	}
	return &FilenameParse{
		Success: true,
		Parsed:  true,
		Method:  "regex",
		Data: &FilenameData{
			ReferenceNumber:    ln.ReferenceNumber,
			CorrespondenceDate: ln.Date,
			Subject:            ln.Subject,
		},
	}, nil
}

// checkStatus clears a status that does not belong to the letter's type.
func (s *LetterService) checkStatus(ctx context.Context, tx dbx.DBTX, in models.CorrespondenceInput) (models.CorrespondenceInput, error) {
	if in.CurrentStatus == nil {
		return in, nil
	}
	p, err := s.repomanager.Procedures(tx).Get(ctx, *in.CurrentStatus)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return in, fieldError("current_status", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *in.CurrentStatus))
		}
		return in, err
	}
	if in.Type == nil || p.CorrespondenceType != *in.Type {
		in.CurrentStatus = nil
	}
	return in, nil
}

func (s *LetterService) logStatus(ctx context.Context, tx dbx.DBTX, user *models.User, letterID int64, from, to *int64, reason string) error {
	entry := &models.StatusLog{
		Correspondence: letterID,
		FromStatus:     from,
		ToStatus:       to,
		ChangeReason:   reason,
	}
	if user != nil {
		entry.ChangedBy = &user.ID
	}
	return s.repomanager.Letters(tx).AddStatusLog(ctx, entry)
}

var (
	directions = []string{common.DirectionIncoming, common.DirectionOutgoing, common.DirectionInternal}
	priorities = []string{common.PriorityHigh, common.PriorityNormal, common.PriorityLow}
)

// normalize trims text and turns an empty date into no date.
func normalize(in models.CorrespondenceInput) models.CorrespondenceInput {
	in.ReferenceNumber = strings.TrimSpace(in.ReferenceNumber)
	in.Subject = strings.TrimSpace(in.Subject)
	if in.CorrespondenceDate != nil {
		d := strings.TrimSpace(*in.CorrespondenceDate)
		if d == "" {
			in.CorrespondenceDate = nil
		} else {
			in.CorrespondenceDate = &d
		}
	}
	if in.Priority == "" {
		in.Priority = common.PriorityNormal
	}
	return in
}

func validateLetter(in models.CorrespondenceInput, id int64) error {
	verr := &ValidationError{}
	if !contains(directions, in.Direction) {
		verr.Add("direction", fmt.Sprintf("\"%s\" is not a valid choice.", in.Direction))
	}
	if !contains(priorities, in.Priority) {
		verr.Add("priority", fmt.Sprintf("\"%s\" is not a valid choice.", in.Priority))
	}
	if in.CorrespondenceDate != nil {
		if _, err := time.Parse(time.DateOnly, *in.CorrespondenceDate); err != nil {
			verr.Add("correspondence_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		}
	}
	if id != 0 && in.ParentCorrespondence != nil && *in.ParentCorrespondence == id {
		verr.Add("parent_correspondence", "A letter cannot be its own parent.")
	}
	return verr.Err()
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func applyField(in *models.CorrespondenceInput, name string, raw json.RawMessage) error {
	var err error
	switch name {
	case "reference_number":
		in.ReferenceNumber, err = decodeText(raw)
	case "subject":
		in.Subject, err = decodeText(raw)
	case "direction":
		in.Direction, err = decodeText(raw)
	case "priority":
		in.Priority, err = decodeText(raw)
	case "summary":
		in.Summary, err = decodeText(raw)
	case "correspondence_date":
		var d string
		d, err = decodeText(raw)
		in.CorrespondenceDate = &d
	case "type":
		in.Type, err = decodeID(raw)
	case "current_status":
		in.CurrentStatus, err = decodeID(raw)
	case "assigned_to":
		in.AssignedTo, err = decodeID(raw)
	case "contact":
		in.Contact, err = decodeID(raw)
	case "parent_correspondence":
		in.ParentCorrespondence, err = decodeID(raw)
	default:
		return fmt.Errorf("Field %q cannot be updated.", name)
	}
	return err
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeText(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.New("Not a valid string.")
	}
	return s, nil
}

func decodeID(raw json.RawMessage) (*int64, error) {
	if isNull(raw) {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.New("Incorrect type.")
	}

	var id int64
	switch t := v.(type) {
	case float64:
		id = int64(t)
		if float64(id) != t {
			return nil, errors.New("Incorrect type. Expected pk value.")
		}
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, nil
		}
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, errors.New("Incorrect type. Expected pk value.")
		}
		id = n
	default:
		return nil, errors.New("Incorrect type. Expected pk value.")
	}
	if id <= 0 {
		return nil, errors.New("Invalid pk.")
	}
	return &id, nil
}

// withURLs fills the download links of atts. A link that cannot be made
// is left empty.
func withURLs(ctx context.Context, store storage.Store, logger logging.Logger, atts []models.Attachment) []models.Attachment {
	for i := range atts {
		u, err := store.URL(ctx, atts[i].StorageKey)
		if err != nil {
			logger.Warn(ctx, "download link not created", "key", atts[i].StorageKey, "err", err)
			continue
		}
		atts[i].File = u
	}
	return atts
}
