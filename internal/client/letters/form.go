// Package letters holds the state of the incoming-letter form: field
// values, lookup-driven defaults, validation and the attachment intake
// that turns dropped files (including Outlook messages) into attachments.
package letters

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/filex"
)

// DefaultTypeCategory is the type category offered by the form.
const DefaultTypeCategory = "Russian"

// defaultContactHint selects the default addressee.
const defaultContactHint = "ase"

// Attachment is a file waiting to be uploaded with the letter.
type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

func (a Attachment) Size() int64 { return int64(len(a.Data)) }

// Form is the letter being composed.
type Form struct {
	ReferenceNumber      string
	Date                 string
	ParentCorrespondence *int64
	Type                 int64
	Subject              string
	Priority             string
	Summary              string
	CurrentStatus        int64
	Contact              int64
	Attachments          []Attachment
}

// NewForm returns an empty form dated today.
func NewForm(now time.Time) *Form {
	return &Form{
		Date:     now.Format(time.DateOnly),
		Priority: common.PriorityNormal,
	}
}

// Reset clears the form and re-applies the default contact.
func (f *Form) Reset(now time.Time, contacts []models.Contact) {
	*f = *NewForm(now)
	f.Contact = DefaultContact(contacts)
}

// SelectType sets the type and, when the type has an initial procedure,
// makes it the current status.
func (f *Form) SelectType(typeID int64, procedures []models.Procedure) {
	f.Type = typeID
	if typeID == 0 {
		return
	}
	if p, ok := InitialProcedure(typeID, procedures); ok {
		f.CurrentStatus = p.ID
	}
}

// ApplyLetterName fills reference, date and subject from a conventional
// file name. The form is untouched when the name does not parse.
func (f *Form) ApplyLetterName(name string) bool {
	ln, ok := filex.ParseLetterName(name)
	if !ok {
		return false
	}
	if ln.ReferenceNumber != "" {
		f.ReferenceNumber = ln.ReferenceNumber
	}
	if ln.Date != "" {
		f.Date = ln.Date
	}
	if ln.Subject != "" {
		f.Subject = ln.Subject
	}
	return true
}

// AddAttachments appends files.
func (f *Form) AddAttachments(files ...Attachment) {
	f.Attachments = append(f.Attachments, files...)
}

// RemoveAttachment drops the i-th file; out of range is a no-op.
func (f *Form) RemoveAttachment(i int) {
	if i < 0 || i >= len(f.Attachments) {
		return
	}
	f.Attachments = append(f.Attachments[:i], f.Attachments[i+1:]...)
}

// Input is the create payload. Letters from this form are always incoming
// and start unassigned.
func (f *Form) Input() models.CorrespondenceInput {
	in := models.CorrespondenceInput{
		ReferenceNumber:      strings.TrimSpace(f.ReferenceNumber),
		CorrespondenceDate:   f.Date,
		Subject:              strings.TrimSpace(f.Subject),
		Direction:            common.DirectionIncoming,
		Priority:             f.Priority,
		Summary:              f.Summary,
		ParentCorrespondence: f.ParentCorrespondence,
		AssignedTo:           nil,
	}
	in.Type = optionalID(f.Type)
	in.CurrentStatus = optionalID(f.CurrentStatus)
	in.Contact = optionalID(f.Contact)
	return in
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// InitialProcedure finds the first procedure of typeID flagged initial.
func InitialProcedure(typeID int64, procedures []models.Procedure) (models.Procedure, bool) {
	for _, p := range procedures {
		if p.CorrespondenceType == typeID && p.IsInitial {
			return p, true
		}
	}
	return models.Procedure{}, false
}

// DefaultContact is the first contact whose name or company contains
// "ase", case-insensitively; 0 when none does.
func DefaultContact(contacts []models.Contact) int64 {
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), defaultContactHint) ||
			strings.Contains(strings.ToLower(c.CompanyName), defaultContactHint) {
			return c.ID
		}
	}
	return 0
}

// TypesInCategory keeps the types tagged category.
func TypesInCategory(types []models.CorrespondenceType, category string) []models.CorrespondenceType {
	out := make([]models.CorrespondenceType, 0, len(types))
	for _, t := range types {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// SearchParents returns letters whose reference or subject contains term.
// An empty term matches nothing.
func SearchParents(letters []models.Record, term string, limit int) []models.Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var out []models.Record
	for _, l := range letters {
		if strings.Contains(strings.ToLower(l.String("reference_number")), term) ||
			strings.Contains(strings.ToLower(l.String("subject")), term) {
			out = append(out, l)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}
