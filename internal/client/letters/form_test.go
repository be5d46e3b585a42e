package letters

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 7, 22, 10, 0, 0, 0, time.UTC)

func TestNewForm_Defaults(t *testing.T) {
	f := NewForm(day)
	assert.Equal(t, "2025-07-22", f.Date)
	assert.Equal(t, "normal", f.Priority)
	assert.Zero(t, f.Type)
	assert.Empty(t, f.Attachments)
}

func TestSelectType_PicksInitialProcedure(t *testing.T) {
	procs := []models.Procedure{
		{ID: 10, CorrespondenceType: 1, IsInitial: true},
		{ID: 20, CorrespondenceType: 2, ProcedureOrder: 1},
		{ID: 21, CorrespondenceType: 2, ProcedureOrder: 2, IsInitial: true},
	}

	f := NewForm(day)
	f.SelectType(2, procs)
	assert.Equal(t, int64(2), f.Type)
	assert.Equal(t, int64(21), f.CurrentStatus)

	f.CurrentStatus = 0
	f.SelectType(3, procs)
	assert.Equal(t, int64(3), f.Type)
	assert.Zero(t, f.CurrentStatus)
}

func TestApplyLetterName(t *testing.T) {
	f := NewForm(day)
	require.True(t, f.ApplyLetterName("7612 dd 22072025_Example Subject.pdf"))
	assert.Equal(t, "7612", f.ReferenceNumber)
	assert.Equal(t, "2025-07-22", f.Date)
	assert.Equal(t, "Example Subject", f.Subject)

	before := *f
	assert.False(t, f.ApplyLetterName("scan-0001.pdf"))
	assert.Empty(t, cmp.Diff(before, *f))
}

func TestDefaultContact(t *testing.T) {
	contacts := []models.Contact{
		{ID: 1, Name: "Rosatom"},
		{ID: 2, Name: "Site office", CompanyName: "ASE JSC"},
		{ID: 3, Name: "ase branch"},
	}
	assert.Equal(t, int64(2), DefaultContact(contacts))
	assert.Zero(t, DefaultContact(contacts[:1]))
}

func TestReset_ReappliesDefaultContact(t *testing.T) {
	f := NewForm(day)
	f.Subject = "x"
	f.AddAttachments(Attachment{Name: "a"})

	f.Reset(day.AddDate(0, 0, 1), []models.Contact{{ID: 9, Name: "ASE"}})
	assert.Empty(t, f.Subject)
	assert.Empty(t, f.Attachments)
	assert.Equal(t, "2025-07-23", f.Date)
	assert.Equal(t, int64(9), f.Contact)
}

func TestInput_ForcesIncomingAndUnassigned(t *testing.T) {
	parent := int64(4)
	f := NewForm(day)
	f.ReferenceNumber = " 7612 "
	f.Subject = "Visit"
	f.Type = 2
	f.Contact = 9
	f.ParentCorrespondence = &parent

	in := f.Input()
	assert.Equal(t, "Incoming", in.Direction)
	assert.Nil(t, in.AssignedTo)
	assert.Nil(t, in.CurrentStatus)
	assert.Equal(t, "7612", in.ReferenceNumber)
	require.NotNil(t, in.Type)
	assert.Equal(t, int64(2), *in.Type)
	assert.Equal(t, int64(9), *in.Contact)
	assert.Equal(t, &parent, in.ParentCorrespondence)
}

func TestValidate(t *testing.T) {
	f := NewForm(day)
	f.Date = ""

	err := f.Validate()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{
		MsgReferenceRequired, MsgDateRequired, MsgTypeRequired,
		MsgSubjectRequired, MsgContactRequired, MsgAttachmentRequired,
	}, ve.Messages)
	assert.Equal(t, MsgReferenceRequired+" • "+MsgDateRequired+" • "+MsgTypeRequired+" • "+
		MsgSubjectRequired+" • "+MsgContactRequired+" • "+MsgAttachmentRequired, err.Error())
}

func TestValidate_OnlyAttachmentMissing(t *testing.T) {
	f := completeForm()
	f.Attachments = nil

	err := f.Validate()
	require.Error(t, err)
	assert.Equal(t, MsgAttachmentRequired, err.Error())

	f.AddAttachments(Attachment{Name: "a.pdf", Data: []byte("x")})
	assert.NoError(t, f.Validate())
}

func TestRemoveAttachment(t *testing.T) {
	f := NewForm(day)
	f.AddAttachments(Attachment{Name: "a"}, Attachment{Name: "b"}, Attachment{Name: "c"})
	f.RemoveAttachment(1)
	f.RemoveAttachment(7)
	require.Len(t, f.Attachments, 2)
	assert.Equal(t, "c", f.Attachments[1].Name)
}

func TestTypesInCategory(t *testing.T) {
	types := []models.CorrespondenceType{
		{ID: 1, TypeName: "Visa", Category: "Russian"},
		{ID: 2, TypeName: "Memo", Category: "Internal"},
	}
	got := TypesInCategory(types, DefaultTypeCategory)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestSearchParents(t *testing.T) {
	letters := []models.Record{
		{"correspondence_id": 1.0, "reference_number": "7612", "subject": "Access"},
		{"correspondence_id": 2.0, "reference_number": "100", "subject": "Vehicle ACCESS"},
		{"correspondence_id": 3.0, "reference_number": "5", "subject": "Other"},
	}
	assert.Len(t, SearchParents(letters, "access", 0), 2)
	assert.Len(t, SearchParents(letters, "access", 1), 1)
	assert.Len(t, SearchParents(letters, "761", 0), 1)
	assert.Nil(t, SearchParents(letters, "  ", 0))
}

func completeForm() *Form {
	f := NewForm(day)
	f.ReferenceNumber = "1"
	f.Subject = "s"
	f.Type = 1
	f.Contact = 1
	f.AddAttachments(Attachment{Name: "a.pdf", Data: []byte("%PDF")})
	return f
}
