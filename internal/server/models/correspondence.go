package models

import "time"

type CorrespondenceType struct {
	ID       int64  `db:"correspondence_type_id" json:"correspondence_type_id"`
	TypeName string `db:"type_name" json:"type_name"`
	Category string `db:"category" json:"category"`
}

// Procedure is one ordered step of a type's workflow.
type Procedure struct {
	ID                     int64     `db:"id" json:"id"`
	CorrespondenceType     int64     `db:"correspondence_type" json:"correspondence_type"`
	CorrespondenceTypeName string    `db:"correspondence_type_name" json:"correspondence_type_name"`
	ProcedureName          string    `db:"procedure_name" json:"procedure_name"`
	Description            string    `db:"description" json:"description"`
	ProcedureOrder         int       `db:"procedure_order" json:"procedure_order"`
	IsInitial              bool      `db:"is_initial" json:"is_initial"`
	IsFinal                bool      `db:"is_final" json:"is_final"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

type Contact struct {
	ID          int64  `db:"contact_id" json:"contact_id"`
	Name        string `db:"name" json:"name"`
	CompanyName string `db:"company_name" json:"company_name"`
	ContactType string `db:"contact_type" json:"contact_type"`
	IsApprover  bool   `db:"is_approver" json:"is_approver"`
}

// Attachment is a stored file. File holds a download URL when the
// record is presented, StorageKey the object key.
type Attachment struct {
	ID             int64     `db:"attachment_id" json:"attachment_id"`
	Correspondence int64     `db:"correspondence" json:"correspondence"`
	StorageKey     string    `db:"storage_key" json:"-"`
	File           string    `db:"-" json:"file"`
	FileName       string    `db:"file_name" json:"file_name"`
	FileType       string    `db:"file_type" json:"file_type"`
	FileSize       int64     `db:"file_size" json:"file_size"`
	UploadedAt     time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// StatusLog is one workflow transition of a letter. Rows are never updated.
type StatusLog struct {
	ID                int64     `db:"id" json:"id"`
	Correspondence    int64     `db:"correspondence" json:"correspondence"`
	FromStatus        *int64    `db:"from_status" json:"from_status"`
	FromStatusName    string    `db:"from_status_name" json:"from_status_name"`
	ToStatus          *int64    `db:"to_status" json:"to_status"`
	ToStatusName      string    `db:"to_status_name" json:"to_status_name"`
	ChangedBy         *int64    `db:"changed_by" json:"changed_by"`
	ChangedByUsername string    `db:"changed_by_username" json:"changed_by_username"`
	ChangeReason      string    `db:"change_reason" json:"change_reason"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// UserRef is the nested user of a letter.
type UserRef struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FullNameArabic string `json:"full_name_arabic"`
}

// Correspondence is the read shape of a letter: relations nested, with
// flattened copies of their display fields for tables. The parent stays
// an id.
type Correspondence struct {
	ID                            int64               `json:"correspondence_id"`
	ReferenceNumber               string              `json:"reference_number"`
	CorrespondenceDate            *string             `json:"correspondence_date"`
	Type                          *CorrespondenceType `json:"type"`
	TypeName                      string              `json:"type_name"`
	Subject                       string              `json:"subject"`
	Direction                     string              `json:"direction"`
	Priority                      string              `json:"priority"`
	Summary                       string              `json:"summary"`
	CurrentStatus                 *Procedure          `json:"current_status"`
	CurrentStatusName             string              `json:"current_status_name"`
	AssignedTo                    *UserRef            `json:"assigned_to"`
	AssignedToUsername            string              `json:"assigned_to_username"`
	AssignedToFullName            string              `json:"assigned_to_full_name"`
	Contact                       *Contact            `json:"contact"`
	ContactName                   string              `json:"contact_name"`
	ParentCorrespondence          *int64              `json:"parent_correspondence"`
	ParentCorrespondenceReference string              `json:"parent_correspondence_reference"`
	Attachments                   []Attachment        `json:"attachments"`
	CreatedAt                     time.Time           `json:"created_at"`
	UpdatedAt                     time.Time           `json:"updated_at"`
}

// CorrespondenceInput is the write shape: relations are ids, nil clears.
type CorrespondenceInput struct {
	ReferenceNumber      string  `json:"reference_number"`
	CorrespondenceDate   *string `json:"correspondence_date"`
	Type                 *int64  `json:"type"`
	Subject              string  `json:"subject"`
	Direction            string  `json:"direction"`
	Priority             string  `json:"priority"`
	Summary              string  `json:"summary"`
	CurrentStatus        *int64  `json:"current_status"`
	AssignedTo           *int64  `json:"assigned_to"`
	Contact              *int64  `json:"contact"`
	ParentCorrespondence *int64  `json:"parent_correspondence"`
}

// Input returns the write shape of c.
func (c *Correspondence) Input() CorrespondenceInput {
	in := CorrespondenceInput{
		ReferenceNumber:    c.ReferenceNumber,
		CorrespondenceDate: c.CorrespondenceDate,
		Subject:            c.Subject,
		Direction:          c.Direction,
		Priority:           c.Priority,
		Summary:            c.Summary,
	}
	if c.Type != nil {
		in.Type = &c.Type.ID
	}
	if c.CurrentStatus != nil {
		in.CurrentStatus = &c.CurrentStatus.ID
	}
	if c.AssignedTo != nil {
		in.AssignedTo = &c.AssignedTo.ID
	}
	if c.Contact != nil {
		in.Contact = &c.Contact.ID
	}
	in.ParentCorrespondence = c.ParentCorrespondence
	return in
}

// FieldUpdateResult is a letter plus the procedures of its type.
type FieldUpdateResult struct {
	*Correspondence
	AvailableProcedures []Procedure `json:"available_procedures"`
}

// DetailMetadata summarises the relations of a detail view.
type DetailMetadata struct {
	HasParent     bool `json:"has_parent"`
	ChildrenCount int  `json:"children_count"`
	SiblingsCount int  `json:"siblings_count"`
	TotalRelated  int  `json:"total_related"`
}

// LetterDetail is the one-call detail view of a letter.
type LetterDetail struct {
	Letter                *Correspondence      `json:"letter"`
	StatusHistory         []StatusLog          `json:"status_history"`
	RelatedCorrespondence []Correspondence     `json:"related_correspondence"`
	CorrespondenceTypes   []CorrespondenceType `json:"correspondence_types"`
	Contacts              []Contact            `json:"contacts"`
	Procedures            []Procedure          `json:"procedures"`
	Metadata              DetailMetadata       `json:"metadata"`
}

// ExtractedAttachment is one file pulled out of an Outlook message, hex
// encoded for JSON.
type ExtractedAttachment struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

type EmailInfo struct {
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}

type ProcessMsgResult struct {
	Success     bool                  `json:"success"`
	Attachments []ExtractedAttachment `json:"attachments"`
	EmailInfo   EmailInfo             `json:"email_info"`
	Message     string                `json:"message"`
}

// Page is the paginated collection envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
