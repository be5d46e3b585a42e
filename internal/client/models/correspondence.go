package models

import "time"

// CorrespondenceType is a letter category.
type CorrespondenceType struct {
	ID       int64  `json:"correspondence_type_id"`
	TypeName string `json:"type_name"`
	Category string `json:"category,omitempty"`
}

// Procedure is one step of a type's workflow.
type Procedure struct {
	ID                     int64  `json:"id"`
	ProcedureName          string `json:"procedure_name"`
	Description            string `json:"description"`
	ProcedureOrder         int    `json:"procedure_order"`
	IsInitial              bool   `json:"is_initial"`
	IsFinal                bool   `json:"is_final"`
	CorrespondenceType     int64  `json:"correspondence_type"`
	CorrespondenceTypeName string `json:"correspondence_type_name,omitempty"`
}

// Contact is an addressee or sender of correspondence.
type Contact struct {
	ID          int64  `json:"contact_id"`
	Name        string `json:"name"`
	CompanyName string `json:"company_name,omitempty"`
	ContactType string `json:"contact_type,omitempty"`
	IsApprover  bool   `json:"is_approver"`
}

// Attachment is a stored file of a letter.
type Attachment struct {
	ID             int64     `json:"attachment_id"`
	Correspondence int64     `json:"correspondence"`
	File           string    `json:"file,omitempty"`
	FileName       string    `json:"file_name"`
	FileType       string    `json:"file_type,omitempty"`
	FileSize       int64     `json:"file_size"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

// StatusLog records one workflow transition; never edited.
type StatusLog struct {
	ID                int64     `json:"id"`
	Correspondence    int64     `json:"correspondence"`
	FromStatus        *int64    `json:"from_status"`
	ToStatus          *int64    `json:"to_status"`
	ChangedBy         *int64    `json:"changed_by"`
	ChangedByUsername string    `json:"changed_by_username,omitempty"`
	ChangeReason      string    `json:"change_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Correspondence is a letter as read from the API. Related objects arrive
// nested; the flattened *_name fields mirror them for tables.
type Correspondence struct {
	ID                   int64               `json:"correspondence_id"`
	ReferenceNumber      string              `json:"reference_number"`
	CorrespondenceDate   string              `json:"correspondence_date"`
	Type                 *CorrespondenceType `json:"type"`
	TypeName             string              `json:"type_name,omitempty"`
	Subject              string              `json:"subject"`
	Direction            string              `json:"direction"`
	Priority             string              `json:"priority"`
	Summary              string              `json:"summary"`
	CurrentStatus        *Procedure          `json:"current_status"`
	CurrentStatusName    string              `json:"current_status_name,omitempty"`
	AssignedTo           *User               `json:"assigned_to"`
	Contact              *Contact            `json:"contact"`
	ContactName          string              `json:"contact_name,omitempty"`
	ParentCorrespondence *int64              `json:"parent_correspondence"`
	Attachments          []Attachment        `json:"attachments,omitempty"`
	StatusLogs           []StatusLog         `json:"status_logs,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// CorrespondenceInput is the write shape: relations are ids.
type CorrespondenceInput struct {
	ReferenceNumber      string `json:"reference_number"`
	CorrespondenceDate   string `json:"correspondence_date"`
	Type                 *int64 `json:"type"`
	Subject              string `json:"subject"`
	Direction            string `json:"direction"`
	Priority             string `json:"priority"`
	Summary              string `json:"summary"`
	CurrentStatus        *int64 `json:"current_status"`
	AssignedTo           *int64 `json:"assigned_to"`
	Contact              *int64 `json:"contact"`
	ParentCorrespondence *int64 `json:"parent_correspondence"`
}

// CreatedCorrespondence covers both create response shapes:
// {correspondence: {...}} and the bare object.
type CreatedCorrespondence struct {
	Correspondence *Correspondence `json:"correspondence,omitempty"`
	ID             int64           `json:"correspondence_id,omitempty"`
}

// LetterID returns whichever id the server sent.
func (c CreatedCorrespondence) LetterID() int64 {
	if c.Correspondence != nil && c.Correspondence.ID != 0 {
		return c.Correspondence.ID
	}
	return c.ID
}

// FieldUpdate is the body of PATCH /api/correspondence/{id}/update-field/.
type FieldUpdate struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// ExtractedAttachment is one file pulled out of an Outlook message.
// Data is hex encoded.
type ExtractedAttachment struct {
	Name     string `json:"name"`
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// ProcessMsgResponse is returned by POST /api/process-msg/.
type ProcessMsgResponse struct {
	Success     bool                  `json:"success"`
	Attachments []ExtractedAttachment `json:"attachments"`
	EmailInfo   *EmailInfo            `json:"email_info,omitempty"`
	Message     string                `json:"message,omitempty"`
	Error       string                `json:"error,omitempty"`
}

// EmailInfo is the header summary of a processed message.
type EmailInfo struct {
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}

// FieldUpdateResult is the updated letter plus the procedures of its type.
type FieldUpdateResult struct {
	Correspondence
	AvailableProcedures []Procedure `json:"available_procedures"`
}

// LetterDetail is the one-call detail view of a letter.
type LetterDetail struct {
	Letter                Correspondence       `json:"letter"`
	StatusHistory         []StatusLog          `json:"status_history"`
	RelatedCorrespondence []Correspondence     `json:"related_correspondence"`
	CorrespondenceTypes   []CorrespondenceType `json:"correspondence_types"`
	Contacts              []Contact            `json:"contacts"`
	Procedures            []Procedure          `json:"procedures"`
}

// UploadResult is returned by the attachment upload.
type UploadResult struct {
	Attachments []Attachment `json:"attachments"`
	Message     string       `json:"message,omitempty"`
}
