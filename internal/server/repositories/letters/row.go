package letters

import (
	"database/sql"
	"time"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
)

// row is the flat join of a letter and its relations.
type row struct {
	ID              int64     `db:"correspondence_id"`
	ReferenceNumber string    `db:"reference_number"`
	Date            *string   `db:"correspondence_date"`
	Subject         string    `db:"subject"`
	Direction       string    `db:"direction"`
	Priority        string    `db:"priority"`
	Summary         string    `db:"summary"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`

	ParentID        *int64 `db:"parent_correspondence"`
	ParentReference string `db:"parent_reference"`

	TypeID       *int64 `db:"type_id"`
	TypeName     string `db:"type_name"`
	TypeCategory string `db:"type_category"`

	StatusID          *int64       `db:"status_id"`
	StatusType        *int64       `db:"status_type"`
	StatusName        string       `db:"status_name"`
	StatusDescription string       `db:"status_description"`
	StatusOrder       int          `db:"status_order"`
	StatusInitial     bool         `db:"status_initial"`
	StatusFinal       bool         `db:"status_final"`
	StatusCreatedAt   sql.NullTime `db:"status_created_at"`
	StatusUpdatedAt   sql.NullTime `db:"status_updated_at"`

	AssignedID       *int64 `db:"assigned_id"`
	AssignedUsername string `db:"assigned_username"`
	AssignedFullName string `db:"assigned_full_name"`

	ContactID         *int64 `db:"contact_id"`
	ContactName       string `db:"contact_name"`
	ContactCompany    string `db:"contact_company"`
	ContactType       string `db:"contact_type"`
	ContactIsApprover bool   `db:"contact_is_approver"`
}

func (r row) letter() models.Correspondence {
	c := models.Correspondence{
		ID:                            r.ID,
		ReferenceNumber:               r.ReferenceNumber,
		CorrespondenceDate:            r.Date,
		Subject:                       r.Subject,
		Direction:                     r.Direction,
		Priority:                      r.Priority,
		Summary:                       r.Summary,
		ParentCorrespondence:          r.ParentID,
		ParentCorrespondenceReference: r.ParentReference,
		TypeName:                      r.TypeName,
		CurrentStatusName:             r.StatusName,
		AssignedToUsername:            r.AssignedUsername,
		AssignedToFullName:            r.AssignedFullName,
		ContactName:                   r.ContactName,
		Attachments:                   []models.Attachment{},
		CreatedAt:                     r.CreatedAt,
		UpdatedAt:                     r.UpdatedAt,
	}

	if r.TypeID != nil {
		c.Type = &models.CorrespondenceType{ID: *r.TypeID, TypeName: r.TypeName, Category: r.TypeCategory}
	}
	if r.StatusID != nil {
		p := &models.Procedure{
			ID:                     *r.StatusID,
			CorrespondenceTypeName: r.TypeName,
			ProcedureName:          r.StatusName,
			Description:            r.StatusDescription,
			ProcedureOrder:         r.StatusOrder,
			IsInitial:              r.StatusInitial,
			IsFinal:                r.StatusFinal,
			CreatedAt:              r.StatusCreatedAt.Time,
			UpdatedAt:              r.StatusUpdatedAt.Time,
		}
		if r.StatusType != nil {
			p.CorrespondenceType = *r.StatusType
		}
		c.CurrentStatus = p
	}
	if r.AssignedID != nil {
		c.AssignedTo = &models.UserRef{ID: *r.AssignedID, Username: r.AssignedUsername, FullNameArabic: r.AssignedFullName}
	}
	if r.ContactID != nil {
		c.Contact = &models.Contact{ID: *r.ContactID, Name: r.ContactName, CompanyName: r.ContactCompany,
			ContactType: r.ContactType, IsApprover: r.ContactIsApprover}
	}
	return c
}

func letters(rows []row) []models.Correspondence {
	out := make([]models.Correspondence, len(rows))
	for i, r := range rows {
		out[i] = r.letter()
	}
	return out
}
