package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
)

// Collection paths.
const (
	PathCorrespondence = "correspondence/"
	PathTypes          = "correspondence-types/"
	PathProcedures     = "correspondence-procedures/"
	PathContacts       = "contacts/"
	PathAttachments    = "attachments/"
	PathProcessMsg     = "process-msg/"
)

func item(path string, id int64) string {
	return fmt.Sprintf("%s%d/", path, id)
}

// Letters lists correspondence. Rows stay loosely typed for the table.
func (c *Client) Letters(ctx context.Context, p ListParams) (*models.Page[models.Record], error) {
	return List[models.Record](ctx, c, PathCorrespondence, p)
}

func (c *Client) Letter(ctx context.Context, id int64) (*models.Correspondence, error) {
	var out models.Correspondence
	if err := c.Get(ctx, item(PathCorrespondence, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LetterDetail fetches a letter with history, relations and lookups.
func (c *Client) LetterDetail(ctx context.Context, id int64) (*models.LetterDetail, error) {
	var out models.LetterDetail
	if err := c.Get(ctx, item(PathCorrespondence, id)+"detail-with-relations/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateLetter(ctx context.Context, in models.CorrespondenceInput) (*models.CreatedCorrespondence, error) {
	var out models.CreatedCorrespondence
	if err := c.Post(ctx, PathCorrespondence, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateLetter(ctx context.Context, id int64, in models.CorrespondenceInput) (*models.Correspondence, error) {
	var out models.Correspondence
	if err := c.Put(ctx, item(PathCorrespondence, id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLetterField patches a single field; used by inline edits.
func (c *Client) UpdateLetterField(ctx context.Context, id int64, field string, value any) (*models.FieldUpdateResult, error) {
	var out models.FieldUpdateResult
	body := map[string]any{field: value}
	if err := c.Patch(ctx, item(PathCorrespondence, id)+"update-field/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLetter(ctx context.Context, id int64) error {
	return c.Delete(ctx, item(PathCorrespondence, id))
}

func (c *Client) Types(ctx context.Context) ([]models.CorrespondenceType, error) {
	return All[models.CorrespondenceType](ctx, c, PathTypes, ListParams{PageSize: 100})
}

func (c *Client) CreateType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, error) {
	var out models.CorrespondenceType
	if err := c.Post(ctx, PathTypes, t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, error) {
	var out models.CorrespondenceType
	if err := c.Put(ctx, item(PathTypes, t.ID), t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteType(ctx context.Context, id int64) error {
	return c.Delete(ctx, item(PathTypes, id))
}

// Procedures lists the procedures of one type (typeID 0 lists all),
// ordered by procedure_order.
func (c *Client) Procedures(ctx context.Context, typeID int64) ([]models.Procedure, error) {
	p := ListParams{PageSize: 100, Ordering: "procedure_order"}
	if typeID != 0 {
		p.Extra = url.Values{"correspondence_type": {fmt.Sprint(typeID)}}
	}
	return All[models.Procedure](ctx, c, PathProcedures, p)
}

func (c *Client) CreateProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, error) {
	var out models.Procedure
	if err := c.Post(ctx, PathProcedures, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProcedure sends the full record.
func (c *Client) UpdateProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, error) {
	var out models.Procedure
	if err := c.Put(ctx, item(PathProcedures, p.ID), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProcedure(ctx context.Context, id int64) error {
	return c.Delete(ctx, item(PathProcedures, id))
}

func (c *Client) Contacts(ctx context.Context) ([]models.Contact, error) {
	return All[models.Contact](ctx, c, PathContacts, ListParams{PageSize: 100})
}

func (c *Client) Approvers(ctx context.Context) ([]models.Contact, error) {
	return All[models.Contact](ctx, c, PathContacts+"approvers/", ListParams{})
}

func (c *Client) CreateContact(ctx context.Context, ct models.Contact) (*models.Contact, error) {
	var out models.Contact
	if err := c.Post(ctx, PathContacts, ct, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateContact(ctx context.Context, ct models.Contact) (*models.Contact, error) {
	var out models.Contact
	if err := c.Put(ctx, item(PathContacts, ct.ID), ct, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	return c.Delete(ctx, item(PathContacts, id))
}

// UploadAttachments stores files against a letter.
func (c *Client) UploadAttachments(ctx context.Context, letterID int64, files []File) (*models.UploadResult, error) {
	var out models.UploadResult
	fields := map[string]string{"correspondence": fmt.Sprint(letterID)}
	if err := c.Upload(ctx, PathAttachments, fields, "file", files, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Attachments(ctx context.Context, letterID int64) ([]models.Attachment, error) {
	p := ListParams{Extra: url.Values{"correspondence": {fmt.Sprint(letterID)}}}
	return All[models.Attachment](ctx, c, PathAttachments, p)
}

func (c *Client) DeleteAttachment(ctx context.Context, id int64) error {
	return c.Delete(ctx, item(PathAttachments, id))
}

// ProcessMsg sends an Outlook message and returns the files inside it.
func (c *Client) ProcessMsg(ctx context.Context, f File) (*models.ProcessMsgResponse, error) {
	var out models.ProcessMsgResponse
	if err := c.Upload(ctx, PathProcessMsg, nil, "file", []File{f}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
