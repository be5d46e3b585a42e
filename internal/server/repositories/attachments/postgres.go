// Package attachments stores attachment metadata in PostgreSQL. The file
// bytes live in object storage under StorageKey.
package attachments

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

const (
	selectAttachments = `SELECT a.attachment_id, a.correspondence, a.storage_key, a.file_name, a.file_type,
		a.file_size, a.uploaded_at FROM attachments a`
	countAttachments = `SELECT COUNT(*) FROM attachments a`
)

var Spec = query.Spec{
	Fields: map[string]string{
		"attachment_id":  "a.attachment_id",
		"correspondence": "a.correspondence",
		"file_name":      "a.file_name",
		"file_type":      "a.file_type",
		"file_size":      "a.file_size",
		"uploaded_at":    "a.uploaded_at",
	},
	Search:   []string{"a.file_name"},
	Default:  "a.uploaded_at DESC",
	Tiebreak: "a.attachment_id DESC",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, l query.List) ([]models.Attachment, int, error) {
	return query.Fetch[models.Attachment](ctx, r.db, l, Spec, selectAttachments, countAttachments)
}

func (r *PostgresRepository) ByLetter(ctx context.Context, letterID int64) ([]models.Attachment, error) {
	return query.Rows[models.Attachment](ctx, r.db,
		selectAttachments+` WHERE a.correspondence = $1 ORDER BY a.uploaded_at, a.attachment_id`, letterID)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Attachment, error) {
	a := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, selectAttachments+` WHERE a.attachment_id = $1`, id).
		Scan(&a.ID, &a.Correspondence, &a.StorageKey, &a.FileName, &a.FileType, &a.FileSize, &a.UploadedAt)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	q :=
		`INSERT INTO attachments (correspondence, storage_key, file_name, file_type, file_size)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING attachment_id, uploaded_at`

	err := r.db.QueryRowContext(ctx, q, a.Correspondence, a.StorageKey, a.FileName, a.FileType, a.FileSize).
		Scan(&a.ID, &a.UploadedAt)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return a, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dberr.Affected(r.db.ExecContext(ctx, `DELETE FROM attachments WHERE attachment_id = $1`, id))
}
