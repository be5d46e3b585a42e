// Package letters stores correspondence, its relations and its status
// history in PostgreSQL.
package letters

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

const joins = `
	FROM correspondence c
	LEFT JOIN correspondence pc ON pc.correspondence_id = c.parent_correspondence
	LEFT JOIN correspondence_types t ON t.correspondence_type_id = c.type
	LEFT JOIN correspondence_type_procedure p ON p.id = c.current_status
	LEFT JOIN users u ON u.id = c.assigned_to
	LEFT JOIN contacts ct ON ct.contact_id = c.contact`

const (
	selectLetters = `SELECT c.correspondence_id, c.reference_number, c.correspondence_date::text AS correspondence_date,
		c.subject, c.direction, c.priority, c.summary, c.created_at, c.updated_at,
		c.parent_correspondence, COALESCE(pc.reference_number, '') AS parent_reference,
		c.type AS type_id, COALESCE(t.type_name, '') AS type_name, COALESCE(t.category, '') AS type_category,
		c.current_status AS status_id, p.correspondence_type AS status_type,
		COALESCE(p.procedure_name, '') AS status_name, COALESCE(p.description, '') AS status_description,
		COALESCE(p.procedure_order, 0) AS status_order, COALESCE(p.is_initial, FALSE) AS status_initial,
		COALESCE(p.is_final, FALSE) AS status_final, p.created_at AS status_created_at, p.updated_at AS status_updated_at,
		c.assigned_to AS assigned_id, COALESCE(u.username, '') AS assigned_username,
		COALESCE(u.full_name_arabic, '') AS assigned_full_name,
		c.contact AS contact_id, COALESCE(ct.name, '') AS contact_name, COALESCE(ct.company_name, '') AS contact_company,
		COALESCE(ct.contact_type, '') AS contact_type, COALESCE(ct.is_approver, FALSE) AS contact_is_approver` + joins
	countLetters = `SELECT COUNT(*)` + joins
)

// Spec is the collection query whitelist. Relation paths follow the
// client's filter keys (type__type_name, contact__name, ...); the
// flattened display names are accepted as aliases for ordering.
var Spec = query.Spec{
	Fields: map[string]string{
		"correspondence_id":   "c.correspondence_id",
		"reference_number":    "c.reference_number",
		"correspondence_date": "c.correspondence_date",
		"subject":             "c.subject",
		"direction":           "c.direction",
		"priority":            "c.priority",
		"summary":             "c.summary",
		"created_at":          "c.created_at",
		"updated_at":          "c.updated_at",

		"type":                           "c.type",
		"type__type_name":                "t.type_name",
		"type__category":                 "t.category",
		"current_status":                 "c.current_status",
		"current_status__procedure_name": "p.procedure_name",
		"assigned_to":                    "c.assigned_to",
		"assigned_to__username":          "u.username",
		"assigned_to__full_name_arabic":  "u.full_name_arabic",
		"contact":                        "c.contact",
		"contact__name":                  "ct.name",
		"parent_correspondence":          "c.parent_correspondence",

		"parent_correspondence__reference_number": "pc.reference_number",

		"type_name":                       "t.type_name",
		"current_status_name":             "p.procedure_name",
		"assigned_to_full_name":           "u.full_name_arabic",
		"contact_name":                    "ct.name",
		"parent_correspondence_reference": "pc.reference_number",
	},
	Search: []string{
		"c.reference_number", "c.subject", "c.summary",
		"ct.name", "t.type_name", "u.full_name_arabic", "p.procedure_name",
	},
	Default:  "c.correspondence_date DESC NULLS LAST",
	Tiebreak: "c.correspondence_id DESC",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, l query.List) ([]models.Correspondence, int, error) {
	rows, total, err := query.Fetch[row](ctx, r.db, l, Spec, selectLetters, countLetters)
	if err != nil {
		return nil, 0, err
	}
	return letters(rows), total, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Correspondence, error) {
	rows, err := query.Rows[row](ctx, r.db, selectLetters+` WHERE c.correspondence_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	c := rows[0].letter()
	return &c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, in models.CorrespondenceInput) (int64, error) {
	query :=
		`INSERT INTO correspondence (reference_number, correspondence_date, type, subject, direction, priority,
		     summary, current_status, assigned_to, contact, parent_correspondence)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING correspondence_id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		in.ReferenceNumber, in.CorrespondenceDate, in.Type, in.Subject, in.Direction, in.Priority,
		in.Summary, in.CurrentStatus, in.AssignedTo, in.Contact, in.ParentCorrespondence,
	).Scan(&id)
	if err != nil {
		return 0, dberr.Wrap(err)
	}
	return id, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, in models.CorrespondenceInput) error {
	query :=
		`UPDATE correspondence
		 SET reference_number = $2, correspondence_date = $3, type = $4, subject = $5, direction = $6,
		     priority = $7, summary = $8, current_status = $9, assigned_to = $10, contact = $11,
		     parent_correspondence = $12, updated_at = now()
		 WHERE correspondence_id = $1`

	return dberr.Affected(r.db.ExecContext(ctx, query, id,
		in.ReferenceNumber, in.CorrespondenceDate, in.Type, in.Subject, in.Direction,
		in.Priority, in.Summary, in.CurrentStatus, in.AssignedTo, in.Contact,
		in.ParentCorrespondence))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dberr.Affected(r.db.ExecContext(ctx, `DELETE FROM correspondence WHERE correspondence_id = $1`, id))
}

// Children returns the letters whose parent is id, newest first.
func (r *PostgresRepository) Children(ctx context.Context, id int64) ([]models.Correspondence, error) {
	rows, err := query.Rows[row](ctx, r.db,
		selectLetters+` WHERE c.parent_correspondence = $1 ORDER BY c.correspondence_date DESC NULLS LAST, c.correspondence_id DESC`, id)
	if err != nil {
		return nil, err
	}
	return letters(rows), nil
}

// Siblings returns the other children of parentID.
func (r *PostgresRepository) Siblings(ctx context.Context, id, parentID int64) ([]models.Correspondence, error) {
	rows, err := query.Rows[row](ctx, r.db,
		selectLetters+` WHERE c.parent_correspondence = $1 AND c.correspondence_id <> $2
		ORDER BY c.correspondence_date DESC NULLS LAST, c.correspondence_id DESC`, parentID, id)
	if err != nil {
		return nil, err
	}
	return letters(rows), nil
}

// StatusLogs returns the workflow history of a letter, newest first.
func (r *PostgresRepository) StatusLogs(ctx context.Context, id int64) ([]models.StatusLog, error) {
	q := `SELECT l.id, l.correspondence, l.from_status, COALESCE(fp.procedure_name, '') AS from_status_name,
		l.to_status, COALESCE(tp.procedure_name, '') AS to_status_name,
		l.changed_by, COALESCE(u.username, '') AS changed_by_username, l.change_reason, l.created_at
		FROM correspondence_status_log l
		LEFT JOIN correspondence_type_procedure fp ON fp.id = l.from_status
		LEFT JOIN correspondence_type_procedure tp ON tp.id = l.to_status
		LEFT JOIN users u ON u.id = l.changed_by
		WHERE l.correspondence = $1
		ORDER BY l.created_at DESC, l.id DESC`
	return query.Rows[models.StatusLog](ctx, r.db, q, id)
}

func (r *PostgresRepository) AddStatusLog(ctx context.Context, log *models.StatusLog) error {
	query :=
		`INSERT INTO correspondence_status_log (correspondence, from_status, to_status, changed_by, change_reason)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		log.Correspondence, log.FromStatus, log.ToStatus, log.ChangedBy, log.ChangeReason,
	).Scan(&log.ID, &log.CreatedAt)
	return dberr.Wrap(err)
}
