// Package contacts stores correspondents in PostgreSQL.
package contacts

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

const (
	selectContacts = `SELECT c.contact_id, c.name, c.company_name, c.contact_type, c.is_approver FROM contacts c`
	countContacts  = `SELECT COUNT(*) FROM contacts c`
	byName         = ` ORDER BY c.name, c.contact_id`
)

var Spec = query.Spec{
	Fields: map[string]string{
		"contact_id":   "c.contact_id",
		"name":         "c.name",
		"company_name": "c.company_name",
		"contact_type": "c.contact_type",
		"is_approver":  "c.is_approver",
	},
	Search:   []string{"c.name", "c.company_name"},
	Default:  "c.name ASC",
	Tiebreak: "c.contact_id",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, l query.List) ([]models.Contact, int, error) {
	return query.Fetch[models.Contact](ctx, r.db, l, Spec, selectContacts, countContacts)
}

func (r *PostgresRepository) All(ctx context.Context) ([]models.Contact, error) {
	return query.Rows[models.Contact](ctx, r.db, selectContacts+byName)
}

// Approvers returns the contacts that may approve letters.
func (r *PostgresRepository) Approvers(ctx context.Context) ([]models.Contact, error) {
	return query.Rows[models.Contact](ctx, r.db, selectContacts+` WHERE c.is_approver`+byName)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Contact, error) {
	c := &models.Contact{}
	err := r.db.QueryRowContext(ctx, selectContacts+` WHERE c.contact_id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CompanyName, &c.ContactType, &c.IsApprover)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	query :=
		`INSERT INTO contacts (name, company_name, contact_type, is_approver)
		 VALUES ($1, $2, $3, $4)
		 RETURNING contact_id`

	if err := r.db.QueryRowContext(ctx, query, c.Name, c.CompanyName, c.ContactType, c.IsApprover).Scan(&c.ID); err != nil {
		return nil, dberr.Wrap(err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Contact) error {
	query :=
		`UPDATE contacts SET name = $2, company_name = $3, contact_type = $4, is_approver = $5
		 WHERE contact_id = $1`
	return dberr.Affected(r.db.ExecContext(ctx, query, c.ID, c.Name, c.CompanyName, c.ContactType, c.IsApprover))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dberr.Affected(r.db.ExecContext(ctx, `DELETE FROM contacts WHERE contact_id = $1`, id))
}
