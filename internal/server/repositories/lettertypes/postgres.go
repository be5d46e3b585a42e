// Package lettertypes stores correspondence types in PostgreSQL. Deleting
// a type cascades to its procedures.
package lettertypes

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

const (
	selectTypes = `SELECT t.correspondence_type_id, t.type_name, t.category FROM correspondence_types t`
	countTypes  = `SELECT COUNT(*) FROM correspondence_types t`
)

// Spec is the collection query whitelist.
var Spec = query.Spec{
	Fields: map[string]string{
		"correspondence_type_id": "t.correspondence_type_id",
		"type_name":              "t.type_name",
		"category":               "t.category",
	},
	Search:   []string{"t.type_name", "t.category"},
	Default:  "t.type_name ASC",
	Tiebreak: "t.correspondence_type_id",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, l query.List) ([]models.CorrespondenceType, int, error) {
	return query.Fetch[models.CorrespondenceType](ctx, r.db, l, Spec, selectTypes, countTypes)
}

func (r *PostgresRepository) All(ctx context.Context) ([]models.CorrespondenceType, error) {
	return query.Rows[models.CorrespondenceType](ctx, r.db, selectTypes+` ORDER BY t.type_name, t.correspondence_type_id`)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.CorrespondenceType, error) {
	t := &models.CorrespondenceType{}
	err := r.db.QueryRowContext(ctx, selectTypes+` WHERE t.correspondence_type_id = $1`, id).
		Scan(&t.ID, &t.TypeName, &t.Category)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.CorrespondenceType) (*models.CorrespondenceType, error) {
	query :=
		`INSERT INTO correspondence_types (type_name, category)
		 VALUES ($1, $2)
		 RETURNING correspondence_type_id`

	if err := r.db.QueryRowContext(ctx, query, t.TypeName, t.Category).Scan(&t.ID); err != nil {
		return nil, dberr.Wrap(err)
	}
	return t, nil
}

func (r *PostgresRepository) Update(ctx context.Context, t *models.CorrespondenceType) error {
	query := `UPDATE correspondence_types SET type_name = $2, category = $3 WHERE correspondence_type_id = $1`
	return dberr.Affected(r.db.ExecContext(ctx, query, t.ID, t.TypeName, t.Category))
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dberr.Affected(r.db.ExecContext(ctx, `DELETE FROM correspondence_types WHERE correspondence_type_id = $1`, id))
}
