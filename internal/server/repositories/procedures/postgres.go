// Package procedures stores the ordered workflow steps of correspondence
// types. Names are unique per type.
package procedures

import (
	"context"

	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
)

const (
	selectProcedures = `SELECT p.id, p.correspondence_type, t.type_name AS correspondence_type_name,
		p.procedure_name, p.description, p.procedure_order, p.is_initial, p.is_final, p.created_at, p.updated_at
		FROM correspondence_type_procedure p
		JOIN correspondence_types t ON t.correspondence_type_id = p.correspondence_type`
	countProcedures = `SELECT COUNT(*) FROM correspondence_type_procedure p`
)

// Spec is the collection query whitelist.
var Spec = query.Spec{
	Fields: map[string]string{
		"id":                  "p.id",
		"correspondence_type": "p.correspondence_type",
		"procedure_name":      "p.procedure_name",
		"procedure_order":     "p.procedure_order",
		"is_initial":          "p.is_initial",
		"is_final":            "p.is_final",
	},
	Search:   []string{"p.procedure_name", "p.description"},
	Default:  "p.correspondence_type ASC, p.procedure_order ASC",
	Tiebreak: "p.id",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, l query.List) ([]models.Procedure, int, error) {
	return query.Fetch[models.Procedure](ctx, r.db, l, Spec, selectProcedures, countProcedures)
}

// ByType returns the procedures of one type in workflow order.
func (r *PostgresRepository) ByType(ctx context.Context, typeID int64) ([]models.Procedure, error) {
	return query.Rows[models.Procedure](ctx, r.db,
		selectProcedures+` WHERE p.correspondence_type = $1 ORDER BY p.procedure_order, p.id`, typeID)
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Procedure, error) {
	p := &models.Procedure{}
	err := r.db.QueryRowContext(ctx, selectProcedures+` WHERE p.id = $1`, id).Scan(
		&p.ID, &p.CorrespondenceType, &p.CorrespondenceTypeName, &p.ProcedureName, &p.Description,
		&p.ProcedureOrder, &p.IsInitial, &p.IsFinal, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Procedure) (*models.Procedure, error) {
	query :=
		`INSERT INTO correspondence_type_procedure
		     (correspondence_type, procedure_name, description, procedure_order, is_initial, is_final)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.CorrespondenceType, p.ProcedureName, p.Description, p.ProcedureOrder, p.IsInitial, p.IsFinal,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Procedure) error {
	query :=
		`UPDATE correspondence_type_procedure
		 SET correspondence_type = $2, procedure_name = $3, description = $4, procedure_order = $5,
		     is_initial = $6, is_final = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.CorrespondenceType, p.ProcedureName, p.Description, p.ProcedureOrder, p.IsInitial, p.IsFinal,
	).Scan(&p.UpdatedAt)
	return dberr.Wrap(err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dberr.Affected(r.db.ExecContext(ctx, `DELETE FROM correspondence_type_procedure WHERE id = $1`, id))
}
