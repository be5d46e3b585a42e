package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/repomanager"
)

// WorkflowService manages correspondence types and their procedures.
type WorkflowService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWorkflowService(db *sql.DB, m repomanager.RepositoryManager) *WorkflowService {
	return &WorkflowService{db: db, repomanager: m}
}

func (s *WorkflowService) Types(ctx context.Context, l query.List) ([]models.CorrespondenceType, int, error) {
	return s.repomanager.Types(s.db).List(ctx, l)
}

func (s *WorkflowService) Type(ctx context.Context, id int64) (*models.CorrespondenceType, error) {
	return s.repomanager.Types(s.db).Get(ctx, id)
}

func (s *WorkflowService) CreateType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, error) {
	if err := validateType(&t); err != nil {
		return nil, err
	}
	return s.repomanager.Types(s.db).Create(ctx, &t)
}

func (s *WorkflowService) UpdateType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, error) {
	if err := validateType(&t); err != nil {
		return nil, err
	}
	if err := s.repomanager.Types(s.db).Update(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteType removes a type together with its procedures.
func (s *WorkflowService) DeleteType(ctx context.Context, id int64) error {
	return s.repomanager.Types(s.db).Delete(ctx, id)
}

func validateType(t *models.CorrespondenceType) error {
	t.TypeName = strings.TrimSpace(t.TypeName)
	t.Category = strings.TrimSpace(t.Category)
	if t.TypeName == "" {
		return fieldError("type_name", "This field may not be blank.")
	}
	return nil
}

func (s *WorkflowService) Procedures(ctx context.Context, l query.List) ([]models.Procedure, int, error) {
	return s.repomanager.Procedures(s.db).List(ctx, l)
}

func (s *WorkflowService) Procedure(ctx context.Context, id int64) (*models.Procedure, error) {
	return s.repomanager.Procedures(s.db).Get(ctx, id)
}

// CreateProcedure adds a step. A duplicate name within the type is
// rejected by the database and surfaces as common.ErrorAlreadyExists.
func (s *WorkflowService) CreateProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, error) {
	if err := validateProcedure(&p); err != nil {
		return nil, err
	}
	created, err := s.repomanager.Procedures(s.db).Create(ctx, &p)
	if err != nil {
		return nil, err
	}
	return s.Procedure(ctx, created.ID)
}

func (s *WorkflowService) UpdateProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, error) {
	if err := validateProcedure(&p); err != nil {
		return nil, err
	}
	if err := s.repomanager.Procedures(s.db).Update(ctx, &p); err != nil {
		return nil, err
	}
	return s.Procedure(ctx, p.ID)
}

func (s *WorkflowService) DeleteProcedure(ctx context.Context, id int64) error {
	return s.repomanager.Procedures(s.db).Delete(ctx, id)
}

func validateProcedure(p *models.Procedure) error {
	p.ProcedureName = strings.TrimSpace(p.ProcedureName)
	verr := &ValidationError{}
	if p.ProcedureName == "" {
		verr.Add("procedure_name", "This field may not be blank.")
	}
	if p.CorrespondenceType <= 0 {
		verr.Add("correspondence_type", "This field is required.")
	}
	if p.ProcedureOrder < 0 {
		verr.Add("procedure_order", "Ensure this value is greater than or equal to 0.")
	}
	return verr.Err()
}
