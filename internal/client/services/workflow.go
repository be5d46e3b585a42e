package services

import (
	"context"
	"errors"
	"sort"

	"github.com/dmitrijs2005/secdesk/internal/client/models"
	"github.com/dmitrijs2005/secdesk/internal/logging"
)

// WorkflowAPI is the part of the REST client the workflow configuration
// needs.
type WorkflowAPI interface {
	Types(ctx context.Context) ([]models.CorrespondenceType, error)
	CreateType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, error)
	UpdateType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, error)
	DeleteType(ctx context.Context, id int64) error
	Procedures(ctx context.Context, typeID int64) ([]models.Procedure, error)
	CreateProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, error)
	UpdateProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, error)
	DeleteProcedure(ctx context.Context, id int64) error
}

var (
	ErrNoTypeSelected = errors.New(MsgSelectTypeFirst)
	ErrBadMove        = errors.New(MsgReorderBadMove)
)

// ReorderFailure is one procedure whose new order was not saved.
type ReorderFailure struct {
	Procedure models.Procedure
	Err       error
}

// ReorderReport is the outcome of a reorder. Procedures is the list to
// show: the server's list after a failure, the local one otherwise.
type ReorderReport struct {
	Procedures []models.Procedure
	Updated    []int64
	Failed     []ReorderFailure
	Reloaded   bool
}

// OK reports whether every update went through.
func (r ReorderReport) OK() bool { return len(r.Failed) == 0 }

// Message is the toast for the report.
func (r ReorderReport) Message() string {
	if r.OK() {
		return MsgReorderDone
	}
	return MsgReorderFailed
}

// WorkflowService configures letter types and their ordered procedures.
type WorkflowService interface {
	Types(ctx context.Context) ([]models.CorrespondenceType, error)
	SaveType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, string, error)
	DeleteType(ctx context.Context, id int64) (string, error)

	Procedures(ctx context.Context, typeID int64) ([]models.Procedure, error)
	NewProcedure(typeID int64, existing []models.Procedure) (models.Procedure, error)
	SaveProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, string, error)
	DeleteProcedure(ctx context.Context, id int64) (string, error)
	Reorder(ctx context.Context, typeID int64, procs []models.Procedure, from, to int) (*ReorderReport, error)
}

type workflowService struct {
	api    WorkflowAPI
	logger logging.Logger
}

func NewWorkflowService(a WorkflowAPI, logger logging.Logger) WorkflowService {
	return &workflowService{api: a, logger: logger}
}

func (s *workflowService) Types(ctx context.Context) ([]models.CorrespondenceType, error) {
	return s.api.Types(ctx)
}

// SaveType creates t when it has no id and updates it otherwise.
func (s *workflowService) SaveType(ctx context.Context, t models.CorrespondenceType) (*models.CorrespondenceType, string, error) {
	if t.ID == 0 {
		out, err := s.api.CreateType(ctx, t)
		if err != nil {
			return nil, "", err
		}
		return out, MsgTypeCreated, nil
	}
	out, err := s.api.UpdateType(ctx, t)
	if err != nil {
		return nil, "", err
	}
	return out, MsgTypeUpdated, nil
}

// DeleteType removes a type; the server drops its procedures with it.
func (s *workflowService) DeleteType(ctx context.Context, id int64) (string, error) {
	if err := s.api.DeleteType(ctx, id); err != nil {
		return "", err
	}
	return MsgTypeDeleted, nil
}

// Procedures returns the procedures of typeID by order.
func (s *workflowService) Procedures(ctx context.Context, typeID int64) ([]models.Procedure, error) {
	if typeID == 0 {
		return nil, ErrNoTypeSelected
	}
	procs, err := s.api.Procedures(ctx, typeID)
	if err != nil {
		return nil, err
	}
	sortByOrder(procs)
	return procs, nil
}

// NewProcedure returns a blank procedure placed after existing.
func (s *workflowService) NewProcedure(typeID int64, existing []models.Procedure) (models.Procedure, error) {
	if typeID == 0 {
		return models.Procedure{}, ErrNoTypeSelected
	}
	return models.Procedure{
		CorrespondenceType: typeID,
		ProcedureOrder:     len(existing) + 1,
	}, nil
}

func (s *workflowService) SaveProcedure(ctx context.Context, p models.Procedure) (*models.Procedure, string, error) {
	if p.CorrespondenceType == 0 {
		return nil, "", ErrNoTypeSelected
	}
	if p.ID == 0 {
		out, err := s.api.CreateProcedure(ctx, p)
		if err != nil {
			return nil, "", err
		}
		return out, MsgProcedureCreated, nil
	}
	out, err := s.api.UpdateProcedure(ctx, p)
	if err != nil {
		return nil, "", err
	}
	return out, MsgProcedureUpdated, nil
}

func (s *workflowService) DeleteProcedure(ctx context.Context, id int64) (string, error) {
	if err := s.api.DeleteProcedure(ctx, id); err != nil {
		return "", err
	}
	return MsgProcedureDeleted, nil
}

// Reorder moves procs[from] to position to, renumbers every procedure
// 1..N and saves each one in turn with its other fields unchanged. The
// first failed update stops the sequence; updates already applied stay
// applied and the canonical list is reloaded from the server. A move onto
// the same position saves nothing.
func (s *workflowService) Reorder(ctx context.Context, typeID int64, procs []models.Procedure, from, to int) (*ReorderReport, error) {
	if from < 0 || from >= len(procs) || to < 0 || to >= len(procs) {
		return nil, ErrBadMove
	}

	if from == to {
		return &ReorderReport{Procedures: append([]models.Procedure(nil), procs...)}, nil
	}

	moved := Move(procs, from, to)
	rep := &ReorderReport{Procedures: moved}

	for _, p := range moved {
		if _, err := s.api.UpdateProcedure(ctx, p); err != nil {
			s.logger.Error(ctx, "procedure reorder update failed", "id", p.ID, "order", p.ProcedureOrder, "error", err)
			rep.Failed = append(rep.Failed, ReorderFailure{Procedure: p, Err: err})
			break
		}
		rep.Updated = append(rep.Updated, p.ID)
	}

	if rep.OK() {
		return rep, nil
	}

	fresh, err := s.Procedures(ctx, typeID)
	if err != nil {
		s.logger.Warn(ctx, "reload procedures after reorder failed", "type", typeID, "error", err)
		return rep, nil
	}
	rep.Procedures = fresh
	rep.Reloaded = true
	return rep, nil
}

// Move returns a copy of procs with the item at from moved to to and
// orders renumbered 1..N.
func Move(procs []models.Procedure, from, to int) []models.Procedure {
	out := make([]models.Procedure, 0, len(procs))
	out = append(out, procs[:from]...)
	out = append(out, procs[from+1:]...)

	item := procs[from]
	out = append(out[:to], append([]models.Procedure{item}, out[to:]...)...)

	for i := range out {
		out[i].ProcedureOrder = i + 1
	}
	return out
}

// ExclusivityWarnings flags a type with more than one initial or final
// procedure. Saving is never blocked on it.
func ExclusivityWarnings(procs []models.Procedure) []string {
	var initial, final int
	for _, p := range procs {
		if p.IsInitial {
			initial++
		}
		if p.IsFinal {
			final++
		}
	}
	var out []string
	if initial > 1 {
		out = append(out, MsgManyInitial)
	}
	if final > 1 {
		out = append(out, MsgManyFinal)
	}
	return out
}

func sortByOrder(procs []models.Procedure) {
	sort.SliceStable(procs, func(i, j int) bool {
		return procs[i].ProcedureOrder < procs[j].ProcedureOrder
	})
}
