// Package dberr classifies postgres errors into the common sentinels.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes of the integrity constraint class.
const (
	codeNotNull    = "23502"
	codeForeignKey = "23503"
	codeUnique     = "23505"
	codeCheck      = "23514"

	codeInvalidText = "22P02"
	codeBadDatetime = "22007"
	codeDateRange   = "22008"
)

// ConstraintError is a violated constraint. Detail is the server message,
// e.g. `duplicate key value violates unique constraint "..."`.
type ConstraintError struct {
	Kind       error
	Constraint string
	Detail     string
}

func (e *ConstraintError) Error() string { return e.Detail }
func (e *ConstraintError) Unwrap() error { return e.Kind }

// Wrap classifies err. sql.ErrNoRows becomes common.ErrorNotFound, unique
// violations common.ErrorAlreadyExists, other integrity violations
// common.ErrorConstraint and malformed values common.ErrorValidation.
// Everything else is wrapped as a db error.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}

	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		switch pg.Code {
		case codeUnique:
			return &ConstraintError{Kind: common.ErrorAlreadyExists, Constraint: pg.ConstraintName, Detail: pg.Message}
		case codeNotNull, codeForeignKey, codeCheck:
			return &ConstraintError{Kind: common.ErrorConstraint, Constraint: pg.ConstraintName, Detail: pg.Message}
		case codeInvalidText, codeBadDatetime, codeDateRange:
			return &ConstraintError{Kind: common.ErrorValidation, Detail: pg.Message}
		}
	}
	return fmt.Errorf("db error: %w", err)
}

// Affected turns a zero-row result into common.ErrorNotFound.
func Affected(res sql.Result, err error) error {
	if err != nil {
		return Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
