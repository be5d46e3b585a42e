package query

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/jmoiron/sqlx"
)

// Fetch runs the page and count queries of l. Rows are scanned into T by
// their db tags, so base must select exactly the tagged columns.
func Fetch[T any](ctx context.Context, db dbx.DBTX, l List, spec Spec, base, countBase string) ([]T, int, error) {
	q, args, err := l.Count(spec, countBase)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err)
	}

	q, args, err = l.Select(spec, base)
	if err != nil {
		return nil, 0, err
	}
	items, err := Rows[T](ctx, db, q, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Rows runs q and scans every row into T.
func Rows[T any](ctx context.Context, db dbx.DBTX, q string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dberr.Wrap(err)
	}

	items := make([]T, 0)
	if err := sqlx.StructScan(rows, &items); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}
