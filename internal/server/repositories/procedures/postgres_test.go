package procedures

import (
	"context"
	"database/sql"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var procCols = []string{"id", "correspondence_type", "correspondence_type_name", "procedure_name", "description",
	"procedure_order", "is_initial", "is_final", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestList_FilterByTypeOrdersByProcedureOrder(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	l, err := query.Parse(url.Values{"correspondence_type": {"2"}, "ordering": {"procedure_order"}}, Spec)
	require.NoError(t, err)

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM correspondence_type_procedure p WHERE p\.correspondence_type = \$1$`).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`WHERE p\.correspondence_type = \$1 ORDER BY p\.procedure_order ASC, p\.id LIMIT \$2 OFFSET \$3$`).
		WithArgs("2", common.DefaultPageSize, 0).
		WillReturnRows(sqlmock.NewRows(procCols).
			AddRow(5, 2, "وارد", "استلام", "", 1, true, false, now, now).
			AddRow(6, 2, "وارد", "أرشفة", "", 2, false, true, now, now))

	got, total, err := repo.List(context.Background(), l)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, "استلام", got[0].ProcedureName)
	assert.Equal(t, "وارد", got[0].CorrespondenceTypeName)
	assert.True(t, got[1].IsFinal)
}

func TestByType(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`WHERE p\.correspondence_type = \$1 ORDER BY p\.procedure_order, p\.id$`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(procCols).AddRow(5, 2, "وارد", "استلام", "", 1, true, false, now, now))

	got, err := repo.ByType(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE p\.id = \$1$`).WithArgs(int64(1)).WillReturnError(sql.ErrNoRows)
	_, err := repo.Get(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCreate_DuplicateNameInType(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT INTO correspondence_type_procedure.*RETURNING id, created_at, updated_at$`).
		WithArgs(int64(2), "استلام", "", 1, true, false).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "procedure_type_name_unique",
			Message: `duplicate key value violates unique constraint "procedure_type_name_unique"`})

	_, err := repo.Create(context.Background(), &models.Procedure{CorrespondenceType: 2, ProcedureName: "استلام",
		ProcedureOrder: 1, IsInitial: true})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	var ce *dberr.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "procedure_type_name_unique", ce.Constraint)
}

func TestUpdateAndDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)^UPDATE correspondence_type_procedure.*updated_at = now\(\).*RETURNING updated_at$`).
		WithArgs(int64(5), int64(2), "استلام", "d", 3, false, false).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	p := &models.Procedure{ID: 5, CorrespondenceType: 2, ProcedureName: "استلام", Description: "d", ProcedureOrder: 3}
	require.NoError(t, repo.Update(ctx, p))
	assert.Equal(t, now, p.UpdatedAt)

	mock.ExpectQuery(`^UPDATE correspondence_type_procedure`).WillReturnError(sql.ErrNoRows)
	assert.ErrorIs(t, repo.Update(ctx, &models.Procedure{ID: 99}), common.ErrorNotFound)

	mock.ExpectExec(`^DELETE FROM correspondence_type_procedure WHERE id = \$1$`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, 5))
}
