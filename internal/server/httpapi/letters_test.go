package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/dberr"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLetters_PassesQuery(t *testing.T) {
	env := newTestEnv(t)
	env.letters.items = []models.Correspondence{{ID: 1}, {ID: 2}}
	env.letters.total = 45

	rec := env.do(t, http.MethodGet, "/api/correspondence/?page=2&ordering=-correspondence_date&priority__in=high,low&search=%D8%B9%D9%82%D8%AF&bogus=1", normalToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, env.letters.lists, 1)
	want := query.List{
		Page:     2,
		PageSize: common.DefaultPageSize,
		Search:   "عقد",
		Ordering: []string{"-correspondence_date"},
		Lookups:  []query.Lookup{{Field: "priority", Op: query.OpIn, Values: []string{"high", "low"}}},
	}
	if diff := cmp.Diff(want, env.letters.lists[0]); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}

	page := decode[models.Page[map[string]any]](t, rec)
	assert.Equal(t, 45, page.Count)
	assert.Len(t, page.Results, 2)
	assert.NotNil(t, page.Next)
	assert.NotNil(t, page.Previous)
}

func TestListLetters_BadPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/correspondence/?page=x", normalToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MsgInvalidPage, decode[map[string]string](t, rec)["detail"])
	assert.Empty(t, env.letters.lists)
}

func TestCreateLetter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/correspondence/", normalToken, map[string]any{
		"subject":             "Example",
		"direction":           "Incoming",
		"correspondence_date": "",
		"type":                4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, float64(55), decode[map[string]any](t, rec)["correspondence_id"])

	require.Len(t, env.letters.created, 1)
	in := env.letters.created[0]
	assert.Equal(t, "Example", in.Subject)
	require.NotNil(t, in.Type)
	assert.Equal(t, int64(4), *in.Type)
	require.NotNil(t, in.CorrespondenceDate)
	assert.Equal(t, "", *in.CorrespondenceDate)
}

func TestUpdateLetterField(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/api/correspondence/8/update-field/", normalToken, `{"current_status": "3"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]json.RawMessage{"current_status": json.RawMessage(`"3"`)}, env.letters.fields)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, float64(8), body["correspondence_id"])
	procs := body["available_procedures"].([]any)
	require.Len(t, procs, 1)
	assert.Equal(t, "Review", procs[0].(map[string]any)["procedure_name"])
}

func TestLetterErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "not found",
			err:    common.ErrorNotFound,
			status: http.StatusNotFound,
			body:   `{"detail":"Not found."}`,
		},
		{
			name:   "constraint",
			err:    &dberr.ConstraintError{Kind: common.ErrorConstraint, Detail: "violates foreign key constraint"},
			status: http.StatusBadRequest,
			body:   `{"non_field_errors":["violates foreign key constraint"]}`,
		},
		{
			name:   "unexpected",
			err:    errors.New("connection reset"),
			status: http.StatusInternalServerError,
			body:   `{"detail":"A server error occurred."}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.letters.err = tt.err

			rec := env.do(t, http.MethodGet, "/api/correspondence/3/", normalToken, nil)
			require.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestLetterBadID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/correspondence/abc/", normalToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseFilename(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/correspondence/parse-filename/", normalToken, map[string]string{
		"filename": "7612 dd 22072025_Example Subject.pdf",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{
		"success": true,
		"parsed": true,
		"method": "regex",
		"data": {"reference_number": "7612", "correspondence_date": "2025-07-22", "subject": "Example Subject"}
	}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/correspondence/parse-filename/", normalToken, map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"filename":["This field is required."]}`, rec.Body.String())
}
