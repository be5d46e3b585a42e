package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/logging"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/services"
	"github.com/stretchr/testify/require"
)

const (
	adminToken  = "admin-token"
	normalToken = "normal-token"
)

var (
	adminUser  = models.User{ID: 1, Username: "admin", Role: common.RoleAdmin, IsActive: true}
	normalUser = models.User{ID: 2, Username: "omar", Role: common.RoleNormal, IsActive: true}
)

// stubAuth accepts adminToken and normalToken. Other calls go to the
// optional func fields.
type stubAuth struct {
	AuthService

	login          func(username, password string, rememberMe bool) (*services.LoginResult, error)
	changePassword func(oldPassword, newPassword, confirm string) error
	users          []models.User
	loggedOut      []int64
}

func (a *stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	switch token {
	case adminToken:
		u := adminUser
		return &u, nil
	case normalToken:
		u := normalUser
		return &u, nil
	case "expired":
		return nil, common.ErrTokenExpired
	}
	return nil, common.ErrInvalidToken
}

func (a *stubAuth) Login(_ context.Context, username, password string, rememberMe bool) (*services.LoginResult, error) {
	return a.login(username, password, rememberMe)
}

func (a *stubAuth) Logout(_ context.Context, u *models.User) error {
	a.loggedOut = append(a.loggedOut, u.ID)
	return nil
}

func (a *stubAuth) ChangePassword(_ context.Context, _ *models.User, oldPassword, newPassword, confirm string) error {
	return a.changePassword(oldPassword, newPassword, confirm)
}

func (a *stubAuth) Users(context.Context) ([]models.User, error) {
	return append([]models.User(nil), a.users...), nil
}

type stubLetters struct {
	LetterService

	lists   []query.List
	items   []models.Correspondence
	total   int
	created []models.CorrespondenceInput
	fields  map[string]json.RawMessage
	err     error
	deleted []int64
}

func (s *stubLetters) List(_ context.Context, l query.List) ([]models.Correspondence, int, error) {
	s.lists = append(s.lists, l)
	return s.items, s.total, s.err
}

func (s *stubLetters) Get(_ context.Context, id int64) (*models.Correspondence, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Correspondence{ID: id, Subject: "Example"}, nil
}

func (s *stubLetters) Create(_ context.Context, _ *models.User, in models.CorrespondenceInput) (*models.Correspondence, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, in)
	return &models.Correspondence{ID: 55, Subject: in.Subject}, nil
}

func (s *stubLetters) UpdateField(_ context.Context, _ *models.User, id int64, fields map[string]json.RawMessage) (*models.FieldUpdateResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.fields = fields
	return &models.FieldUpdateResult{
		Correspondence:      &models.Correspondence{ID: id},
		AvailableProcedures: []models.Procedure{{ID: 3, ProcedureName: "Review"}},
	}, nil
}

func (s *stubLetters) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubLetters) ParseFilename(name string) (*services.FilenameParse, error) {
	return services.NewLetterService(nil, nil, nil, logging.Nop{}).ParseFilename(name)
}

type stubAttachments struct {
	AttachmentService

	letterID int64
	names    []string
	bodies   []string
	msgName  string
	msgData  []byte
}

func (s *stubAttachments) Upload(_ context.Context, letterID int64, files []services.Upload) ([]models.Attachment, error) {
	s.letterID = letterID
	out := []models.Attachment{}
	for i, f := range files {
		b, err := io.ReadAll(f.Body)
		if err != nil {
			return nil, err
		}
		s.names = append(s.names, f.Name)
		s.bodies = append(s.bodies, string(b))
		out = append(out, models.Attachment{ID: int64(i + 1), Correspondence: letterID, FileName: f.Name, FileSize: f.Size})
	}
	return out, nil
}

func (s *stubAttachments) ProcessMsg(_ context.Context, name string, data []byte) (*models.ProcessMsgResult, error) {
	s.msgName, s.msgData = name, data
	return &models.ProcessMsgResult{Success: true, Attachments: []models.ExtractedAttachment{}, Message: "Successfully extracted 0 attachments"}, nil
}

type testEnv struct {
	auth        *stubAuth
	letters     *stubLetters
	attachments *stubAttachments
	handler     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		auth:        &stubAuth{},
		letters:     &stubLetters{},
		attachments: &stubAttachments{},
	}
	srv := NewServer(":0", Services{
		Auth:        env.auth,
		Letters:     env.letters,
		Attachments: env.attachments,
	}, 1<<10, logging.Nop{})
	env.handler = srv.Routes()
	return env
}

// do sends a JSON request; body may be nil, a string or any value to encode.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
