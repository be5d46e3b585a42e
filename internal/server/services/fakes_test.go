package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/letters"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/lettertypes"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/procedures"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/query"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/users"
)

// -------- test fakes --------

// memRepos keeps every table in memory. Repositories ignore the DBTX, so
// transactions only show up as sqlmock Begin/Commit expectations.
type memRepos struct {
	repomanager.RepositoryManager

	users       map[int64]*models.User
	types       map[int64]*models.CorrespondenceType
	procedures  map[int64]*models.Procedure
	contacts    map[int64]*models.Contact
	letters     map[int64]*models.CorrespondenceInput
	statusLogs  []models.StatusLog
	attachments map[int64]*models.Attachment

	nextID int64
	err    error // returned by every call when set
}

func newMemRepos() *memRepos {
	return &memRepos{
		users:       map[int64]*models.User{},
		types:       map[int64]*models.CorrespondenceType{},
		procedures:  map[int64]*models.Procedure{},
		contacts:    map[int64]*models.Contact{},
		letters:     map[int64]*models.CorrespondenceInput{},
		attachments: map[int64]*models.Attachment{},
		nextID:      100,
	}
}

func (m *memRepos) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepos) Users(dbx.DBTX) users.Repository             { return &memUsers{m: m} }
func (m *memRepos) Types(dbx.DBTX) lettertypes.Repository       { return &memTypes{m: m} }
func (m *memRepos) Procedures(dbx.DBTX) procedures.Repository   { return &memProcedures{m: m} }
func (m *memRepos) Contacts(dbx.DBTX) contacts.Repository       { return &memContacts{m: m} }
func (m *memRepos) Letters(dbx.DBTX) letters.Repository         { return &memLetters{m: m} }
func (m *memRepos) Attachments(dbx.DBTX) attachments.Repository { return &memAttachments{m: m} }

type memUsers struct {
	users.Repository
	m *memRepos
}

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.m.err != nil {
		return nil, r.m.err
	}
	u.ID = r.m.id()
	cp := *u
	r.m.users[u.ID] = &cp
	return u, nil
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if r.m.err != nil {
		return nil, r.m.err
	}
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByUsername(_ context.Context, name string) (*models.User, error) {
	if r.m.err != nil {
		return nil, r.m.err
	}
	for _, u := range r.m.users {
		if u.Username == name {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) Count(context.Context) (int, error) { return len(r.m.users), r.m.err }

func (r *memUsers) UpdateProfile(_ context.Context, u *models.User) error {
	cur, ok := r.m.users[u.ID]
	if !ok {
		return common.ErrorNotFound
	}
	cur.Email, cur.FullNameArabic, cur.Department, cur.PhoneNumber = u.Email, u.FullNameArabic, u.Department, u.PhoneNumber
	return nil
}

func (r *memUsers) SetPassword(_ context.Context, id int64, hash string) error {
	u, ok := r.m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUsers) BumpTokenVersion(_ context.Context, id int64) (int64, error) {
	u, ok := r.m.users[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

func (r *memUsers) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.users, id)
	return nil
}

type memTypes struct {
	lettertypes.Repository
	m *memRepos
}

func (r *memTypes) All(context.Context) ([]models.CorrespondenceType, error) {
	out := []models.CorrespondenceType{}
	for _, t := range r.m.types {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memTypes) Get(_ context.Context, id int64) (*models.CorrespondenceType, error) {
	t, ok := r.m.types[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTypes) Create(_ context.Context, t *models.CorrespondenceType) (*models.CorrespondenceType, error) {
	t.ID = r.m.id()
	cp := *t
	r.m.types[t.ID] = &cp
	return t, nil
}

func (r *memTypes) Update(_ context.Context, t *models.CorrespondenceType) error {
	if _, ok := r.m.types[t.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *t
	r.m.types[t.ID] = &cp
	return nil
}

func (r *memTypes) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.types[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.types, id)
	for pid, p := range r.m.procedures {
		if p.CorrespondenceType == id {
			delete(r.m.procedures, pid)
		}
	}
	return nil
}

type memProcedures struct {
	procedures.Repository
	m *memRepos
}

func (r *memProcedures) ByType(_ context.Context, typeID int64) ([]models.Procedure, error) {
	out := []models.Procedure{}
	for _, p := range r.m.procedures {
		if p.CorrespondenceType == typeID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProcedureOrder < out[j].ProcedureOrder })
	return out, nil
}

func (r *memProcedures) Get(_ context.Context, id int64) (*models.Procedure, error) {
	p, ok := r.m.procedures[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProcedures) Create(_ context.Context, p *models.Procedure) (*models.Procedure, error) {
	for _, other := range r.m.procedures {
		if other.CorrespondenceType == p.CorrespondenceType && other.ProcedureName == p.ProcedureName {
			return nil, common.ErrorAlreadyExists
		}
	}
	p.ID = r.m.id()
	cp := *p
	r.m.procedures[p.ID] = &cp
	return p, nil
}

func (r *memProcedures) Update(_ context.Context, p *models.Procedure) error {
	if _, ok := r.m.procedures[p.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *p
	r.m.procedures[p.ID] = &cp
	return nil
}

type memContacts struct {
	contacts.Repository
	m *memRepos
}

func (r *memContacts) All(context.Context) ([]models.Contact, error) {
	out := []models.Contact{}
	for _, c := range r.m.contacts {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memContacts) Create(_ context.Context, c *models.Contact) (*models.Contact, error) {
	c.ID = r.m.id()
	cp := *c
	r.m.contacts[c.ID] = &cp
	return c, nil
}

type memLetters struct {
	letters.Repository
	m *memRepos
}

func (r *memLetters) view(id int64) models.Correspondence {
	in := r.m.letters[id]
	c := models.Correspondence{
		ID:                   id,
		ReferenceNumber:      in.ReferenceNumber,
		CorrespondenceDate:   in.CorrespondenceDate,
		Subject:              in.Subject,
		Direction:            in.Direction,
		Priority:             in.Priority,
		Summary:              in.Summary,
		ParentCorrespondence: in.ParentCorrespondence,
		Attachments:          []models.Attachment{},
	}
	if in.Type != nil {
		if t, ok := r.m.types[*in.Type]; ok {
			c.Type = t
			c.TypeName = t.TypeName
		}
	}
	if in.CurrentStatus != nil {
		if p, ok := r.m.procedures[*in.CurrentStatus]; ok {
			c.CurrentStatus = p
			c.CurrentStatusName = p.ProcedureName
		}
	}
	if in.AssignedTo != nil {
		c.AssignedTo = &models.UserRef{ID: *in.AssignedTo}
	}
	if in.Contact != nil {
		c.Contact = &models.Contact{ID: *in.Contact}
	}
	return c
}

func (r *memLetters) Get(_ context.Context, id int64) (*models.Correspondence, error) {
	if r.m.err != nil {
		return nil, r.m.err
	}
	if _, ok := r.m.letters[id]; !ok {
		return nil, common.ErrorNotFound
	}
	c := r.view(id)
	return &c, nil
}

func (r *memLetters) Create(_ context.Context, in models.CorrespondenceInput) (int64, error) {
	id := r.m.id()
	r.m.letters[id] = &in
	return id, nil
}

func (r *memLetters) Update(_ context.Context, id int64, in models.CorrespondenceInput) error {
	if _, ok := r.m.letters[id]; !ok {
		return common.ErrorNotFound
	}
	r.m.letters[id] = &in
	return nil
}

func (r *memLetters) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.letters[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.letters, id)
	for aid, a := range r.m.attachments {
		if a.Correspondence == id {
			delete(r.m.attachments, aid)
		}
	}
	return nil
}

func (r *memLetters) related(match func(in *models.CorrespondenceInput, id int64) bool) []models.Correspondence {
	var ids []int64
	for id, in := range r.m.letters {
		if match(in, id) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := []models.Correspondence{}
	for _, id := range ids {
		out = append(out, r.view(id))
	}
	return out
}

func (r *memLetters) Children(_ context.Context, id int64) ([]models.Correspondence, error) {
	return r.related(func(in *models.CorrespondenceInput, _ int64) bool {
		return in.ParentCorrespondence != nil && *in.ParentCorrespondence == id
	}), nil
}

func (r *memLetters) Siblings(_ context.Context, id, parentID int64) ([]models.Correspondence, error) {
	return r.related(func(in *models.CorrespondenceInput, other int64) bool {
		return other != id && in.ParentCorrespondence != nil && *in.ParentCorrespondence == parentID
	}), nil
}

func (r *memLetters) StatusLogs(_ context.Context, id int64) ([]models.StatusLog, error) {
	out := []models.StatusLog{}
	for i := len(r.m.statusLogs) - 1; i >= 0; i-- {
		if r.m.statusLogs[i].Correspondence == id {
			out = append(out, r.m.statusLogs[i])
		}
	}
	return out, nil
}

func (r *memLetters) AddStatusLog(_ context.Context, l *models.StatusLog) error {
	l.ID = r.m.id()
	l.CreatedAt = time.Now()
	r.m.statusLogs = append(r.m.statusLogs, *l)
	return nil
}

type memAttachments struct {
	attachments.Repository
	m *memRepos
}

func (r *memAttachments) List(_ context.Context, l query.List) ([]models.Attachment, int, error) {
	out := []models.Attachment{}
	for _, a := range r.m.attachments {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (r *memAttachments) ByLetter(_ context.Context, letterID int64) ([]models.Attachment, error) {
	out := []models.Attachment{}
	for _, a := range r.m.attachments {
		if a.Correspondence == letterID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memAttachments) Get(_ context.Context, id int64) (*models.Attachment, error) {
	a, ok := r.m.attachments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAttachments) Create(_ context.Context, a *models.Attachment) (*models.Attachment, error) {
	if r.m.err != nil {
		return nil, r.m.err
	}
	a.ID = r.m.id()
	a.UploadedAt = time.Now()
	cp := *a
	r.m.attachments[a.ID] = &cp
	return a, nil
}

func (r *memAttachments) Delete(_ context.Context, id int64) error {
	if _, ok := r.m.attachments[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.attachments, id)
	return nil
}

// memStore is an in-memory object store.
type memStore struct {
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (s *memStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = b
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

func (s *memStore) URL(_ context.Context, key string) (string, error) {
	return "http://minio/" + key, nil
}

// newTxDB returns a sqlmock database that accepts up to n transactions,
// each ending in either a commit or a rollback.
func newTxDB(t *testing.T, n int) *sql.DB {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < n; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	t.Cleanup(func() { db.Close() })
	return db
}
