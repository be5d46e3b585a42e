package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/secdesk/internal/common"
	"github.com/dmitrijs2005/secdesk/internal/dbx"
	"github.com/dmitrijs2005/secdesk/internal/logging"
	"github.com/dmitrijs2005/secdesk/internal/server/config"
	"github.com/dmitrijs2005/secdesk/internal/server/models"
	"github.com/dmitrijs2005/secdesk/internal/server/repositories/attachments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttachmentService(t *testing.T) (*AttachmentService, *memRepos, *memStore, int64) {
	t.Helper()
	repos := newMemRepos()
	store := newMemStore()
	letterID := repos.id()
	repos.letters[letterID] = &models.CorrespondenceInput{Direction: common.DirectionIncoming}
	s := NewAttachmentService(nil, repos, store, &config.Config{MaxUploadBytes: 10}, logging.Nop{})
	return s, repos, store, letterID
}

func upload(name, body string) Upload {
	return Upload{Name: name, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestAttachmentService_Upload(t *testing.T) {
	ctx := context.Background()
	s, repos, store, letterID := newAttachmentService(t)

	out, err := s.Upload(ctx, letterID, []Upload{upload("scan.pdf", "%PDF"), upload("note.txt", "hi")})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "scan.pdf", out[0].FileName)
	assert.Equal(t, "application/pdf", out[0].FileType)
	assert.Equal(t, int64(4), out[0].FileSize)
	assert.True(t, strings.HasPrefix(out[0].StorageKey, "letters/"))
	assert.True(t, strings.HasSuffix(out[0].StorageKey, ".pdf"))
	assert.Equal(t, "http://minio/"+out[0].StorageKey, out[0].File)
	assert.Equal(t, []byte("%PDF"), store.objects[out[0].StorageKey])
	assert.Len(t, repos.attachments, 2)
}

func TestAttachmentService_UploadRejects(t *testing.T) {
	ctx := context.Background()
	s, repos, store, letterID := newAttachmentService(t)

	_, err := s.Upload(ctx, letterID, nil)
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.EqualError(t, err, MsgNoFile)

	_, err = s.Upload(ctx, 999, []Upload{upload("a.pdf", "x")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "correspondence")

	_, err = s.Upload(ctx, letterID, []Upload{upload("big.pdf", "01234567890")})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "file")

	assert.Empty(t, store.objects)
	assert.Empty(t, repos.attachments)
}

func TestAttachmentService_UploadRemovesObjectWhenRowFails(t *testing.T) {
	ctx := context.Background()
	s, repos, store, letterID := newAttachmentService(t)

	// The letter lookup must still succeed, so fail only the insert.
	s.repomanager = &failingAttachments{memRepos: repos}

	_, err := s.Upload(ctx, letterID, []Upload{upload("a.pdf", "x")})
	require.Error(t, err)
	assert.Empty(t, store.objects)
	assert.Len(t, store.deleted, 1)
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()
	s, repos, store, letterID := newAttachmentService(t)

	out, err := s.Upload(ctx, letterID, []Upload{upload("a.pdf", "x")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, out[0].ID))
	assert.Empty(t, repos.attachments)
	assert.Equal(t, []string{out[0].StorageKey}, store.deleted)

	require.ErrorIs(t, s.Delete(ctx, out[0].ID), common.ErrorNotFound)
}

func TestAttachmentService_ProcessMsgValidates(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newAttachmentService(t)

	_, err := s.ProcessMsg(ctx, "mail.msg", nil)
	assert.EqualError(t, err, MsgNoFile)

	_, err = s.ProcessMsg(ctx, "mail.eml", []byte("x"))
	assert.EqualError(t, err, MsgNotMsgFile)

	_, err = s.ProcessMsg(ctx, "mail.msg", []byte("definitely not a compound file"))
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to process .msg file: "))
}

type failingAttachments struct {
	*memRepos
}

func (f *failingAttachments) Attachments(db dbx.DBTX) attachments.Repository {
	return &brokenAttachments{Repository: f.memRepos.Attachments(db)}
}

type brokenAttachments struct {
	attachments.Repository
}

func (brokenAttachments) Create(context.Context, *models.Attachment) (*models.Attachment, error) {
	return nil, errors.New("insert failed")
}
