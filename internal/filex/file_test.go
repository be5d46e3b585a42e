package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSubDir_CreatesAndIsIdempotent(t *testing.T) {
	base := t.TempDir()

	got, err := EnsureSubDir(base, "data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "data"), got)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	again, err := EnsureSubDir(base, "data")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestEnsureSubDir_FailsUnderAFile(t *testing.T) {
	base := t.TempDir()
	f := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o600))

	_, err := EnsureSubDir(f, "sub")
	require.Error(t, err)
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 بايت"},
		{512, "512 بايت"},
		{1024, "1 كيلوبايت"},
		{1536, "1.5 كيلوبايت"},
		{5 * 1024 * 1024, "5 ميجابايت"},
		{3 * 1024 * 1024 * 1024, "3 جيجابايت"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HumanSize(tt.in))
	}
}

func TestDetectMime(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectMime("scan.PDF", nil))
	assert.Equal(t, "text/plain; charset=utf-8", DetectMime("noext", []byte("hello")))
	assert.Equal(t, "application/octet-stream", DetectMime("noext", nil))
}

func TestIsOutlookMessage(t *testing.T) {
	assert.True(t, IsOutlookMessage("mail.MSG"))
	assert.False(t, IsOutlookMessage("mail.msg.pdf"))
}
