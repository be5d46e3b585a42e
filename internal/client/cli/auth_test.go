package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/secdesk/internal/client/apierr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_LoginFailureMessages(t *testing.T) {
	orig := getPassword
	defer func() { getPassword = orig }()
	getPassword = func(io.Writer, string) ([]byte, error) { return []byte("wrong"), nil }

	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"bad credentials", http.StatusUnauthorized, apierr.MsgBadCredentials},
		{"no access", http.StatusForbidden, apierr.MsgNoSystemAccess},
		{"server error", http.StatusInternalServerError, apierr.MsgServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureOutput(t)
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": "بيانات تسجيل الدخول غير صحيحة"}`))
			}))
			defer ts.Close()

			a := newTestApp(t, ts.URL, "omar\nn\n")
			err := a.Login(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())

			report(err)
			assert.Contains(t, *out, tt.want)
			assert.NotContains(t, *out, apierr.MsgSession)
		})
	}
}

func TestApp_LoginNetworkFailure(t *testing.T) {
	orig := getPassword
	defer func() { getPassword = orig }()
	getPassword = func(io.Writer, string) ([]byte, error) { return []byte("pw"), nil }

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	a := newTestApp(t, url, "omar\nn\n")
	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, apierr.MsgLoginNetwork, err.Error())
}
