package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/peplab/pkg/adapters/health"
)

func TestHTTPChecker_Status(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"OK", http.StatusOK, true},
		{"No Content", http.StatusNoContent, false},
		{"Server Error", http.StatusInternalServerError, false},
		{"Unavailable", http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/health", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			ok, err := health.NewHTTPChecker(srv.URL + "/").Check(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestHTTPChecker_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	ok, err := health.NewHTTPChecker(srv.URL, health.WithTimeout(20*time.Millisecond)).Check(context.Background())
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestHTTPChecker_NetworkError(t *testing.T) {
	defer gock.Off()

	checker := health.NewHTTPChecker("http://backend.invalid")
	gock.InterceptClient(checker.Client())
	defer gock.RestoreClient(checker.Client())

	gock.New("http://backend.invalid").
		Get("/health").
		ReplyError(errors.New("connection refused"))

	ok, err := checker.Check(context.Background())
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, gock.IsDone())
}

func TestHTTPChecker_InterceptedHealthy(t *testing.T) {
	defer gock.Off()

	checker := health.NewHTTPChecker("http://backend.invalid/api")
	gock.InterceptClient(checker.Client())
	defer gock.RestoreClient(checker.Client())

	gock.New("http://backend.invalid").
		Get("/api/health").
		Reply(200).
		JSON(map[string]string{"status": "ok"})

	ok, err := checker.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://backend.invalid/api/health", checker.URL())
}

func TestHTTPChecker_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := health.NewHTTPChecker("http://127.0.0.1:1").Check(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPChecker_NilClientIgnored(t *testing.T) {
	c := health.NewHTTPChecker("http://backend", health.WithHTTPClient(nil), health.WithTimeout(time.Second))

	require.NotNil(t, c.Client())
	assert.Equal(t, time.Second, c.Client().Timeout)
}
