package cli

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/peplab/internal/config"
	"github.com/aretw0/peplab/internal/logging"
	"github.com/aretw0/peplab/pkg/adapters/memory"
	"github.com/aretw0/peplab/pkg/adapters/redis"
	"github.com/aretw0/peplab/pkg/domain"
)

func newBackend(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(backendURL string) config.Config {
	cfg := config.DefaultConfig()
	cfg.Backend.URL = backendURL
	cfg.Backend.Timeout = time.Second
	return cfg
}

func TestOpenStore(t *testing.T) {
	t.Run("Memory", func(t *testing.T) {
		store, locker, closeFn, err := OpenStore(config.DefaultConfig())
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
		assert.Nil(t, locker)
		assert.NoError(t, closeFn())
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.DefaultConfig()
		cfg.Session.Store = "redis"
		cfg.Redis.Addr = mr.Addr()

		store, locker, closeFn, err := OpenStore(cfg)
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, store)
		assert.NotNil(t, locker)
		assert.NoError(t, closeFn())
	})

	t.Run("Redis Without Lock", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Session.Store = "redis"
		cfg.Redis.Lock = false

		_, locker, closeFn, err := OpenStore(cfg)
		require.NoError(t, err)
		assert.Nil(t, locker)
		_ = closeFn()
	})

	t.Run("Unknown", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Session.Store = "etcd"
		_, _, _, err := OpenStore(cfg)
		assert.ErrorContains(t, err, "etcd")
	})
}

func TestNewRuntime_RedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	backend := newBackend(t, http.StatusOK)

	cfg := testConfig(backend.URL)
	cfg.Session.Store = "redis"
	cfg.Redis.Addr = mr.Addr()

	rt, err := NewRuntime(cfg, logging.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	res, err := rt.Engine.Navigate(context.Background(), "s1", "design/genetic")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApplied, res.Outcome.Status)

	ids, err := rt.Store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
	assert.True(t, mr.Exists(cfg.Redis.Prefix+"s:s1"))
}

func TestServerHandler_Metrics(t *testing.T) {
	backend := newBackend(t, http.StatusOK)
	cfg := testConfig(backend.URL)

	rt, err := NewRuntime(cfg, logging.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	srv := httptest.NewServer(NewServerHandler(rt, cfg, logging.NewNop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/analysis")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Contains(t, string(body), `peplab_navigation_outcomes_total{status="applied"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestServerHandler_MetricsDisabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Metrics.Enabled = false

	rt, err := NewRuntime(cfg, logging.NewNop())
	require.NoError(t, err)
	defer rt.Close()
	assert.Nil(t, rt.Registry)

	srv := httptest.NewServer(NewServerHandler(rt, cfg, logging.NewNop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_GracefulShutdown(t *testing.T) {
	backend := newBackend(t, http.StatusOK)
	cfg := testConfig(backend.URL)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, cfg, logging.NewNop(), &out) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
	assert.Contains(t, out.String(), "stopped gracefully")
}

func TestProbe(t *testing.T) {
	up := Probe(context.Background(), testConfig(newBackend(t, http.StatusOK).URL))
	assert.True(t, up.Up)
	assert.NoError(t, up.Err)

	down := Probe(context.Background(), testConfig(newBackend(t, http.StatusBadGateway).URL))
	assert.False(t, down.Up)
	assert.NoError(t, down.Err)

	unreachable := Probe(context.Background(), testConfig("http://127.0.0.1:1"))
	assert.False(t, unreachable.Up)
	assert.Error(t, unreachable.Err)
	assert.Contains(t, unreachable.Render(true), "inactive")
}

func TestWriteRoutes(t *testing.T) {
	var md bytes.Buffer
	require.NoError(t, WriteRoutes(&md, "md", true))
	assert.Contains(t, md.String(), "| `/modeling/docking` | Molecular Docking |")

	var y bytes.Buffer
	require.NoError(t, WriteRoutes(&y, "yaml", true))
	assert.Contains(t, y.String(), "route: /optimization/genetic")
	assert.Contains(t, y.String(), "- type: design")

	assert.ErrorContains(t, WriteRoutes(io.Discard, "csv", true), "csv")
}

func TestWriteGraph(t *testing.T) {
	var plain bytes.Buffer
	require.NoError(t, WriteGraph(&plain, nil))
	assert.NotContains(t, plain.String(), "classDef")

	var overlaid bytes.Buffer
	snap := &domain.Snapshot{History: []string{"/", "/dashboard", "/analysis"}}
	require.NoError(t, WriteGraph(&overlaid, snap))
	assert.Contains(t, overlaid.String(), "class analysis current;")
}

func TestSessionCommands(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var out bytes.Buffer
	require.NoError(t, ListSessions(ctx, store, &out))
	assert.Equal(t, "No active sessions found.\n", out.String())

	require.NoError(t, store.Save(ctx, "b", &domain.Snapshot{SessionID: "b", History: []string{"/"}}))
	require.NoError(t, store.Save(ctx, "a", &domain.Snapshot{SessionID: "a", History: []string{"/", "/dashboard"}}))

	out.Reset()
	require.NoError(t, ListSessions(ctx, store, &out))
	assert.Equal(t, "Active Sessions:\n- a\n- b\n", out.String())

	out.Reset()
	require.NoError(t, InspectSession(ctx, store, "a", &out))
	assert.Contains(t, out.String(), `"session_id": "a"`)
	assert.Contains(t, out.String(), `"/dashboard"`)

	err := InspectSession(ctx, store, "missing", io.Discard)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	out.Reset()
	require.NoError(t, RemoveSessions(ctx, store, []string{"a", "b"}, &out))
	assert.Equal(t, 2, strings.Count(out.String(), "Removed session"))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestNewLogger(t *testing.T) {
	assert.True(t, NewLogger(true, "error").Enabled(context.Background(), -4))
	assert.False(t, NewLogger(false, "warn").Enabled(context.Background(), 0))
}
