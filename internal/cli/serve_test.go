package cli

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T) *app {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := &cobra.Command{Use: "serve"}
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	a, err := bootstrap(cmd)
	require.NoError(t, err)
	t.Cleanup(a.close)
	return a
}

func TestNewServerFromConfig(t *testing.T) {
	a := testApp(t)
	a.cfg.Server.Port = 9191

	srv, err := a.newServer()
	require.NoError(t, err)
	defer srv.Stop(context.Background())
	assert.Equal(t, "127.0.0.1:9191", srv.Addr())

	a.cfg.Metrics.Enabled = false
	srv, err = a.newServer()
	require.NoError(t, err)
	defer srv.Stop(context.Background())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeUntilCancelled(t *testing.T) {
	a := testApp(t)

	srv, err := a.newServer()
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, srv, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestWatchCatalog(t *testing.T) {
	a := testApp(t)

	w, err := a.watchCatalog()
	require.NoError(t, err)
	assert.Nil(t, w, "watching is off by default")

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tools:
  - name: global_search
    category: search
    description: Search across candidates
    keywords: [search]
`), 0o644))
	a.cfg.Catalog.Path = path
	a.cfg.Catalog.Watch = true

	w, err = a.watchCatalog()
	require.NoError(t, err)
	require.NotNil(t, w)
	defer w.Stop()
	w.SetDebounce(10 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`
tools:
  - name: global_search
    category: search
    description: Search across candidates
    keywords: [search]
  - name: preview_email
    category: helpers
    description: Preview email before sending
    keywords: [preview email]
`), 0o644))

	require.Eventually(t, func() bool {
		return a.holder.Load().Len() == 2
	}, 3*time.Second, 20*time.Millisecond)
}
