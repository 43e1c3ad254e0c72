package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/schoolsync/internal/client/iocli"
)

type recordedRequest struct {
	Method         string
	Path           string
	Query          string
	IdempotencyKey string
}

// fakeDataService отвечает как табличный REST сервис и запоминает запросы
type fakeDataService struct {
	mu       sync.Mutex
	requests []recordedRequest

	down        atomic.Bool
	healthOK    atomic.Int64
	healthDowns atomic.Int64
}

func (f *fakeDataService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/health" {
		if f.down.Load() {
			f.healthDowns.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		f.healthOK.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:         r.Method,
		Path:           r.URL.Path,
		Query:          r.URL.RawQuery,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	f.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func (f *fakeDataService) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func writeTestConfig(t *testing.T, serverURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "schoolsync.toml")
	content := fmt.Sprintf(`[client]
server_url = %q
db_path = %q

[sync]
probe_interval = 1
probe_timeout = 1

[logging]
level = "error"
`, serverURL, filepath.Join(dir, "data", "queue.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	return runCLIContext(context.Background(), configPath, args...)
}

func runCLIContext(ctx context.Context, configPath string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := NewRootCommand(iocli.NewStdioWith(strings.NewReader(""), &out), BuildInfo{Version: "test"})
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRootCommand_OfflineWriteThenSync(t *testing.T) {
	service := &fakeDataService{}
	srv := httptest.NewServer(service)
	defer srv.Close()
	configPath := writeTestConfig(t, srv.URL)

	out, err := runCLI(t, configPath, "attendance",
		"--student", "stu-1", "--class", "7b", "--date", "2026-09-01", "--status", "late", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued upsert on attendance as #1")
	assert.Empty(t, service.Requests())

	out, err = runCLI(t, configPath, "grade",
		"--student", "stu-1", "--subject", "math", "--term", "2026-T1", "--score", "87", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued insert on grades as #2")

	out, err = runCLI(t, configPath, "queue", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "attendance")
	assert.Contains(t, out, "grades")
	assert.Contains(t, out, "2 mutations")

	out, err = runCLI(t, configPath, "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Succeeded: 2")

	reqs := service.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/rest/v1/attendance", reqs[0].Path)
	assert.Equal(t, "on_conflict=id", reqs[0].Query)
	assert.NotEmpty(t, reqs[0].IdempotencyKey)
	assert.Equal(t, "/rest/v1/grades", reqs[1].Path)

	out, err = runCLI(t, configPath, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending:    0")
	assert.Contains(t, out, "All writes reached the server")
}

func TestRootCommand_WatchSharesQueueWithOtherCommands(t *testing.T) {
	service := &fakeDataService{}
	srv := httptest.NewServer(service)
	defer srv.Close()
	configPath := writeTestConfig(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	watchDone := make(chan error, 1)
	go func() {
		_, err := runCLIContext(ctx, configPath, "watch")
		watchDone <- err
	}()
	t.Cleanup(func() {
		cancel()
		<-watchDone
	})

	// watch уже открыл очередь и опрашивает сервер
	require.Eventually(t, func() bool {
		return service.healthOK.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)

	out, err := runCLI(t, configPath, "attendance",
		"--student", "stu-1", "--class", "7b", "--date", "2026-09-01", "--status", "present", "--offline")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued upsert on attendance as #1")

	_, err = runCLI(t, configPath, "queue", "list")
	require.NoError(t, err)

	// связь пропадает и возвращается: watch отправляет очередь
	service.down.Store(true)
	require.Eventually(t, func() bool {
		return service.healthDowns.Load() > 0
	}, 5*time.Second, 20*time.Millisecond)
	service.down.Store(false)

	require.Eventually(t, func() bool {
		return len(service.Requests()) == 1
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, "/rest/v1/attendance", service.Requests()[0].Path)

	cancel()
	select {
	case err := <-watchDone:
		require.NoError(t, err)
		watchDone <- nil
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	out, err = runCLI(t, configPath, "queue")
	require.NoError(t, err)
	assert.Contains(t, out, "Queue is empty.")
}

func TestRootCommand_OnlineWriteIsNotQueued(t *testing.T) {
	service := &fakeDataService{}
	srv := httptest.NewServer(service)
	defer srv.Close()
	configPath := writeTestConfig(t, srv.URL)

	out, err := runCLI(t, configPath, "write", "timetable", "insert", `{"id":"t1","slot":2}`)
	require.NoError(t, err)
	assert.Contains(t, out, "insert on timetable applied")
	assert.Len(t, service.Requests(), 1)

	out, err = runCLI(t, configPath, "queue")
	require.NoError(t, err)
	assert.Contains(t, out, "Queue is empty.")
}

func TestRootCommand_UnreachableServerQueues(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	configPath := writeTestConfig(t, url)

	out, err := runCLI(t, configPath, "student", "--first-name", "Ada", "--last-name", "Lovelace")
	require.NoError(t, err)
	assert.Contains(t, out, "Server unavailable")
	assert.Contains(t, out, "Queued upsert on students as #1")

	_, err = runCLI(t, configPath, "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestRootCommand_ConfigInitAndVersion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	target := filepath.Join(dir, "conf", "schoolsync.toml")

	var out bytes.Buffer
	cmd := NewRootCommand(iocli.NewStdioWith(strings.NewReader(""), &out), BuildInfo{Version: "1.2.3"})
	cmd.SetArgs([]string{"config", "init", "--path", target})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, target)
	assert.Contains(t, out.String(), "Wrote sample configuration")

	out.Reset()
	cmd = NewRootCommand(iocli.NewStdioWith(strings.NewReader(""), &out), BuildInfo{Version: "1.2.3"})
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Version:    1.2.3")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[client]\nunknown_key = 1\n"), 0o600))

	_, err := runCLI(t, path, "status")
	require.Error(t, err)
}
