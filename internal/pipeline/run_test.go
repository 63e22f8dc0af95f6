package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/stackoverflow-pipeline/internal/csvout"
	"github.com/jonathan/stackoverflow-pipeline/internal/stackexchange"
)

// newAPIServer serves a minimal item page for every resource, returning
// 500 for the kinds listed in failing.
func newAPIServer(t *testing.T, failing ...string) *httptest.Server {
	t.Helper()
	failSet := map[string]bool{}
	for _, kind := range failing {
		failSet[kind] = true
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind := r.URL.Path[1:]
		if failSet[kind] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":1,"creation_date":1609459200},{"id":2,"creation_date":0}]}`))
	}))
}

func newTestOptions(t *testing.T, server *httptest.Server) (Options, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	return Options{
		OutputDir: t.TempDir(),
		BaseURL:   server.URL,
		Fetcher:   stackexchange.NewClient(server.URL, logger),
		Writer:    csvout.NewWriter(csvout.FirstRecordColumns),
		Logger:    logger,
	}, &buf
}

func TestRun_AllResourcesSucceed(t *testing.T) {
	server := newAPIServer(t)
	defer server.Close()

	opts, _ := newTestOptions(t, server)
	summary := Run(context.Background(), opts)

	assert.Len(t, summary.Succeeded, 5)
	assert.Empty(t, summary.Failed)

	for _, res := range stackexchange.Resources() {
		path := filepath.Join(opts.OutputDir, res.OutputFile())
		data, err := os.ReadFile(path)
		require.NoError(t, err, "expected output for %s", res.Kind)
		assert.Equal(t, "id,creation_date\n1,01-01-2021\n2,\n", string(data))
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	server := newAPIServer(t, "posts")
	defer server.Close()

	opts, buf := newTestOptions(t, server)
	summary := Run(context.Background(), opts)

	assert.Equal(t, []string{"posts"}, summary.Failed)
	assert.Equal(t, []string{"questions", "users", "tags", "comments"}, summary.Succeeded)

	_, err := os.Stat(filepath.Join(opts.OutputDir, "stackoverflow_posts.csv"))
	assert.True(t, os.IsNotExist(err), "failed resource must produce no file")

	for _, kind := range summary.Succeeded {
		_, err := os.Stat(filepath.Join(opts.OutputDir, "stackoverflow_"+kind+".csv"))
		assert.NoError(t, err)
	}

	log := buf.String()
	assert.Contains(t, log, "level=ERROR")
	assert.Contains(t, log, "level=WARN")
	assert.Contains(t, log, "resource=posts")
	assert.Contains(t, log, "data pipeline completed")
}

func TestRun_AllResourcesFail(t *testing.T) {
	server := newAPIServer(t, "questions", "posts", "users", "tags", "comments")
	defer server.Close()

	opts, _ := newTestOptions(t, server)
	summary := Run(context.Background(), opts)

	assert.Empty(t, summary.Succeeded)
	assert.Len(t, summary.Failed, 5)

	entries, err := os.ReadDir(opts.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_WriteFailureIsRecovered(t *testing.T) {
	server := newAPIServer(t)
	defer server.Close()

	opts, buf := newTestOptions(t, server)
	opts.OutputDir = filepath.Join(opts.OutputDir, "does-not-exist")

	summary := Run(context.Background(), opts)

	assert.Empty(t, summary.Succeeded)
	assert.Len(t, summary.Failed, 5)
	assert.Contains(t, buf.String(), "failed to write CSV file")
}
