package docstore_test

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/docstore/pkg/docstore"
	"github.com/calvinalkan/docstore/pkg/docstore/format"
)

// newRepo opens a JSON repository named "docs" in a fresh temp root. mutate
// may adjust the config before New.
func newRepo(t *testing.T, mutate ...func(*docstore.Config)) *docstore.Repository {
	t.Helper()

	cfg := docstore.Config{
		Root:       t.TempDir(),
		Formatter:  format.NewJSON(),
		RandSource: rand.NewPCG(1, 2),
	}

	for _, m := range mutate {
		m(&cfg)
	}

	repo, err := docstore.New("docs", cfg)
	require.NoError(t, err)

	return repo
}

func writeRaw(t *testing.T, repo *docstore.Repository, name, content string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(repo.Path(), name), []byte(content), 0o644)
	require.NoError(t, err)
}

func readRaw(t *testing.T, repo *docstore.Repository, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(repo.Path(), name))
	require.NoError(t, err)

	return string(data)
}

// logBuffer is a concurrency-safe sink for a text slog handler.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *logBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.buf.Write(p)
}

func (l *logBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.buf.String()
}

func newTestLogger(buf *logBuffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
