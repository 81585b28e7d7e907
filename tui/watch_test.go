package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "query.graphql")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("{ a }"), 0644))

	w, err := newFileWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- w.next() }()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("{ b }"), 0644))

	select {
	case msg := <-msgs:
		q, ok := msg.(queryFileMsg)
		require.True(t, ok, "got %T", msg)
		assert.Equal(t, "{ b }", q.query)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestFileWatcher_ClosedReturnsNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.graphql")
	require.NoError(t, os.WriteFile(path, []byte("{ a }"), 0644))

	w, err := newFileWatcher(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Nil(t, w.next())
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	_, err := newFileWatcher(filepath.Join(t.TempDir(), "nope", "query.graphql"))
	assert.Error(t, err)
}
