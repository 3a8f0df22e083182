package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wssync/wssync/internal/event"
	"github.com/wssync/wssync/internal/workspace"
)

func setup(t *testing.T) (*workspace.Document, *event.Bus) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "app", ".vscode"), 0755))
	path := filepath.Join(dir, "test.code-workspace")
	content := `{"folders": [{"path": "app"}], "settings": {}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	doc, err := workspace.Load(path)
	require.NoError(t, err)

	bus := event.NewBus()
	t.Cleanup(func() { bus.Close() })
	return doc, bus
}

func collect(bus *event.Bus, types ...event.Type) <-chan event.Event {
	ch := make(chan event.Event, 16)
	for _, et := range types {
		bus.Subscribe(et, func(e event.Event) {
			select {
			case ch <- e:
			default:
			}
		})
	}
	return ch
}

func waitEvent(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return event.Event{}
	}
}

func TestWorkspaceFileChangePublishes(t *testing.T) {
	doc, bus := setup(t)
	ch := collect(bus, event.WorkspaceChanged)

	w, err := New(doc, bus)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	// Give the watch a moment to become effective before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(doc.Path(), []byte(`{"folders": [], "settings": {}}`), 0644))

	e := waitEvent(t, ch)
	data, ok := e.Data.(event.WorkspaceChangedData)
	require.True(t, ok)
	assert.Equal(t, doc.Path(), data.Path)
}

func TestArtifactChangePublishesFolder(t *testing.T) {
	doc, bus := setup(t)
	ch := collect(bus, event.ArtifactChanged)

	w, err := New(doc, bus)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	folderDir := filepath.Join(doc.RootPath(), "app")
	artifact := workspace.ArtifactPath(folderDir)
	require.NoError(t, os.WriteFile(artifact, []byte("{\n}\n"), 0644))

	e := waitEvent(t, ch)
	data, ok := e.Data.(event.ArtifactChangedData)
	require.True(t, ok)
	assert.Equal(t, folderDir, data.Folder)
}

func TestStopIsIdempotent(t *testing.T) {
	doc, bus := setup(t)

	w, err := New(doc, bus)
	require.NoError(t, err)
	w.Start()

	require.NoError(t, w.Stop())
	assert.NotPanics(t, func() { w.Stop() })
}
