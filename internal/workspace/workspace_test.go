package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wssync/wssync/pkg/types"
)

// writeWorkspace writes a workspace file into a fresh temp dir and returns
// its path.
func writeWorkspace(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.code-workspace")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadToleratesCommentsAndTrailingCommas(t *testing.T) {
	path := writeWorkspace(t, `{
		// folders of this workspace
		"folders": [
			{"path": "app", "name": "App"},
			{"path": "lib"}, // trailing comma below
		],
		"settings": {
			"editor.fontSize": 14,
		},
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	require.Len(t, doc.Folders, 2)
	assert.Equal(t, "App", doc.Folders[0].Name)
	assert.Equal(t, "lib", doc.Folders[1].Path)
	assert.Equal(t, float64(14), doc.Settings["editor.fontSize"])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.code-workspace"))

	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestSavePreservesForeignTopLevelFields(t *testing.T) {
	path := writeWorkspace(t, `{
		"folders": [{"path": "app"}],
		"settings": {"a": 1},
		"extensions": {"recommendations": ["golang.go"]},
		"launch": {"configurations": []}
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	doc.Settings["b"] = float64(2)
	require.NoError(t, doc.Save())

	// Re-read raw to check fields this tool does not own survived.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Contains(t, fields, "extensions")
	assert.Contains(t, fields, "launch")
	assert.Equal(t,
		map[string]any{"recommendations": []any{"golang.go"}},
		fields["extensions"])

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float64(2), reloaded.Settings["b"])
	assert.Equal(t, float64(1), reloaded.Settings["a"])
}

func TestSaveEndsWithNewline(t *testing.T) {
	path := writeWorkspace(t, `{"folders": [], "settings": {}}`)

	doc, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, doc.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

func TestFolderByPath(t *testing.T) {
	path := writeWorkspace(t, `{
		"folders": [{"path": "app"}, {"path": "lib"}],
		"settings": {}
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	f, err := doc.FolderByPath("lib")
	require.NoError(t, err)
	assert.Equal(t, "lib", f.Path)

	abs := filepath.Join(doc.RootPath(), "app")
	f, err = doc.FolderByPath(abs)
	require.NoError(t, err)
	assert.Equal(t, "app", f.Path)

	_, err = doc.FolderByPath("missing")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestIsDocumentRoot(t *testing.T) {
	path := writeWorkspace(t, `{
		"folders": [{"path": "."}, {"path": "app"}],
		"settings": {}
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	assert.True(t, doc.IsDocumentRoot(&doc.Folders[0]))
	assert.False(t, doc.IsDocumentRoot(&doc.Folders[1]))
}

func TestEnablementDefaults(t *testing.T) {
	path := writeWorkspace(t, `{"folders": [{"path": "app"}], "settings": {}}`)

	doc, err := Load(path)
	require.NoError(t, err)

	assert.True(t, doc.AutoSyncEnabled())
	assert.True(t, doc.SyncEnabled())
	assert.True(t, doc.ReverseSyncEnabled(&doc.Folders[0]))
}

func TestReverseSyncEnabledPrecedence(t *testing.T) {
	path := writeWorkspace(t, `{
		"folders": [
			{"path": "a", "settings": {"wssync.reverseSync.enabled": true}},
			{"path": "b"}
		],
		"settings": {"wssync.reverseSync.enabled": false}
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	// Folder overrides root.
	assert.True(t, doc.ReverseSyncEnabled(&doc.Folders[0]))
	// Root applies when the folder is silent.
	assert.False(t, doc.ReverseSyncEnabled(&doc.Folders[1]))
}

func TestReverseExcludePatternsConcatenate(t *testing.T) {
	path := writeWorkspace(t, `{
		"folders": [
			{"path": "a", "settings": {
				"wssync.reverseSync.folderSettings.exclude": ["editor.*"]
			}}
		],
		"settings": {
			"wssync.reverseSync.folderSettings.exclude": ["files.exclude"]
		}
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	patterns := doc.ReverseExcludePatterns(&doc.Folders[0])
	assert.ElementsMatch(t, []string{"files.exclude", "editor.*"}, patterns)
}

func TestRootOnlyKeysIgnoredInFolderScope(t *testing.T) {
	// sync.enabled under a folder's settings has no effect; only the root
	// value counts.
	path := writeWorkspace(t, `{
		"folders": [
			{"path": "a", "settings": {"wssync.sync.enabled": false}}
		],
		"settings": {}
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	assert.True(t, doc.SyncEnabled())
}

func TestSubfolderDefaults(t *testing.T) {
	path := writeWorkspace(t, `{
		"folders": [],
		"settings": {
			"wssync.sync.subFolderSettings.defaults": {"editor.tabSize": 2}
		}
	}`)

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, float64(2), doc.SubfolderDefaults()["editor.tabSize"])

	doc.Settings[types.KeySubfolderDefault] = "not a map"
	assert.Empty(t, doc.SubfolderDefaults())
}

func TestArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := ArtifactPath(dir)

	data, err := MarshalArtifact(types.SettingsMap{"editor.fontSize": float64(14)})
	require.NoError(t, err)
	require.NoError(t, WriteArtifact(path, data))

	assert.Equal(t, byte('\n'), data[len(data)-1])

	s := ReadArtifact(path)
	require.NotNil(t, s)
	assert.Equal(t, float64(14), s["editor.fontSize"])
}

func TestReadArtifactAbsentOrBroken(t *testing.T) {
	dir := t.TempDir()

	assert.Nil(t, ReadArtifact(filepath.Join(dir, "missing.json")))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0644))
	assert.Nil(t, ReadArtifact(broken))
}

func TestMarshalArtifactDeterministic(t *testing.T) {
	s := types.SettingsMap{"b": float64(1), "a": float64(2), "c": true}

	first, err := MarshalArtifact(s)
	require.NoError(t, err)
	second, err := MarshalArtifact(s)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
