package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wssync/wssync/internal/settings"
	"github.com/wssync/wssync/internal/workspace"
)

func loadWorkspace(t *testing.T, content string) *workspace.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.code-workspace")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	doc, err := workspace.Load(path)
	require.NoError(t, err)
	return doc
}

func TestResolveNullOverrideDeletesNestedKey(t *testing.T) {
	doc := loadWorkspace(t, `{
		"folders": [{"path": "app", "settings": {"b": {"y": null}}}],
		"settings": {"a": 1, "b": {"x": 1, "y": 2}}
	}`)

	resolved := Resolve(doc, &doc.Folders[0])

	assert.Equal(t, map[string]any{
		"a": float64(1),
		"b": map[string]any{"x": float64(1)},
	}, map[string]any(resolved))
}

func TestResolveSubfolderDefaultsApplyBeforeOverride(t *testing.T) {
	doc := loadWorkspace(t, `{
		"folders": [
			{"path": "app"},
			{"path": "lib", "settings": {"editor.tabSize": 8}}
		],
		"settings": {
			"wssync.sync.subFolderSettings.defaults": {"editor.tabSize": 2}
		}
	}`)

	plain := Resolve(doc, &doc.Folders[0])
	overridden := Resolve(doc, &doc.Folders[1])

	assert.Equal(t, float64(2), plain["editor.tabSize"])
	assert.Equal(t, float64(8), overridden["editor.tabSize"])
}

func TestResolveExcludedRootKeyNotInherited(t *testing.T) {
	doc := loadWorkspace(t, `{
		"folders": [
			{"path": "app"},
			{"path": "lib", "settings": {"files.exclude": {"dist": true}}}
		],
		"settings": {
			"files.exclude": {"node_modules": true},
			"editor.fontSize": 14,
			"wssync.sync.rootSettings.exclude": ["files.exclude"]
		}
	}`)

	plain := Resolve(doc, &doc.Folders[0])
	readded := Resolve(doc, &doc.Folders[1])

	// Excluded from inheritance for everyone...
	assert.NotContains(t, plain, "files.exclude")
	assert.Equal(t, float64(14), plain["editor.fontSize"])

	// ...but a folder may still set it explicitly.
	assert.Equal(t, map[string]any{"dist": true}, readded["files.exclude"])
}

func TestResolveStripsInternalKeysEverywhere(t *testing.T) {
	doc := loadWorkspace(t, `{
		"folders": [
			{"path": "app", "settings": {
				"wssync.reverseSync.enabled": false,
				"nested": {"wssync.private": 1, "keep": true}
			}}
		],
		"settings": {
			"wssync.sync.enabled": true,
			"wssync.sync.subFolderSettings.defaults": {"wssync.leaked": 1}
		}
	}`)

	resolved := Resolve(doc, &doc.Folders[0])

	for key := range resolved {
		assert.NotContains(t, key, "wssync.")
	}
	nested, ok := resolved["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"keep": true}, nested)
}

func TestResolveIsPureAndRepeatable(t *testing.T) {
	doc := loadWorkspace(t, `{
		"folders": [{"path": "app", "settings": {"b": {"y": null}}}],
		"settings": {"a": 1, "b": {"x": 1, "y": 2}}
	}`)

	before := settings.CloneMap(doc.Settings)
	first := Resolve(doc, &doc.Folders[0])
	second := Resolve(doc, &doc.Folders[0])

	assert.True(t, settings.Equal(first, second))
	assert.True(t, settings.Equal(before, doc.Settings), "document mutated by Resolve")

	// Mutating one result must not affect a later resolution.
	first["a"] = "tampered"
	third := Resolve(doc, &doc.Folders[0])
	assert.True(t, settings.Equal(second, third))
}

func TestResolveArrayOverrideReplaces(t *testing.T) {
	doc := loadWorkspace(t, `{
		"folders": [{"path": "app", "settings": {"cSpell.words": ["foo"]}}],
		"settings": {"cSpell.words": ["alpha", "beta"]}
	}`)

	resolved := Resolve(doc, &doc.Folders[0])

	assert.Equal(t, []any{"foo"}, resolved["cSpell.words"])
}
