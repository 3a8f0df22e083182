// Package workspace owns reading and writing the hierarchical workspace
// document and the per-folder settings artifacts derived from it.
//
// The document is a JSON-superset file (comments and trailing commas are
// tolerated, processed with tidwall/jsonc) with top-level "folders" and
// "settings" fields. Any other top-level field is carried through a
// load/save cycle untouched: a save replaces only the two fields this tool
// owns.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"github.com/wssync/wssync/pkg/types"
)

// Document is an in-memory workspace file. It is the single shared mutable
// resource of the sync system: read fully, mutated, written back wholesale.
type Document struct {
	// Folders is the ordered list of folder entries. Order matters only for
	// identity lookup by path.
	Folders []types.FolderEntry

	// Settings is the root settings map, including reserved wssync.* keys.
	Settings types.SettingsMap

	path  string
	extra map[string]json.RawMessage
}

// Load reads and parses the workspace document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse workspace file %s: %w", path, err)
	}

	doc := &Document{
		Settings: make(types.SettingsMap),
		path:     abs,
		extra:    fields,
	}

	if raw, ok := fields["folders"]; ok {
		if err := json.Unmarshal(raw, &doc.Folders); err != nil {
			return nil, fmt.Errorf("invalid folders field: %w", err)
		}
		delete(fields, "folders")
	}
	if raw, ok := fields["settings"]; ok {
		if err := json.Unmarshal(raw, &doc.Settings); err != nil {
			return nil, fmt.Errorf("invalid settings field: %w", err)
		}
		delete(fields, "settings")
	}
	if doc.Settings == nil {
		doc.Settings = make(types.SettingsMap)
	}

	return doc, nil
}

// Save writes the document back to its file. Only "folders" and "settings"
// are replaced; every other top-level field is written back verbatim.
// Comments do not survive a save cycle.
func (d *Document) Save() error {
	fields := make(map[string]json.RawMessage, len(d.extra)+2)
	for key, raw := range d.extra {
		fields[key] = raw
	}

	folders := d.Folders
	if folders == nil {
		folders = []types.FolderEntry{}
	}
	rawFolders, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("failed to marshal folders: %w", err)
	}
	rawSettings, err := json.Marshal(d.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	fields["folders"] = rawFolders
	fields["settings"] = rawSettings

	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workspace file: %w", err)
	}

	return writeFileAtomic(d.path, append(data, '\n'))
}

// Path returns the absolute path of the workspace file.
func (d *Document) Path() string {
	return d.path
}

// RootPath returns the directory containing the workspace file.
func (d *Document) RootPath() string {
	return filepath.Dir(d.path)
}

// AbsFolderPath resolves a folder entry's path against the workspace root.
func (d *Document) AbsFolderPath(f *types.FolderEntry) string {
	if filepath.IsAbs(f.Path) {
		return filepath.Clean(f.Path)
	}
	return filepath.Join(d.RootPath(), f.Path)
}

// IsDocumentRoot reports whether the folder entry coincides with the
// directory holding the workspace file itself. That folder is excluded from
// both sync directions.
func (d *Document) IsDocumentRoot(f *types.FolderEntry) bool {
	return d.AbsFolderPath(f) == d.RootPath()
}

// FolderByPath finds the folder entry for a physical folder path. Relative
// paths are resolved against the workspace root.
func (d *Document) FolderByPath(path string) (*types.FolderEntry, error) {
	want := path
	if !filepath.IsAbs(want) {
		want = filepath.Join(d.RootPath(), want)
	}
	want = filepath.Clean(want)

	for i := range d.Folders {
		if d.AbsFolderPath(&d.Folders[i]) == want {
			return &d.Folders[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, path)
}

// AutoSyncEnabled reports whether the coordinator should react to change
// events at all. Root scope only, default true.
func (d *Document) AutoSyncEnabled() bool {
	return boolSetting(d.Settings, types.KeyAutoSyncEnabled, true)
}

// SyncEnabled reports whether forward sync runs. Root scope only, default
// true.
func (d *Document) SyncEnabled() bool {
	return boolSetting(d.Settings, types.KeySyncEnabled, true)
}

// RootExcludePatterns returns the do-not-inherit patterns applied to root
// settings during resolution. Root scope only.
func (d *Document) RootExcludePatterns() []string {
	return stringList(d.Settings[types.KeyRootExclude])
}

// SubfolderDefaults returns the defaults merged over root settings for every
// folder. Root scope only; an absent or malformed value is an empty map.
func (d *Document) SubfolderDefaults() types.SettingsMap {
	if m, ok := d.Settings[types.KeySubfolderDefault].(map[string]any); ok {
		return m
	}
	return types.SettingsMap{}
}

// ReverseSyncEnabled resolves reverse-sync enablement for a folder:
// folder overrides root overrides default-true.
func (d *Document) ReverseSyncEnabled(f *types.FolderEntry) bool {
	if v, ok := f.Settings[types.KeyReverseSyncEnabled].(bool); ok {
		return v
	}
	return boolSetting(d.Settings, types.KeyReverseSyncEnabled, true)
}

// ReverseExcludePatterns returns the reverse-sync exclusion patterns for a
// folder. Root and folder lists both contribute; this is a concatenation,
// not an override.
func (d *Document) ReverseExcludePatterns(f *types.FolderEntry) []string {
	patterns := stringList(d.Settings[types.KeyReverseExclude])
	return append(patterns, stringList(f.Settings[types.KeyReverseExclude])...)
}

// boolSetting reads a boolean setting, ignoring values of any other type.
func boolSetting(m types.SettingsMap, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

// stringList coerces a decoded JSON array into its string elements.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
