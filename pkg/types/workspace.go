package types

import "strings"

// SettingsMap holds a JSON-decoded settings object. Values are any of
// nil, bool, float64, string, []any, or map[string]any.
type SettingsMap = map[string]any

// FolderEntry is one entry of the workspace file's "folders" array.
type FolderEntry struct {
	Name     string      `json:"name,omitempty"`
	Path     string      `json:"path"`
	Settings SettingsMap `json:"settings,omitempty"`
}

// InternalPrefix is the reserved key namespace for wssync's own
// configuration. Keys under this prefix are never written to an artifact.
const InternalPrefix = "wssync."

// Reserved configuration keys.
const (
	// Root scope only.
	KeyAutoSyncEnabled  = InternalPrefix + "autoSync.enabled"
	KeySyncEnabled      = InternalPrefix + "sync.enabled"
	KeyRootExclude      = InternalPrefix + "sync.rootSettings.exclude"
	KeySubfolderDefault = InternalPrefix + "sync.subFolderSettings.defaults"

	// Root and folder scope, folder wins.
	KeyReverseSyncEnabled = InternalPrefix + "reverseSync.enabled"
	// Root and folder scope, lists are concatenated.
	KeyReverseExclude = InternalPrefix + "reverseSync.folderSettings.exclude"
)

// IsInternalKey reports whether key belongs to the reserved namespace.
func IsInternalKey(key string) bool {
	return strings.HasPrefix(key, InternalPrefix)
}
