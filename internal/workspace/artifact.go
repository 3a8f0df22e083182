package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wssync/wssync/pkg/types"
)

// Artifact location relative to a folder.
const (
	ArtifactDirName  = ".vscode"
	ArtifactFileName = "settings.json"
)

// ArtifactPath returns the settings artifact path for a folder directory.
func ArtifactPath(folderDir string) string {
	return filepath.Join(folderDir, ArtifactDirName, ArtifactFileName)
}

// MarshalArtifact serializes resolved settings deterministically: two-space
// indent, sorted keys (encoding/json map ordering), trailing newline. The
// forward engine compares this byte-for-byte against the file on disk.
func MarshalArtifact(s types.SettingsMap) ([]byte, error) {
	if s == nil {
		s = types.SettingsMap{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal artifact: %w", err)
	}
	return append(data, '\n'), nil
}

// ReadArtifact parses a folder's artifact. A missing or unparsable artifact
// is not an error condition; it yields a nil map, meaning "nothing to
// reconcile". An existing empty object parses to a non-nil empty map and
// does take part in reconciliation.
func ReadArtifact(path string) types.SettingsMap {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var s types.SettingsMap
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	// s stays nil if the file contained JSON null.
	return s
}

// WriteArtifact writes artifact bytes, creating the .vscode directory as
// needed.
func WriteArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes to a temp file and renames it into place so readers
// never observe a partial write.
func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}
