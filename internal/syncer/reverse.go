package syncer

import (
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/wssync/wssync/internal/logging"
	"github.com/wssync/wssync/internal/pattern"
	"github.com/wssync/wssync/internal/resolver"
	"github.com/wssync/wssync/internal/settings"
	"github.com/wssync/wssync/internal/workspace"
	"github.com/wssync/wssync/pkg/types"
)

// Reverse reconciles one folder's artifact back into its workspace override.
// Only the net difference between the artifact and what forward sync would
// have produced is captured; keys matching the reverse exclude patterns or
// the reserved namespace never make it into the document. Returns whether
// the document was written.
//
// A missing or unparsable artifact means there is nothing to reconcile and
// is not an error. Persist failures are returned to the caller; nothing is
// retried.
func Reverse(doc *workspace.Document, folderPath string) (bool, error) {
	folder, err := doc.FolderByPath(folderPath)
	if err != nil {
		return false, err
	}
	if doc.IsDocumentRoot(folder) {
		return false, nil
	}
	if !doc.ReverseSyncEnabled(folder) {
		return false, nil
	}

	log := logging.ForPass("reverse", ulid.Make().String())

	actual := workspace.ReadArtifact(workspace.ArtifactPath(doc.AbsFolderPath(folder)))
	if actual == nil {
		log.Debug().Str("folder", folder.Path).Msg("no artifact to reconcile")
		return false, nil
	}

	expected := resolver.Resolve(doc, folder)
	patch := settings.Diff(expected, actual)

	excludes := pattern.NewSet(doc.ReverseExcludePatterns(folder))
	filtered := make(types.SettingsMap, len(patch))
	for key, value := range patch {
		if types.IsInternalKey(key) || excludes.Excluded(key) {
			continue
		}
		filtered[key] = value
	}
	if len(filtered) == 0 {
		log.Debug().Str("folder", folder.Path).Msg("artifact matches resolved settings")
		return false, nil
	}

	override := settings.CloneMap(folder.Settings)
	for key, value := range filtered {
		if value == nil {
			delete(override, key)
			continue
		}
		override[key] = settings.Clone(value)
	}
	folder.Settings = override

	if err := doc.Save(); err != nil {
		return false, fmt.Errorf("failed to persist workspace file: %w", err)
	}

	log.Info().
		Str("folder", folder.Path).
		Int("keys", len(filtered)).
		Msg("captured artifact changes into workspace override")
	return true, nil
}
