// Package resolver computes the settings a folder's artifact should contain,
// derived strictly from the workspace document and the folder's identity.
package resolver

import (
	"github.com/wssync/wssync/internal/pattern"
	"github.com/wssync/wssync/internal/settings"
	"github.com/wssync/wssync/internal/workspace"
	"github.com/wssync/wssync/pkg/types"
)

// Resolve runs the four-stage resolution pipeline for one folder:
//
//  1. strip reserved wssync.* keys from the root settings,
//  2. merge the subfolder defaults over them,
//  3. drop root keys matching the do-not-inherit exclude patterns,
//  4. merge the folder's own (stripped) override last.
//
// A final sweep removes any reserved key a stage reintroduced, so the result
// is guaranteed free of the internal namespace. Resolve never mutates the
// document and is pure with respect to artifact state: the same document
// yields a deep-equal result every time.
func Resolve(doc *workspace.Document, folder *types.FolderEntry) types.SettingsMap {
	resolved := stripInternal(doc.Settings)
	resolved = settings.Merge(resolved, doc.SubfolderDefaults())
	resolved = pattern.NewSet(doc.RootExcludePatterns()).Filter(resolved)
	resolved = settings.Merge(resolved, stripInternal(folder.Settings))
	return stripInternal(resolved)
}

// stripInternal returns a copy of the tree with reserved-namespace keys
// removed at every nesting level.
func stripInternal(m types.SettingsMap) types.SettingsMap {
	out := make(types.SettingsMap, len(m))
	for key, value := range m {
		if types.IsInternalKey(key) {
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			out[key] = stripInternal(nested)
			continue
		}
		out[key] = value
	}
	return out
}
