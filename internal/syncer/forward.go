// Package syncer implements the two sync directions: forward resolution of
// the workspace document into per-folder artifacts, and reverse capture of
// out-of-band artifact edits into folder overrides.
package syncer

import (
	"bytes"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/wssync/wssync/internal/logging"
	"github.com/wssync/wssync/internal/resolver"
	"github.com/wssync/wssync/internal/workspace"
)

// Forward runs one forward pass: for every folder except the one holding the
// workspace file itself, resolve its settings and write the artifact if the
// serialized content differs. Per-folder I/O failures are logged and do not
// abort the rest of the pass. Returns the number of artifacts written; a
// second pass with no intervening change writes nothing.
func Forward(doc *workspace.Document) int {
	if !doc.SyncEnabled() {
		return 0
	}

	log := logging.ForPass("forward", ulid.Make().String())
	written := 0

	for i := range doc.Folders {
		folder := &doc.Folders[i]
		if doc.IsDocumentRoot(folder) {
			continue
		}

		resolved := resolver.Resolve(doc, folder)
		want, err := workspace.MarshalArtifact(resolved)
		if err != nil {
			log.Error().Err(err).Str("folder", folder.Path).Msg("failed to serialize resolved settings")
			continue
		}

		path := workspace.ArtifactPath(doc.AbsFolderPath(folder))
		current, err := os.ReadFile(path)
		if err != nil {
			// Absent artifact: treated as "no artifact yet", always differs.
			current = nil
		}
		if bytes.Equal(current, want) {
			continue
		}

		logArtifactDiff(log, folder.Path, current, want)

		if err := workspace.WriteArtifact(path, want); err != nil {
			log.Error().Err(err).Str("folder", folder.Path).Msg("failed to write artifact")
			continue
		}
		written++
		log.Info().Str("folder", folder.Path).Msg("artifact updated")
	}

	log.Debug().Int("written", written).Msg("forward pass finished")
	return written
}

// logArtifactDiff logs a textual patch of the pending artifact change at
// debug level.
func logArtifactDiff(log zerolog.Logger, folder string, current, want []byte) {
	if log.GetLevel() > zerolog.DebugLevel {
		return
	}
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(string(current), string(want))
	log.Debug().
		Str("folder", folder).
		Str("patch", dmp.PatchToText(patches)).
		Msg("artifact content changed")
}
