package event

import "time"

// WorkspaceChangedData is the data for workspace.changed events.
type WorkspaceChangedData struct {
	Path string `json:"path"`
}

// ArtifactChangedData is the data for artifact.changed events.
type ArtifactChangedData struct {
	// Folder is the absolute path of the folder whose artifact changed.
	Folder string `json:"folder"`
}

// ForwardCompletedData is the data for sync.forward.completed events.
type ForwardCompletedData struct {
	Written  int       `json:"written"`
	Finished time.Time `json:"finished"`
}

// ReverseCompletedData is the data for sync.reverse.completed events.
type ReverseCompletedData struct {
	Folder   string    `json:"folder"`
	Changed  bool      `json:"changed"`
	Finished time.Time `json:"finished"`
}
