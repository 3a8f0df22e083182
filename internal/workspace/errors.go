package workspace

import "errors"

var (
	// ErrConfigNotFound means no workspace document is available. Fatal to
	// any sync attempt.
	ErrConfigNotFound = errors.New("workspace file not found")

	// ErrFolderNotFound means the requested path has no entry in the
	// document's folders list.
	ErrFolderNotFound = errors.New("folder not found in workspace")
)
