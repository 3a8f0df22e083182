// Package watcher turns raw filesystem notifications into the change events
// the coordinator consumes.
package watcher

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/wssync/wssync/internal/event"
	"github.com/wssync/wssync/internal/logging"
	"github.com/wssync/wssync/internal/workspace"
)

// Watcher watches the workspace file and every folder's .vscode directory,
// publishing workspace.changed and artifact.changed events on the bus.
// It is edge-triggered and does no coalescing itself; the coordinator's
// debounce window absorbs bursts.
type Watcher struct {
	watcher *fsnotify.Watcher
	bus     *event.Bus

	docPath string
	// artifact file path -> absolute folder path
	artifacts map[string]string
	// folder dir -> absolute folder path, to pick up late .vscode creation
	folderDirs map[string]string

	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	mu      sync.Mutex
}

// New creates a watcher for the given document's file and folders.
//
// TODO: re-add watches when a workspace change adds or removes folders;
// currently the folder set is fixed at construction time and watch mode must
// be restarted after editing the folders list.
func New(doc *workspace.Document, bus *event.Bus) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:    fsw,
		bus:        bus,
		docPath:    doc.Path(),
		artifacts:  make(map[string]string),
		folderDirs: make(map[string]string),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}

	// Watch the directory holding the workspace file; editors replace files
	// by rename, which a file-level watch would lose.
	if err := fsw.Add(filepath.Dir(doc.Path())); err != nil {
		fsw.Close()
		return nil, err
	}

	for i := range doc.Folders {
		folder := &doc.Folders[i]
		if doc.IsDocumentRoot(folder) {
			continue
		}
		dir := doc.AbsFolderPath(folder)
		w.folderDirs[dir] = dir
		w.artifacts[workspace.ArtifactPath(dir)] = dir

		// The folder dir watch catches .vscode being created later.
		if err := fsw.Add(dir); err != nil {
			logging.Warn().Err(err).Str("folder", folder.Path).Msg("cannot watch folder")
			continue
		}
		vscodeDir := filepath.Join(dir, workspace.ArtifactDirName)
		if err := fsw.Add(vscodeDir); err != nil {
			logging.Debug().Str("folder", folder.Path).Msg("no .vscode directory yet")
		}
	}

	return w, nil
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	name := filepath.Clean(ev.Name)

	if name == w.docPath {
		logging.Debug().Str("op", ev.Op.String()).Msg("workspace file changed")
		w.bus.PublishSync(event.Event{
			Type: event.WorkspaceChanged,
			Data: event.WorkspaceChangedData{Path: w.docPath},
		})
		return
	}

	if folder, ok := w.artifacts[name]; ok {
		logging.Debug().Str("folder", folder).Str("op", ev.Op.String()).Msg("artifact changed")
		w.bus.PublishSync(event.Event{
			Type: event.ArtifactChanged,
			Data: event.ArtifactChangedData{Folder: folder},
		})
		return
	}

	// A .vscode directory appeared in a watched folder: start watching it.
	if ev.Op&fsnotify.Create != 0 && filepath.Base(name) == workspace.ArtifactDirName {
		if _, ok := w.folderDirs[filepath.Dir(name)]; ok {
			if err := w.watcher.Add(name); err != nil {
				logging.Warn().Err(err).Str("dir", name).Msg("cannot watch new .vscode directory")
			}
		}
	}
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}
	return w.watcher.Close()
}
