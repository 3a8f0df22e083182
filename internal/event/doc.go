/*
Package event provides a type-safe pub/sub event system connecting the
change watcher, the sync coordinator, and the status server.

The package is built on watermill's gochannel for infrastructure while
keeping direct-call semantics so event data retains its Go types.

# Event Types

Change events (published by the watcher, consumed by the coordinator):
  - workspace.changed: the workspace document was modified on disk
  - artifact.changed: a folder's settings artifact was modified on disk

Completion events (published by the coordinator, consumed by the status
server):
  - sync.forward.completed: a forward pass finished
  - sync.reverse.completed: a reverse pass finished

# Usage

	bus := event.NewBus()
	defer bus.Close()

	unsubscribe := bus.Subscribe(event.WorkspaceChanged, func(e event.Event) {
		data := e.Data.(event.WorkspaceChangedData)
		log.Debug().Str("path", data.Path).Msg("workspace changed")
	})
	defer unsubscribe()

	bus.PublishSync(event.Event{
		Type: event.WorkspaceChanged,
		Data: event.WorkspaceChangedData{Path: path},
	})

# Subscriber Safety

With PublishSync, subscribers run in the publisher's goroutine. Subscribers
must complete quickly, must not publish re-entrantly, and must not acquire
locks the publisher might hold. Publish delivers each event on a fresh
goroutine instead.
*/
package event
