// Package coordinator serializes the two sync directions so that automated
// writes never re-trigger themselves.
//
// It is an explicit three-state machine: Idle, Forwarding, Reversing. Change
// events are debounced per source with a fixed quiet window; an event whose
// direction is blocked by the current state is dropped, never queued. A
// change landing during an in-flight pass is only picked up if a new event
// fires after the machine returns to Idle.
package coordinator

import (
	"sync"
	"time"

	"github.com/wssync/wssync/internal/event"
	"github.com/wssync/wssync/internal/logging"
	"github.com/wssync/wssync/internal/syncer"
	"github.com/wssync/wssync/internal/workspace"
)

// State is the coordinator's sync state.
type State int

const (
	StateIdle State = iota
	StateForwarding
	StateReversing
)

func (s State) String() string {
	switch s {
	case StateForwarding:
		return "forwarding"
	case StateReversing:
		return "reversing"
	default:
		return "idle"
	}
}

// DefaultQuietWindow is the debounce delay between the last change event and
// the start of a pass.
const DefaultQuietWindow = 300 * time.Millisecond

// Config configures a Coordinator. The Load/Forward/Reverse hooks default to
// the real document loader and sync engines; tests replace them.
type Config struct {
	// WorkspacePath locates the document for the default loader.
	WorkspacePath string
	// QuietWindow overrides DefaultQuietWindow when positive.
	QuietWindow time.Duration

	Load    func() (*workspace.Document, error)
	Forward func(doc *workspace.Document) int
	Reverse func(doc *workspace.Document, folderPath string) (bool, error)
}

// Stats is a snapshot of coordinator activity, served by the status server.
type Stats struct {
	State            string    `json:"state"`
	ForwardPasses    int       `json:"forwardPasses"`
	ReversePasses    int       `json:"reversePasses"`
	ArtifactsWritten int       `json:"artifactsWritten"`
	DroppedEvents    int       `json:"droppedEvents"`
	LastForward      time.Time `json:"lastForward,omitzero"`
	LastReverse      time.Time `json:"lastReverse,omitzero"`
}

// Coordinator debounces change events and dispatches sync passes under the
// state machine's mutual exclusion.
type Coordinator struct {
	mu sync.Mutex

	state   State
	quiet   time.Duration
	load    func() (*workspace.Document, error)
	forward func(*workspace.Document) int
	reverse func(*workspace.Document, string) (bool, error)

	docTimer     *time.Timer
	folderTimers map[string]*time.Timer

	bus     *event.Bus
	unsubs  []func()
	stopped bool

	stats Stats
}

// New creates a Coordinator.
func New(cfg Config) *Coordinator {
	c := &Coordinator{
		state:        StateIdle,
		quiet:        cfg.QuietWindow,
		load:         cfg.Load,
		forward:      cfg.Forward,
		reverse:      cfg.Reverse,
		folderTimers: make(map[string]*time.Timer),
	}
	if c.quiet <= 0 {
		c.quiet = DefaultQuietWindow
	}
	if c.load == nil {
		path := cfg.WorkspacePath
		c.load = func() (*workspace.Document, error) { return workspace.Load(path) }
	}
	if c.forward == nil {
		c.forward = syncer.Forward
	}
	if c.reverse == nil {
		c.reverse = syncer.Reverse
	}
	return c
}

// Start subscribes the coordinator to change events on the bus. Completion
// events are published back on the same bus.
func (c *Coordinator) Start(bus *event.Bus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bus = bus
	c.unsubs = append(c.unsubs,
		bus.Subscribe(event.WorkspaceChanged, func(e event.Event) {
			c.OnWorkspaceChanged()
		}),
		bus.Subscribe(event.ArtifactChanged, func(e event.Event) {
			if data, ok := e.Data.(event.ArtifactChangedData); ok {
				c.OnArtifactChanged(data.Folder)
			}
		}),
	)
}

// Stop cancels pending debounce timers and detaches from the bus. An
// in-flight pass runs to completion; there is no cancellation mid-pass.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	if c.docTimer != nil {
		c.docTimer.Stop()
		c.docTimer = nil
	}
	for _, t := range c.folderTimers {
		t.Stop()
	}
	c.folderTimers = make(map[string]*time.Timer)
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
}

// OnWorkspaceChanged handles a document-changed event. While a reverse pass
// is in flight the document change is self-caused and dropped; otherwise the
// forward debounce timer restarts.
func (c *Coordinator) OnWorkspaceChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if c.state == StateReversing {
		c.stats.DroppedEvents++
		logging.Debug().Msg("dropping workspace change caused by reverse sync")
		return
	}
	if c.docTimer != nil {
		c.docTimer.Stop()
	}
	c.docTimer = time.AfterFunc(c.quiet, c.runForward)
}

// OnArtifactChanged handles an artifact-changed event for one folder. While
// a forward pass is in flight the artifact change is self-caused and
// dropped; otherwise that folder's reverse debounce timer restarts.
func (c *Coordinator) OnArtifactChanged(folderPath string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	if c.state == StateForwarding {
		c.stats.DroppedEvents++
		logging.Debug().Str("folder", folderPath).Msg("dropping artifact change caused by forward sync")
		return
	}
	if t, ok := c.folderTimers[folderPath]; ok {
		t.Stop()
	}
	c.folderTimers[folderPath] = time.AfterFunc(c.quiet, func() {
		c.runReverse(folderPath)
	})
}

// State returns the current sync state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns current activity counters.
func (c *Coordinator) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats := c.stats
	stats.State = c.state.String()
	return stats
}

// begin transitions Idle -> next, or reports that the pass must be dropped.
func (c *Coordinator) begin(next State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped || c.state != StateIdle {
		c.stats.DroppedEvents++
		return false
	}
	c.state = next
	return true
}

func (c *Coordinator) runForward() {
	if !c.begin(StateForwarding) {
		return
	}

	written := 0
	doc, err := c.load()
	switch {
	case err != nil:
		logging.Error().Err(err).Msg("forward pass aborted: cannot load workspace")
	case !doc.AutoSyncEnabled():
		logging.Debug().Msg("auto sync disabled, skipping forward pass")
	default:
		written = c.forward(doc)
	}

	c.mu.Lock()
	c.state = StateIdle
	c.stats.ForwardPasses++
	c.stats.ArtifactsWritten += written
	c.stats.LastForward = time.Now()
	bus := c.bus
	c.mu.Unlock()

	if bus != nil {
		bus.Publish(event.Event{
			Type: event.ForwardCompleted,
			Data: event.ForwardCompletedData{Written: written, Finished: time.Now()},
		})
	}
}

func (c *Coordinator) runReverse(folderPath string) {
	if !c.begin(StateReversing) {
		return
	}

	changed := false
	doc, err := c.load()
	switch {
	case err != nil:
		logging.Error().Err(err).Msg("reverse pass aborted: cannot load workspace")
	case !doc.AutoSyncEnabled():
		logging.Debug().Msg("auto sync disabled, skipping reverse pass")
	default:
		changed, err = c.reverse(doc, folderPath)
		if err != nil {
			logging.Error().Err(err).Str("folder", folderPath).Msg("reverse pass failed")
		}
	}

	c.mu.Lock()
	c.state = StateIdle
	c.stats.ReversePasses++
	c.stats.LastReverse = time.Now()
	bus := c.bus
	c.mu.Unlock()

	if bus != nil {
		bus.Publish(event.Event{
			Type: event.ReverseCompleted,
			Data: event.ReverseCompletedData{Folder: folderPath, Changed: changed, Finished: time.Now()},
		})
	}
}
