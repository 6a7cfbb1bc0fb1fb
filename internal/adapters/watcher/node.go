package watcher

import (
	"context"
	"time"

	"github.com/grindlemire/graft"

	"github.com/mohitmv/qrun/internal/core/ports"
)

// NodeID is the unique identifier for the file watcher Graft node.
const NodeID graft.ID = "adapter.watcher"

func init() {
	graft.Register(graft.Node[ports.Watcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Watcher, error) {
			return NewWatcher()
		},
	})
}

// DefaultDebounceWindow is the default time window for coalescing file
// events before a rerun.
const DefaultDebounceWindow = 200 * time.Millisecond
