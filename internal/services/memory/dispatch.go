// File: internal/services/memory/dispatch.go
package memory

import (
	"context"
	"sync"
)

// Dispatcher runs extractions in the background. The request handler never
// waits on an extraction and never observes its outcome; all failures are
// logged here. At most one extraction per conversation is in flight at a
// time.
type Dispatcher struct {
	extractor *Extractor
	logger    Logger

	mu       sync.Mutex
	inFlight map[uint]bool
}

func NewDispatcher(extractor *Extractor, logger Logger) *Dispatcher {
	return &Dispatcher{
		extractor: extractor,
		logger:    logger,
		inFlight:  make(map[uint]bool),
	}
}

// Dispatch starts extraction for the conversation unless one is already
// running for it. It returns immediately.
func (d *Dispatcher) Dispatch(conversationID, userID uint) {
	d.mu.Lock()
	if d.inFlight[conversationID] {
		d.mu.Unlock()
		d.logger.Debug("extraction already in flight", "conversation_id", conversationID)
		return
	}
	d.inFlight[conversationID] = true
	d.mu.Unlock()

	go func() {
		defer func() {
			d.mu.Lock()
			delete(d.inFlight, conversationID)
			d.mu.Unlock()
		}()

		// Detached from the request context: the caller's request has
		// usually completed by the time extraction runs.
		if err := d.extractor.ExtractAndMerge(context.Background(), conversationID, userID); err != nil {
			d.logger.Error("memory extraction failed",
				"conversation_id", conversationID, "error", err)
		}
	}()
}
