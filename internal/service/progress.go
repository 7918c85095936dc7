package service

import (
	"sync"

	"clipforge/internal/types"
)

const subscriberBuffer = 16

// ProgressHub fans render events out to per-job subscribers. Publishing
// never blocks: a subscriber that falls behind loses events, the job row
// still carries the authoritative percent.
type ProgressHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan types.RenderEvent]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[string]map[chan types.RenderEvent]struct{})}
}

// Subscribe registers for one job's events. The returned cancel func is
// idempotent and closes the channel.
func (h *ProgressHub) Subscribe(jobId string) (<-chan types.RenderEvent, func()) {
	ch := make(chan types.RenderEvent, subscriberBuffer)

	h.mu.Lock()
	if h.subs[jobId] == nil {
		h.subs[jobId] = make(map[chan types.RenderEvent]struct{})
	}
	h.subs[jobId][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[jobId], ch)
			if len(h.subs[jobId]) == 0 {
				delete(h.subs, jobId)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of its job.
func (h *ProgressHub) Publish(event types.RenderEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[event.JobId] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers reports how many consumers follow a job.
func (h *ProgressHub) Subscribers(jobId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[jobId])
}
