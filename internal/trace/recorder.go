package trace

import "sync"

// Recorder keeps every traced event in memory. It is safe to read while
// the handshake goroutine is still tracing.
type Recorder struct {
	mu     sync.Mutex
	role   string
	done   bool
	events []Event
}

func NewRecorder(role string) *Recorder {
	return &Recorder{role: role}
}

func (r *Recorder) Trace(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// MarkDone records that the handshake reached its terminal state.
func (r *Recorder) MarkDone() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = true
}

type Summary struct {
	Role   string
	Done   bool
	Events []Event
}

func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return Summary{
		Role:   r.role,
		Done:   r.done,
		Events: events,
	}
}
