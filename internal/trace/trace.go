package trace

import (
	"github.com/robalb/threeway/pkg/header"
)

type Direction int

const (
	Sent Direction = iota
	Received
)

func (d Direction) String() string {
	if d == Sent {
		return "sent"
	}
	return "received"
}

// Event is one header crossing the channel, as seen by one side.
type Event struct {
	Direction Direction
	// Label is the handshake state name the header belongs to.
	Label  string
	Header header.Header
}

type Tracer interface {
	Trace(ev Event)
}

type multi []Tracer

func (m multi) Trace(ev Event) {
	for _, t := range m {
		t.Trace(ev)
	}
}

// Tee returns a Tracer that forwards every event to each of ts in order.
// Nil tracers are skipped.
func Tee(ts ...Tracer) Tracer {
	var m multi
	for _, t := range ts {
		if t != nil {
			m = append(m, t)
		}
	}
	return m
}
