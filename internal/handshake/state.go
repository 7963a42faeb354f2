// Package handshake implements both sides of the simulated three-way
// handshake as step functions, plus a loop that binds a side to a channel.
package handshake

import (
	"github.com/robalb/threeway/internal/trace"
	"github.com/robalb/threeway/pkg/header"
)

// State is the index of the next step a side has to perform.
type State int

const (
	StateSYN State = iota
	StateSynAck
	StateACK
	// StateDone is reached after the ACK step completes.
	StateDone
)

var stateNames = [...]string{"SYN", "SYN_ACK", "ACK"}

// StateName returns the trace label of s, or "ERROR" for an index that is
// not a handshake step.
func StateName(s State) string {
	if s < 0 || int(s) >= len(stateNames) {
		return "ERROR"
	}
	return stateNames[s]
}

func (s State) String() string {
	if s == StateDone {
		return "DONE"
	}
	return StateName(s)
}

// Transition is the result of one step.
type Transition struct {
	From, To State
	// Out is the header to send after tracing, nil when the step only
	// receives.
	Out   *header.Header
	Trace []trace.Event
}

// Regressed reports whether validation moved the machine backwards.
func (t Transition) Regressed() bool {
	return t.To < t.From
}

// Machine is one side of the handshake.
type Machine interface {
	State() State
	// NeedsInput reports whether the next Step consumes a received header.
	NeedsInput() bool
	// Step performs the current step. in is ignored unless NeedsInput
	// was true.
	Step(in header.Header) Transition
}

func done(m Machine) bool {
	return m.State() >= StateDone
}

// checkpoint applies the shared acceptance rule of a receiving step. An
// acknowledgment that does not follow baseline sends the machine one step
// back so the previous message goes out again. Otherwise it moves forward
// only when the flags are exactly want.
func checkpoint(s State, got header.Header, want header.Flags, baseline uint32) State {
	switch {
	case !acknowledges(got, baseline):
		return s - 1
	case got.Flags == want:
		return s + 1
	}
	return s
}

func acknowledges(got header.Header, seq uint32) bool {
	return got.AckNum == seq+1
}

func sent(label string, h header.Header) trace.Event {
	return trace.Event{Direction: trace.Sent, Label: label, Header: h}
}

func received(label string, h header.Header) trace.Event {
	return trace.Event{Direction: trace.Received, Label: label, Header: h}
}
