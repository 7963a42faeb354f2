package handshake

import (
	"github.com/robalb/threeway/internal/trace"
	"github.com/robalb/threeway/pkg/header"
)

// Initiator is the client side: it sends SYN, waits for SYN_ACK and
// answers with ACK.
type Initiator struct {
	state State
	hdr   header.Header
	// snap holds the sequence number the responder has to acknowledge.
	snap header.Header
}

func NewInitiator(isn uint32, localPort, serverPort uint16) *Initiator {
	h := header.New(isn, localPort, serverPort)
	return &Initiator{
		hdr:  h,
		snap: h.Snapshot(),
	}
}

func (m *Initiator) State() State {
	return m.state
}

func (m *Initiator) NeedsInput() bool {
	return m.state == StateSynAck
}

// Header returns the live header.
func (m *Initiator) Header() header.Header {
	return m.hdr
}

func (m *Initiator) Snapshot() header.Header {
	return m.snap
}

func (m *Initiator) Step(in header.Header) Transition {
	t := Transition{From: m.state}

	switch m.state {
	case StateSYN:
		m.hdr.Flags = header.SynOnly
		out := m.hdr
		t.Trace = []trace.Event{sent(StateName(StateSYN), out)}
		t.Out = &out
		m.state = StateSynAck

	case StateSynAck:
		t.Trace = []trace.Event{received(StateName(m.state), in)}
		m.state = checkpoint(m.state, in, header.SynAck, m.snap.SeqNum)

		// The reply leg mirrors the addressing of what was received
		// regardless of the outcome, so a retried SYN reuses it.
		m.hdr = in
		m.hdr.DstPort = in.SrcPort
		m.hdr.SrcPort = m.snap.SrcPort
		m.hdr.SeqNum++
		m.hdr.AckNum = m.hdr.SeqNum
		// Our own SYN consumed one sequence number.
		m.snap.SeqNum++
		m.hdr.SeqNum = m.snap.SeqNum
		m.hdr.Flags.Toggle(header.SYN)

	case StateACK:
		out := m.hdr
		t.Trace = []trace.Event{sent(StateName(StateACK), out)}
		t.Out = &out
		m.state = StateDone
	}

	t.To = m.state
	return t
}
