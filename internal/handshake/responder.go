package handshake

import (
	"github.com/robalb/threeway/internal/trace"
	"github.com/robalb/threeway/pkg/header"
)

// Responder is the server side: it waits for SYN, answers with SYN_ACK
// and waits for the final ACK.
type Responder struct {
	state State
	port  uint16
	isn   func() uint32
	hdr   header.Header
	// snap is the SYN_ACK as sent, taken before it leaves.
	snap header.Header
}

// NewResponder builds a responder listening on port. isn is called each
// time a SYN_ACK is built.
func NewResponder(port uint16, isn func() uint32) *Responder {
	return &Responder{
		port: port,
		isn:  isn,
	}
}

func (m *Responder) State() State {
	return m.state
}

func (m *Responder) NeedsInput() bool {
	return m.state == StateSYN || m.state == StateACK
}

// Header returns the live header.
func (m *Responder) Header() header.Header {
	return m.hdr
}

func (m *Responder) Snapshot() header.Header {
	return m.snap
}

func (m *Responder) Step(in header.Header) Transition {
	t := Transition{From: m.state}

	switch m.state {
	case StateSYN:
		m.hdr = in
		if in.Flags == header.SynOnly {
			m.state = StateSynAck
		}

	case StateSynAck:
		t.Trace = []trace.Event{received(StateName(StateSYN), m.hdr)}

		m.hdr.DstPort = m.hdr.SrcPort
		m.hdr.SrcPort = m.port
		m.hdr.SeqNum++
		m.hdr.AckNum = m.hdr.SeqNum
		m.hdr.SeqNum = m.isn()
		m.hdr.Flags = header.SynAck
		m.snap = m.hdr.Snapshot()

		out := m.hdr
		t.Trace = append(t.Trace, sent(StateName(StateSynAck), out))
		t.Out = &out
		m.state = StateACK

	case StateACK:
		m.hdr = in
		m.state = checkpoint(m.state, in, header.AckOnly, m.snap.SeqNum)
		if done(m) {
			t.Trace = []trace.Event{received(StateName(StateACK), m.hdr)}
		}
	}

	t.To = m.state
	return t
}
