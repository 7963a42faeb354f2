package handshake

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/robalb/threeway/internal/trace"
	"github.com/robalb/threeway/pkg/header"
)

// Channel moves one whole header per call.
type Channel interface {
	Send(h header.Header) error
	Recv() (header.Header, error)
}

// Run drives m over ch until it reaches StateDone. A peer that never sends
// a conforming header keeps the loop going: mismatches are retried, never
// returned as errors. Only channel failures and ctx end the loop early;
// ctx is checked between steps, so a blocked Recv has to be unblocked by
// closing the channel.
func Run(
	ctx context.Context,
	logger *zap.Logger,
	m Machine,
	ch Channel,
	tr trace.Tracer,
) error {
	for !done(m) {
		if err := ctx.Err(); err != nil {
			return err
		}

		var in header.Header
		if m.NeedsInput() {
			var err error
			in, err = ch.Recv()
			if err != nil {
				return fmt.Errorf("handshake %s: %w", m.State(), err)
			}
		}

		t := m.Step(in)
		for _, ev := range t.Trace {
			tr.Trace(ev)
		}

		switch {
		case t.Regressed():
			logger.Warn("acknowledgment mismatch, stepping back",
				zap.Stringer("from", t.From),
				zap.Stringer("to", t.To),
				zap.Stringer("received", in))
		case t.To == t.From:
			logger.Debug("header not accepted, waiting for another",
				zap.Stringer("state", t.From),
				zap.Stringer("received", in))
		default:
			logger.Debug("step done", zap.Stringer("from", t.From), zap.Stringer("to", t.To))
		}

		if t.Out != nil {
			if err := ch.Send(*t.Out); err != nil {
				return fmt.Errorf("handshake %s: %w", t.From, err)
			}
		}
	}
	return nil
}
