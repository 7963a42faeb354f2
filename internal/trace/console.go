package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/robalb/threeway/pkg/header"
)

const fieldWidth = 10

// Console renders every event as a field-by-field header block.
// Peer names the other side of the channel, e.g. "SERVER".
type Console struct {
	W    io.Writer
	Peer string
}

func NewConsole(w io.Writer, peer string) *Console {
	return &Console{W: w, Peer: peer}
}

func (c *Console) Trace(ev Event) {
	action, pred := "SENDING", "TO"
	if ev.Direction == Received {
		action, pred = "RECEIVED", "FROM"
	}
	io.WriteString(c.W, Render(ev.Header, fmt.Sprintf("%s %s %s %s", action, ev.Label, pred, c.Peer)))
}

// Render formats h under the given title line.
func Render(h header.Header, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s", title)
	b.WriteString("\n****************************************")
	b.WriteString("\n TCP HEADER:")
	fmt.Fprintf(&b, "\n  Source Port:               %*d", fieldWidth, h.SrcPort)
	fmt.Fprintf(&b, "\n  Destination Port:          %*d", fieldWidth, h.DstPort)
	fmt.Fprintf(&b, "\n  Sequence Number:           %*d", fieldWidth, h.SeqNum)
	fmt.Fprintf(&b, "\n  Acknowledgement Number:    %*d", fieldWidth, h.AckNum)
	fmt.Fprintf(&b, "\n  Offset:                          %04b", h.Offset>>4)
	fmt.Fprintf(&b, "\n  Reserved:                        %04b", h.Offset&0x0f)
	b.WriteString("\n  Flags:")
	for f := header.URG; ; f-- {
		fmt.Fprintf(&b, "\n     %s is %*s", f, fieldWidth, bit(h.Flags.Has(f)))
		if f == header.FIN {
			break
		}
	}
	fmt.Fprintf(&b, "\n  Window:                    %*d", fieldWidth, h.Window)
	fmt.Fprintf(&b, "\n  Checksum:                  %*x", fieldWidth, h.Checksum)
	fmt.Fprintf(&b, "\n  Urgent:                    %*d", fieldWidth, h.Urgent)
	b.WriteString("\n ***************************************\n")
	return b.String()
}

func bit(set bool) string {
	if set {
		return "1"
	}
	return "0"
}
