package trace

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/robalb/threeway/pkg/header"
)

func TestConsoleTitle(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "SERVER")

	c.Trace(Event{Direction: Sent, Label: "SYN", Header: header.New(256, 40000, 8080)})
	c.Trace(Event{Direction: Received, Label: "SYN_ACK"})

	out := buf.String()
	for _, want := range []string{"SENDING SYN TO SERVER", "RECEIVED SYN_ACK FROM SERVER"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFields(t *testing.T) {
	h := header.Header{
		SrcPort:  40000,
		DstPort:  8080,
		SeqNum:   257,
		AckNum:   1001,
		Offset:   0x5a,
		Flags:    header.SynAck,
		Window:   512,
		Checksum: 0xbeef,
		Urgent:   7,
	}
	out := Render(h, "TITLE")

	want := []string{
		"TITLE",
		"Source Port:                    40000",
		"Destination Port:                8080",
		"Sequence Number:                  257",
		"Acknowledgement Number:          1001",
		"Offset:                          0101",
		"Reserved:                        1010",
		"URG is          0",
		"ACK is          1",
		"PSH is          0",
		"RST is          0",
		"SYN is          1",
		"FIN is          0",
		"Window:                           512",
		"Checksum:                        beef",
		"Urgent:                             7",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("render missing %q:\n%s", w, out)
		}
	}
	if strings.Index(out, "URG is") > strings.Index(out, "FIN is") {
		t.Error("flags must be listed from URG down to FIN")
	}
}

func TestTeeSkipsNil(t *testing.T) {
	a, b := NewRecorder("a"), NewRecorder("b")
	tr := Tee(a, nil, b)
	tr.Trace(Event{Label: "SYN"})

	if len(a.Summary().Events) != 1 || len(b.Summary().Events) != 1 {
		t.Fatal("event was not forwarded to every tracer")
	}
}

func TestRecorderConcurrentReads(t *testing.T) {
	r := NewRecorder("server")
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			r.Trace(Event{Label: "SYN"})
		}
		r.MarkDone()
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = r.Summary()
		}
	}()
	wg.Wait()

	s := r.Summary()
	if s.Role != "server" || !s.Done || len(s.Events) != 100 {
		t.Errorf("unexpected summary: role=%s done=%v events=%d", s.Role, s.Done, len(s.Events))
	}
}

func TestBanners(t *testing.T) {
	var buf bytes.Buffer
	ClientBanner(&buf)
	ServerBanner(&buf)
	if strings.Count(buf.String(), "\n") != 12 {
		t.Errorf("unexpected banner height:\n%s", buf.String())
	}
}
