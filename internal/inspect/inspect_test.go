package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/net/nettest"

	"github.com/robalb/threeway/internal/trace"
	"github.com/robalb/threeway/pkg/header"
)

func recorded() *trace.Recorder {
	rec := trace.NewRecorder("server")
	syn := header.New(256, 40000, 8080)
	syn.Flags = header.SynOnly
	rec.Trace(trace.Event{Direction: trace.Received, Label: "SYN", Header: syn})
	synAck := header.Header{SrcPort: 8080, DstPort: 40000, SeqNum: 99, AckNum: 257, Flags: header.SynAck}
	rec.Trace(trace.Event{Direction: trace.Sent, Label: "SYN_ACK", Header: synAck})
	return rec
}

func TestHandshakeEndpoint(t *testing.T) {
	rec := recorded()
	router := NewRouter(zaptest.NewLogger(t), rec)

	req := httptest.NewRequest(http.MethodGet, "/handshake", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp HandshakeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Role != "server" || resp.Done || len(resp.Events) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	second := resp.Events[1]
	if second.Direction != "sent" || second.Label != "SYN_ACK" || second.Header.Flags != "[SYN,ACK]" || second.Header.AckNum != 257 {
		t.Errorf("unexpected event %+v", second)
	}

	rec.MarkDone()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/handshake", nil))
	json.NewDecoder(w.Body).Decode(&resp)
	if !resp.Done {
		t.Error("done flag not reported")
	}
}

func TestEventEndpoint(t *testing.T) {
	router := NewRouter(zaptest.NewLogger(t), recorded())

	tests := []struct {
		path string
		code int
	}{
		{"/handshake/events/0", http.StatusOK},
		{"/handshake/events/1", http.StatusOK},
		{"/handshake/events/2", http.StatusNotFound},
		{"/handshake/events/-1", http.StatusNotFound},
		{"/handshake/events/first", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.path, w.Code, tt.code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/handshake/events/0", nil))
	var ev EventView
	if err := json.NewDecoder(w.Body).Decode(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Label != "SYN" || ev.Header.SeqNum != 256 || ev.Header.Flags != "[SYN]" {
		t.Errorf("unexpected event %+v", ev)
	}
}

func TestHealth(t *testing.T) {
	router := NewRouter(zaptest.NewLogger(t), trace.NewRecorder("client"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := nettest.NewLocalListener("tcp")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- Serve(ctx, zaptest.NewLogger(t), ln, NewRouter(zaptest.NewLogger(t), recorded()))
	}()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr()))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("server did not shut down")
	}
}
