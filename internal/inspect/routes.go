package inspect

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/robalb/threeway/internal/trace"
	"github.com/robalb/threeway/pkg/header"
)

func NewRouter(
	logger *zap.Logger,
	rec *trace.Recorder,
) http.Handler {
	mux := chi.NewRouter()
	mux.Use(requestLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Heartbeat("/health"))
	mux.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool { return true },
		AllowedMethods:  []string{"GET", "OPTIONS"},
		AllowedHeaders:  []string{"Accept", "Content-Type"},
		MaxAge:          300, // Maximum value not ignored by any of major browsers
	}))

	mux.Get("/handshake", serveHandshake(rec))
	mux.Get("/handshake/events/{index}", serveEvent(rec))

	return mux
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("inspect request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)))
		})
	}
}

func RespondError(w http.ResponseWriter, err string, details string, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	response := map[string]string{"error": err, "details": details}
	json.NewEncoder(w).Encode(response)
}

func RespondOk(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

type HeaderView struct {
	SrcPort  uint16 `json:"src_port"`
	DstPort  uint16 `json:"dst_port"`
	SeqNum   uint32 `json:"seq"`
	AckNum   uint32 `json:"ack"`
	Offset   uint8  `json:"offset"`
	Flags    string `json:"flags"`
	Window   uint16 `json:"window"`
	Checksum uint16 `json:"checksum"`
	Urgent   uint16 `json:"urgent"`
}

type EventView struct {
	Direction string     `json:"direction"`
	Label     string     `json:"label"`
	Header    HeaderView `json:"header"`
}

type HandshakeResponse struct {
	Role   string      `json:"role"`
	Done   bool        `json:"done"`
	Events []EventView `json:"events"`
}

func viewHeader(h header.Header) HeaderView {
	return HeaderView{
		SrcPort:  h.SrcPort,
		DstPort:  h.DstPort,
		SeqNum:   h.SeqNum,
		AckNum:   h.AckNum,
		Offset:   h.Offset,
		Flags:    h.Flags.String(),
		Window:   h.Window,
		Checksum: h.Checksum,
		Urgent:   h.Urgent,
	}
}

func viewEvent(ev trace.Event) EventView {
	return EventView{
		Direction: ev.Direction.String(),
		Label:     ev.Label,
		Header:    viewHeader(ev.Header),
	}
}

func serveHandshake(
	rec *trace.Recorder,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		s := rec.Summary()
		events := make([]EventView, 0, len(s.Events))
		for _, ev := range s.Events {
			events = append(events, viewEvent(ev))
		}
		RespondOk(w, HandshakeResponse{
			Role:   s.Role,
			Done:   s.Done,
			Events: events,
		})
	}
}

func serveEvent(
	rec *trace.Recorder,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			RespondError(w, "invalid event index", err.Error(), http.StatusBadRequest)
			return
		}
		events := rec.Summary().Events
		if index < 0 || index >= len(events) {
			RespondError(w, "event not found", "", http.StatusNotFound)
			return
		}
		RespondOk(w, viewEvent(events[index]))
	}
}
