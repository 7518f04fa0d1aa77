// Package api serves dispatches over HTTP.
//
// POST /v1/perspectives returns every lens at once. GET
// /v1/perspectives/stream upgrades to a websocket and sends each lens as it
// completes. A caller may supply its own key in X-API-Key; otherwise the
// server's configured key is used, and without either the server answers in
// demo mode.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tinyland-inc/rashomon/pkg/dispatch"
	"github.com/tinyland-inc/rashomon/pkg/lens"
	"github.com/tinyland-inc/rashomon/pkg/logger"
	"github.com/tinyland-inc/rashomon/pkg/metering"
)

const (
	CredentialHeader = "X-API-Key"
	maxBodyBytes     = 64 << 10
)

type Server struct {
	worker     dispatch.Producer
	meters     *metering.Store
	credential string
	upgrader   websocket.Upgrader
	server     *http.Server
}

// NewServer wires handlers for addr. meters may be nil.
func NewServer(addr string, worker dispatch.Producer, meters *metering.Store, credential string) *Server {
	s := &Server{
		worker:     worker,
		meters:     meters,
		credential: strings.TrimSpace(credential),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/perspectives", s.handlePerspectives)
	mux.HandleFunc("/v1/perspectives/stream", s.handleStream)
	mux.HandleFunc("/v1/metering", s.handleMetering)
	return mux
}

// Start blocks serving until Stop is called.
func (s *Server) Start() error {
	logger.InfoCF("api", "HTTP server starting", map[string]any{
		"addr":      s.server.Addr,
		"demo_mode": s.credential == "",
	})
	return s.server.ListenAndServe()
}

// Serve is Start on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// PerspectivesRequest is the POST /v1/perspectives body.
type PerspectivesRequest struct {
	Event  string   `json:"event"`
	Lenses []string `json:"lenses,omitempty"`
}

// PerspectivesResponse is keyed by lens display name.
type PerspectivesResponse struct {
	RequestID    string               `json:"request_id"`
	Event        string               `json:"event"`
	Perspectives map[lens.Lens]string `json:"perspectives"`
	LatencyMs    int64                `json:"latency_ms"`
}

// Frame is one websocket message on the stream endpoint.
type Frame struct {
	Type      string     `json:"type"`
	Lens      *lens.Lens `json:"lens,omitempty"`
	Text      string     `json:"text,omitempty"`
	LatencyMs int64      `json:"latency_ms,omitempty"`
}

const (
	FramePerspective = "perspective"
	FrameDone        = "done"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handlePerspectives(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PerspectivesRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	d, err := s.dispatcherFor(req.Lenses)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report := d.Run(r.Context(), req.Event, s.credentialFor(r), nil)
	writeJSON(w, PerspectivesResponse{
		RequestID:    requestID(r),
		Event:        report.Event,
		Perspectives: report.Texts(),
		LatencyMs:    report.Elapsed.Milliseconds(),
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	var names []string
	if raw := q.Get("lenses"); raw != "" {
		names = strings.Split(raw, ",")
	}
	d, err := s.dispatcherFor(names)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	credential := s.credentialFor(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnCF("api", "Websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}
	defer conn.Close()

	start := time.Now()
	stream := d.Stream(r.Context(), q.Get("event"), credential)
	for res := range stream.All() {
		l := res.Lens
		if err := conn.WriteJSON(Frame{Type: FramePerspective, Lens: &l, Text: res.Text}); err != nil {
			logger.DebugCF("api", "Stream client went away", map[string]any{
				"dispatch_id": stream.ID(),
				"error":       err.Error(),
			})
			return
		}
	}
	_ = conn.WriteJSON(Frame{Type: FrameDone, LatencyMs: time.Since(start).Milliseconds()})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (s *Server) handleMetering(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snapshot := map[lens.Lens]metering.LensMeter{}
	if s.meters != nil {
		snapshot = s.meters.Snapshot()
	}
	writeJSON(w, snapshot)
}

func (s *Server) dispatcherFor(names []string) (*dispatch.Dispatcher, error) {
	lenses, err := lens.ParseAll(names)
	if err != nil {
		return nil, fmt.Errorf("invalid lenses: %w", err)
	}
	return dispatch.New(s.worker, lenses...), nil
}

func (s *Server) credentialFor(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(CredentialHeader)); key != "" {
		return key
	}
	return s.credential
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		logger.ErrorCF("api", "Encoding response failed", map[string]any{"error": err.Error()})
	}
}

// IsClosed reports whether err is the normal result of Stop.
func IsClosed(err error) bool {
	return errors.Is(err, http.ErrServerClosed)
}
