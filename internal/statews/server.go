package statews

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/ingyamilmolinar/rangeslider/core/engine"
	"github.com/ingyamilmolinar/rangeslider/core/gesture"
	game_log "github.com/ingyamilmolinar/rangeslider/internal/log"
)

// SliderSnapshot is the externally visible state of one slider.
type SliderSnapshot struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	AbsoluteMin float64   `json:"absolute_min"`
	AbsoluteMax float64   `json:"absolute_max"`
	SelectedMin float64   `json:"selected_min"`
	SelectedMax float64   `json:"selected_max"`
}

type stateInitData struct {
	Sliders []SliderSnapshot `json:"sliders"`
}

type selectionChangedData struct {
	SliderSnapshot
	Thumb string `json:"thumb"`
}

func snapshot(sl *engine.Slider) SliderSnapshot {
	return SliderSnapshot{
		ID:          sl.ID(),
		Name:        sl.Options().Name,
		AbsoluteMin: sl.AbsoluteMin(),
		AbsoluteMax: sl.AbsoluteMax(),
		SelectedMin: sl.SelectedMin(),
		SelectedMax: sl.SelectedMax(),
	}
}

// Server serves the state feed. Sliders are attached from the UI thread;
// the server only ever reads the snapshots they publish.
type Server struct {
	logger *game_log.Logger
	hub    *Hub

	mu     sync.Mutex
	latest map[uuid.UUID]SliderSnapshot
	order  []uuid.UUID
	now    func() time.Time
}

type ServerConfig struct {
	// SendBuf is the per-client outbound queue size.
	SendBuf int
}

func NewServer(logger *game_log.Logger, cfg ServerConfig) *Server {
	if logger == nil {
		logger = game_log.Discard()
	}
	return &Server{
		logger: logger,
		hub:    NewHub(logger.Slog(), cfg.SendBuf),
		latest: make(map[uuid.UUID]SliderSnapshot),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Attach publishes sl's current selection and every committed change after
// it. Call it on the thread that drives the slider.
func (s *Server) Attach(sl *engine.Slider) {
	s.mu.Lock()
	if _, ok := s.latest[sl.ID()]; !ok {
		s.order = append(s.order, sl.ID())
	}
	s.latest[sl.ID()] = snapshot(sl)
	s.mu.Unlock()

	sl.OnLowerValueChanged(func() { s.publish(sl, gesture.ThumbMin) })
	sl.OnUpperValueChanged(func() { s.publish(sl, gesture.ThumbMax) })
}

// Publish broadcasts sl's current selection outside a thumb commit, such as
// after a reset. The frame carries thumb "none".
func (s *Server) Publish(sl *engine.Slider) { s.publish(sl, gesture.ThumbNone) }

func (s *Server) publish(sl *engine.Slider, t gesture.Thumb) {
	snap := snapshot(sl)
	s.mu.Lock()
	s.latest[snap.ID] = snap
	s.mu.Unlock()

	msg, err := s.frame("selection_changed", selectionChangedData{SliderSnapshot: snap, Thumb: t.String()})
	if err != nil {
		s.logger.Errorf("[WS] %v", err)
		return
	}
	s.hub.BroadcastBytes(msg)
}

// Snapshot returns the latest published state of every attached slider in
// attach order.
func (s *Server) Snapshot() []SliderSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SliderSnapshot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.latest[id])
	}
	return out
}

func (s *Server) frame(typ string, data any) ([]byte, error) {
	ts := s.now()
	b, err := json.Marshal(envelope{Type: typ, Ts: &ts, Data: data})
	return b, errors.Wrapf(err, "marshal %s", typ)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Register installs the websocket handler on mux.
func (s *Server) Register(mux *http.ServeMux, path string) {
	if mux == nil {
		return
	}
	mux.HandleFunc(path, s.handleStateWS)
	mux.HandleFunc(path+"/snapshot", s.handleSnapshot)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stateInitData{Sliders: s.Snapshot()}); err != nil {
		s.logger.Errorf("[WS] snapshot encode: %v", err)
	}
}

func (s *Server) handleStateWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnf("[WS] upgrade failed: %v", err)
		return
	}
	initMsg, err := s.frame("state_init", stateInitData{Sliders: s.Snapshot()})
	if err != nil {
		s.logger.Errorf("[WS] %v", err)
		_ = conn.Close()
		return
	}
	client := newClient(s.hub, conn, r.RemoteAddr, initMsg)
	s.hub.join <- client

	// Pumps outlive the request; the hub and socket errors end them.
	go client.writePump()
	go client.readPump()
}

// ListenAndServe runs the hub and an HTTP server on addr until ctx ends.
// The feed is served at /ws.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	s.Register(mux, "/ws")
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Infof("[WS] serving state feed on %s", ln.Addr())

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve state feed")
	}
}
