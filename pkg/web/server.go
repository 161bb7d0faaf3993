package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"terrytube/pkg/logging"
)

//go:embed index.html
var indexPage []byte

// Controller is the kiosk surface the browser drives. Calls may block for
// the length of a turn; the server invokes them off the read loop.
type Controller interface {
	StartRecording() error
	StopRecording(ctx context.Context) error
	SendText(ctx context.Context, text string) error
	SelectPersonality(ctx context.Context, key string) error
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

func (c ServerConfig) withDefaults() ServerConfig {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	return c
}

// Server hosts the UI page and the websocket. Each client gets the full
// state snapshot on connect and on every change.
type Server struct {
	cfg        ServerConfig
	state      *State
	controller Controller
	server     *http.Server
	upgrader   websocket.Upgrader
	logger     *slog.Logger

	mu      sync.Mutex
	clients map[string]*client

	draining atomic.Bool
}

type clientAction struct {
	Action      string `json:"action"`
	Text        string `json:"text,omitempty"`
	Personality string `json:"personality,omitempty"`
}

type statePayload struct {
	Type  string   `json:"type"`
	State Snapshot `json:"state"`
}

func NewServer(cfg ServerConfig, state *State, controller Controller, base *slog.Logger) *Server {
	if base == nil {
		base = slog.Default()
	}
	s := &Server{
		cfg:        cfg.withDefaults(),
		state:      state,
		controller: controller,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:  logging.NewComponentLogger(base, "web"),
		clients: make(map[string]*client),
	}
	state.SetOnChange(s.broadcast)
	return s
}

func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           mux,
	}
	go func() {
		<-ctx.Done()
		_ = s.server.Close()
	}()
	go func() {
		s.logger.Info("web server listening", slog.String("addr", s.cfg.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server error", slog.String("error", err.Error()))
		}
	}()
	return nil
}

func (s *Server) Stop() error {
	s.draining.Store(true)
	if s.server != nil {
		_ = s.server.Close()
	}
	s.mu.Lock()
	for _, c := range s.clients {
		c.close()
	}
	s.clients = make(map[string]*client)
	s.mu.Unlock()
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.draining.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	id := uuid.NewString()
	c := &client{conn: conn, sendCh: make(chan []byte, 64), done: make(chan struct{})}
	s.mu.Lock()
	s.clients[id] = c
	s.mu.Unlock()
	go c.loop()

	c.enqueueState(s.state.Snapshot())

	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		c.close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var action clientAction
		if err := json.Unmarshal(msg, &action); err != nil {
			continue
		}
		// Controller calls block for the length of a turn; keep the read
		// loop free so the client can keep receiving state updates.
		go s.dispatch(r.Context(), action)
	}
}

func (s *Server) dispatch(ctx context.Context, action clientAction) {
	var err error
	switch action.Action {
	case "start_recording":
		err = s.controller.StartRecording()
	case "stop_recording":
		err = s.controller.StopRecording(context.WithoutCancel(ctx))
	case "send_text":
		err = s.controller.SendText(context.WithoutCancel(ctx), action.Text)
	case "select_personality":
		err = s.controller.SelectPersonality(context.WithoutCancel(ctx), action.Personality)
	default:
		s.logger.Debug("unknown client action", slog.String("action", action.Action))
		return
	}
	if err != nil {
		s.logger.Warn("client action failed",
			slog.String("action", action.Action),
			slog.String("error", err.Error()))
	}
}

func (s *Server) broadcast(snap Snapshot) {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		c.enqueueState(snap)
	}
}

// client's sendCh is never closed; close signals through done instead, so a
// broadcast racing a disconnect can never send on a closed channel.
type client struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	closed atomic.Bool
}

func (c *client) enqueueState(snap Snapshot) {
	if c.closed.Load() {
		return
	}
	b, err := json.Marshal(statePayload{Type: "state", State: snap})
	if err != nil {
		return
	}
	select {
	case c.sendCh <- b:
	default:
	}
}

func (c *client) loop() {
	for {
		select {
		case msg := <-c.sendCh:
			_ = c.conn.WriteMessage(websocket.TextMessage, msg)
		case <-c.done:
			return
		}
	}
}

func (c *client) close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
	}
	_ = c.conn.Close()
}
