package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bindkit-dev/bindkit/pkg/bind"
	"github.com/bindkit-dev/bindkit/pkg/dom"
	"github.com/bindkit-dev/bindkit/pkg/keyed"
	"github.com/bindkit-dev/bindkit/pkg/wire"
)

// PageFunc produces the document tree for the initial GET. It is called
// per request, so it must be safe for concurrent use.
type PageFunc func() *dom.Node

// EventFunc handles a host event reported by a client.
type EventFunc func(*wire.Event)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPage sets the handler for the root document.
func WithPage(page PageFunc) Option {
	return func(s *Server) {
		s.page = page
	}
}

// WithEventHandler sets the handler for client host events.
func WithEventHandler(fn EventFunc) Option {
	return func(s *Server) {
		s.onEvent = fn
	}
}

// WithMetrics exposes the gatherer on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// Server streams patch scripts to WebSocket clients and feeds their
// events back to the application.
type Server struct {
	cfg      *Config
	logger   *slog.Logger
	page     PageFunc
	onEvent  EventFunc
	gatherer prometheus.Gatherer

	upgrader websocket.Upgrader
	router   chi.Router

	mu      sync.Mutex
	clients map[*client]struct{}
	seq     map[string]uint64 // per-region script sequence

	httpServer *http.Server
}

// NewServer creates a live server. Unset config fields take defaults.
func NewServer(cfg *Config, opts ...Option) *Server {
	cfg = cfg.withDefaults()

	s := &Server{
		cfg:     cfg,
		logger:  slog.Default().With("component", "live"),
		clients: make(map[*client]struct{}),
		seq:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     cfg.CheckOrigin,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/live", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	s.router = r

	return s
}

// Handler returns the server's HTTP handler, for embedding under an
// existing router or for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	// No ReadTimeout/WriteTimeout: WebSocket connections are hijacked
	// and carry their own deadlines in the pumps.
	s.httpServer = &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "address", s.cfg.Address)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown disconnects all clients and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.close()
	}

	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Publisher returns an observer for bind.WithObserver that forwards each
// cleanly applied snapshot's patch script to connected clients. A
// snapshot that failed mid-application is not forwarded; clients get an
// error frame instead and are expected to resync with a full reload.
func (s *Server) Publisher(region string) func(bind.Applied) {
	return func(a bind.Applied) {
		if a.Err != nil {
			s.broadcastError(region, a.Err)
			return
		}
		if len(a.Patches) == 0 {
			return
		}
		s.Broadcast(region, a.Patches)
	}
}

// Broadcast sends one patch script for a region to every connected
// client. Scripts carry a per-region sequence number so clients can
// detect gaps.
func (s *Server) Broadcast(region string, patches []keyed.Patch) error {
	s.mu.Lock()
	s.seq[region]++
	script := &wire.Script{
		Seq:     s.seq[region],
		Region:  region,
		Patches: patches,
	}
	s.mu.Unlock()

	frame := &wire.Frame{Type: wire.FrameScript, Payload: wire.EncodeScript(script)}
	data, err := frame.Encode()
	if err != nil {
		return err
	}
	s.fanOut(data)
	return nil
}

// broadcastError tells clients a region can no longer be patched
// incrementally.
func (s *Server) broadcastError(region string, cause error) {
	e := wire.NewEncoder()
	e.WriteString(region)
	e.WriteString(cause.Error())
	frame := &wire.Frame{Type: wire.FrameError, Payload: e.Bytes()}
	data, err := frame.Encode()
	if err != nil {
		s.logger.Error("error frame encode failed", "error", err)
		return
	}
	s.fanOut(data)
}

// fanOut queues data on every client. A client whose queue is full is
// dropped rather than allowed to stall the others.
func (s *Server) fanOut(data []byte) {
	s.mu.Lock()
	var slow []*client
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	s.mu.Unlock()

	for _, c := range slow {
		s.logger.Warn("dropping slow client")
		c.close()
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.page == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dom.RenderHTML(s.page())))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, s.cfg.SendBuffer),
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

// remove unregisters a client after its connection is gone.
func (s *Server) remove(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}
