package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/netmidi/netmidi-go/pkg/service"
	"github.com/netmidi/netmidi-go/pkg/transport"
)

// Defaults.
const (
	DefaultOutboxSize   = 64
	DefaultWriteTimeout = 4 * time.Second

	// Path is the websocket endpoint.
	Path = "/ws"
)

// Config configures a feed Server.
type Config struct {
	// Name of the service (default "feed").
	Name string

	// Listen is the TCP address to serve on, e.g. "127.0.0.1:7480".
	Listen string

	// OutboxSize bounds the frames queued per client. A slow client loses
	// the newest frames once its outbox is full.
	OutboxSize int

	// WriteTimeout bounds a single websocket write.
	WriteTimeout time.Duration

	// Logger for operational logs (optional).
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "feed"
	}
	if c.OutboxSize <= 0 {
		c.OutboxSize = DefaultOutboxSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// Server broadcasts feed messages to websocket clients. The HTTP listener
// runs while the service is ACTIVE.
type Server struct {
	*service.Lifecycle

	config   Config
	logger   *slog.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu       sync.Mutex
	clients  map[*client]struct{}
	retained map[string][]byte // last status frame per source

	httpServer *http.Server
	listener   net.Listener
	serveDone  chan struct{}

	dropped atomic.Uint64
}

// NewServer creates a stopped feed server.
func NewServer(config Config) *Server {
	config.applyDefaults()

	s := &Server{
		config:   config,
		logger:   config.Logger,
		mux:      http.NewServeMux(),
		clients:  make(map[*client]struct{}),
		retained: make(map[string][]byte),
		upgrader: websocket.Upgrader{
			// Widgets are often opened from file:// or another local port.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.mux.HandleFunc(Path, s.handleWebSocket)
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.Lifecycle = service.NewLifecycle(config.Name, service.Hooks{
		Acquire: s.acquire,
		Release: s.release,
	}, config.Logger)
	return s
}

// Handler returns the HTTP handler serving the feed.
func (s *Server) Handler() http.Handler { return s.mux }

// Addr returns the bound listener address, or nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Dropped returns the number of frames dropped on full client outboxes.
func (s *Server) Dropped() uint64 { return s.dropped.Load() }

// Broadcast queues msg for every connected client. It never blocks.
// Status messages are retained per source and replayed to new clients.
func (s *Server) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("feed: encode failed", "type", msg.Type, "error", err)
		return
	}

	s.mu.Lock()
	if msg.Type == TypeStatus && msg.Source != "" {
		s.retained[msg.Source] = data
	}
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if accepted, _ := c.outbox.Offer(data); !accepted {
			s.dropped.Add(1)
		}
	}
}

func (s *Server) acquire() error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("feed listen %s: %w", s.config.Listen, err)
	}

	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.BaseContext = func(net.Listener) context.Context {
		return context.WithValue(context.Background(), serverKey{}, srv)
	}
	done := make(chan struct{})

	s.mu.Lock()
	s.listener = ln
	s.httpServer = srv
	s.serveDone = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("feed: serve failed", "error", err)
			s.Fail(err)
		}
	}()

	s.logger.Info("feed listening", "addr", ln.Addr().String())
	return nil
}

func (s *Server) release() {
	s.mu.Lock()
	srv, done := s.httpServer, s.serveDone
	s.httpServer, s.listener, s.serveDone = nil, nil, nil
	clients := s.clients
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	if srv != nil {
		_ = srv.Close()
		<-done
	}
	// Hijacked websocket connections are not tracked by http.Server.
	for c := range clients {
		c.close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  s.Status().String(),
		"clients": s.Clients(),
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("feed: upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		conn:    conn,
		outbox:  transport.NewQueue[[]byte](s.config.OutboxSize, transport.DropNewest),
		ctx:     ctx,
		cancel:  cancel,
		timeout: s.config.WriteTimeout,
	}

	// An upgrade can finish while release is tearing the server down.
	owner, _ := r.Context().Value(serverKey{}).(*http.Server)
	s.mu.Lock()
	if owner != nil && owner != s.httpServer {
		s.mu.Unlock()
		s.logger.Debug("feed: server stopped, closing client", "remote", r.RemoteAddr)
		_ = conn.Close()
		return
	}
	for _, data := range s.retained {
		c.outbox.Offer(data)
	}
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	s.logger.Debug("feed: client connected", "remote", r.RemoteAddr)

	go c.writeLoop()
	c.readLoop()

	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()

	s.logger.Debug("feed: client disconnected", "remote", r.RemoteAddr)
}

// serverKey tags requests with the http.Server started by acquire.
type serverKey struct{}

type client struct {
	conn    *websocket.Conn
	outbox  *transport.Queue[[]byte]
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	once    sync.Once
}

func (c *client) writeLoop() {
	for {
		data, err := c.outbox.Take(c.ctx)
		if err != nil {
			return
		}
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.close()
			return
		}
	}
}

// readLoop discards inbound frames until the connection fails.
func (c *client) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) close() {
	c.once.Do(func() {
		c.cancel()
		_ = c.conn.Close()
	})
}
