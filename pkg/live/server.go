package live

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/navkit-dev/navkit"
)

// PageLoader fetches the HTML for a canonical page path. The live
// layer parses the result into the session's server-side mirror.
type PageLoader func(ctx context.Context, path string) ([]byte, error)

var sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "navkit_live_sessions_active",
	Help: "Number of open live sessions.",
})

func init() {
	prometheus.MustRegister(sessionsActive)
}

// Server upgrades WebSocket connections into live sessions.
type Server struct {
	loader PageLoader
	cfg    *navkit.Config
	log    *slog.Logger

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server logger. The default is slog.Default().
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) { s.log = log }
}

// WithConfig sets the page-controller config applied to every session.
func WithConfig(cfg *navkit.Config) ServerOption {
	return func(s *Server) { s.cfg = cfg }
}

// WithCheckOrigin overrides the upgrade origin check. The default
// accepts same-origin requests only.
func WithCheckOrigin(check func(*http.Request) bool) ServerOption {
	return func(s *Server) { s.upgrader.CheckOrigin = check }
}

// NewServer creates a live server that loads page HTML through loader.
func NewServer(loader PageLoader, opts ...ServerOption) *Server {
	s := &Server{
		loader:   loader,
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Routes returns the router to mount, typically at /live.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/ws", s.handleWS)
	return r
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every open session.
func (s *Server) Shutdown(ctx context.Context) {
	s.mu.Lock()
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.close()
	}
}

// handleWS loads the requested page, upgrades the connection, and
// starts the session event loop. The page path comes from the "page"
// query parameter and defaults to the root.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("page")
	if path == "" {
		path = "/"
	}
	// The path is client-supplied and joins r.Host to form the session
	// location, so it must be rooted.
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	pageHTML, err := s.loader(r.Context(), path)
	if err != nil {
		s.log.Warn("live: page load failed", "path", path, "error", err)
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		s.log.Debug("live: upgrade failed", "error", err)
		return
	}

	location := "https://" + r.Host + path
	if r.TLS == nil {
		location = "http://" + r.Host + path
	}

	sess, err := newSession(conn, pageHTML, location, path, s.cfg, s.log)
	if err != nil {
		s.log.Warn("live: session setup failed", "path", path, "error", err)
		_ = conn.Close()
		return
	}
	sess.onClose = s.remove

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	sessionsActive.Inc()
	s.log.Info("live: session opened", "session", sess.ID, "path", path)

	go sess.run()
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	_, ok := s.sessions[sess.ID]
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if ok {
		sessionsActive.Dec()
	}
}
