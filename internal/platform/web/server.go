// Package web serves the snake game to browsers. Each WebSocket connection
// plays its own game; the page sends steering and control messages and
// receives a snapshot frame every tick.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/games/snake/engine"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// ErrUnknownMessage is reported for messages with an unrecognized type.
var ErrUnknownMessage = errors.New("web: unknown message type")

//go:embed static
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Config holds configuration for the web server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Session configures the game every connection plays.
	Session engine.SessionConfig

	// Theme colors the board.
	Theme snake.Theme
}

// Server serves the browser front end. All connections share the score
// store and the snake identity generator.
type Server struct {
	config Config
	store  *storage.Store
	ids    *engine.IDGenerator
	logger *log.Logger
	http   *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates a web server. store may be nil, in which case nothing
// is persisted.
func NewServer(cfg Config, store *storage.Store, logger *log.Logger) (*Server, error) {
	if err := cfg.Session.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config: cfg,
		store:  store,
		ids:    engine.NewIDGenerator(),
		logger: logger.WithPrefix("web"),
		ctx:    ctx,
		cancel: cancel,
	}
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP routes:
//
//	GET /             game page
//	GET /ws           game connection (?player=name)
//	GET /api/scores   leaderboard and run stats as JSON
//	GET /healthz      liveness probe
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServer(http.FS(static)))
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /api/scores", s.handleScores)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		player = "web"
	}

	opts := snake.Options{
		Session: s.config.Session,
		IDs:     s.ids,
		Theme:   s.config.Theme,
		Player:  player,
		Logger:  s.logger.With("player", player),
	}
	if s.store != nil {
		opts.Store = s.store
		opts.Runs = s.store
	}
	game, err := snake.New(opts)
	if err != nil {
		s.logger.Error("cannot create game", "player", player, "error", err)
		http.Error(w, "cannot create game", http.StatusInternalServerError)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.logger.Info("session started", "player", player, "remote", r.RemoteAddr)

	c := newClient(ws, game, s.config.Theme, s.logger.With("player", player))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		c.run(s.ctx)
		s.logger.Info("session ended", "player", player, "remote", r.RemoteAddr)
	}()
	go c.writePump()
	go c.readPump()
}

// scoresResponse is the body of GET /api/scores.
type scoresResponse struct {
	TopScores []ScoreRow     `json:"top_scores"`
	Stats     *storage.Stats `json:"stats,omitempty"`
	Recent    []storage.Run  `json:"recent,omitempty"`
}

const recentRunsLimit = 10

func (s *Server) handleScores(w http.ResponseWriter, _ *http.Request) {
	resp := scoresResponse{TopScores: []ScoreRow{}}
	if s.store != nil {
		top, err := s.store.Load()
		if err != nil {
			s.logger.Error("cannot load scores", "error", err)
			http.Error(w, "cannot load scores", http.StatusInternalServerError)
			return
		}
		resp.TopScores = scoreRows(top)

		if resp.Stats, err = s.store.Stats(); err != nil {
			s.logger.Warn("cannot load run stats", "error", err)
		}
		if resp.Recent, err = s.store.RecentRuns(recentRunsLimit); err != nil {
			s.logger.Warn("cannot load recent runs", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe starts the web server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting web server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown stops accepting connections and ends every running game. The
// store is owned by the caller.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.http.Shutdown(ctx)
	s.cancel()

	waited := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		s.logger.Warn("games still running at shutdown")
	}
	return err
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}
