// Package web serves the recorder over HTTP: session control, live metrics
// over websocket, browser-side detection ingest and stored reports.
package web

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/time/rate"

	"github.com/teslashibe/go-speakviz/internal/log"
	"github.com/teslashibe/go-speakviz/pkg/hub"
	"github.com/teslashibe/go-speakviz/pkg/metrics"
	"github.com/teslashibe/go-speakviz/pkg/session"
	"github.com/teslashibe/go-speakviz/pkg/store"
)

// Config holds server settings.
type Config struct {
	Port string

	// StaticDir is served at / when set.
	StaticDir string

	// LiveFrameRate caps frame events per second on /ws/metrics.
	// Segment and session events are never throttled.
	LiveFrameRate float64
}

// DefaultConfig returns the recommended server configuration.
func DefaultConfig() Config {
	return Config{
		Port:          "8080",
		LiveFrameRate: 5,
	}
}

// ReportStore is the read side of the report repository.
type ReportStore interface {
	Get(ctx context.Context, id string) (session.Result, error)
	List(ctx context.Context, limit int) ([]store.Summary, error)
}

// Server is the HTTP front end of a recorder.
type Server struct {
	app    *fiber.App
	cfg    Config
	logger *slog.Logger

	recorder *session.Recorder
	reports  ReportStore
	validate *validator.Validate

	// Live metrics fan-out
	liveHub     *hub.Hub
	liveLimiter *rate.Limiter
}

// NewServer creates the server and registers it as a recorder listener.
// reports may be nil, in which case the report routes answer 503.
func NewServer(cfg Config, rec *session.Recorder, reports ReportStore) *Server {
	if cfg.LiveFrameRate <= 0 {
		cfg.LiveFrameRate = DefaultConfig().LiveFrameRate
	}

	s := &Server{
		cfg:         cfg,
		logger:      log.With("component", "web"),
		recorder:    rec,
		reports:     reports,
		validate:    newValidator(),
		liveHub:     hub.New("metrics"),
		liveLimiter: rate.NewLimiter(rate.Limit(cfg.LiveFrameRate), 1),
	}

	app := fiber.New(fiber.Config{
		AppName:               "speakviz",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	// CORS for local development
	app.Use(cors.New())

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	api := app.Group("/api")
	api.Post("/sessions", s.handleStartSession)
	api.Post("/sessions/stop", s.handleStopSession)
	api.Get("/session", s.handleSessionInfo)
	api.Get("/report", s.handleLiveReport)
	api.Get("/segments", s.handleSegments)
	api.Get("/reports", s.handleListReports)
	api.Get("/reports/:id", s.handleGetReport)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/metrics", websocket.New(s.handleMetricsWS))
	app.Get("/ws/ingest", websocket.New(s.handleIngestWS))

	s.app = app
	rec.AddListener(s)
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start runs the live hub and blocks serving HTTP.
func (s *Server) Start() error {
	s.logger.Info("web server listening", "url", "http://localhost:"+s.cfg.Port)
	go s.liveHub.Run()
	return s.app.Listen(":" + s.cfg.Port)
}

// Serve runs the live hub and blocks serving HTTP on ln.
func (s *Server) Serve(ln net.Listener) error {
	go s.liveHub.Run()
	return s.app.Listener(ln)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server error", "error", err)
		}
	}()
}

// Shutdown gracefully stops the web server
func (s *Server) Shutdown(ctx context.Context) error {
	s.liveHub.Stop()
	return s.app.ShutdownWithContext(ctx)
}

// FrameObserved implements session.Listener. Frames are throttled.
func (s *Server) FrameObserved(f session.Frame) {
	if !s.liveLimiter.Allow() {
		return
	}
	s.broadcast(hub.EventFrame, f.SessionID, f)
}

// SegmentFinalized implements session.Listener.
func (s *Server) SegmentFinalized(sessionID string, seg metrics.Segment) {
	s.broadcast(hub.EventSegment, sessionID, seg)
}

// SessionStopped implements session.Listener.
func (s *Server) SessionStopped(res session.Result) {
	s.broadcast(hub.EventStopped, res.ID, res)
}

func (s *Server) broadcast(eventType, sessionID string, data any) {
	if err := s.liveHub.BroadcastEvent(eventType, sessionID, data); err != nil {
		s.logger.Warn("broadcast failed", "event", eventType, "error", err)
	}
}

// handleMetricsWS streams live events to a dashboard.
func (s *Server) handleMetricsWS(c *websocket.Conn) {
	client := hub.NewClient(s.liveHub, c)
	if client == nil {
		return
	}
	client.Run()
}

// requestTimeout bounds store queries issued by handlers.
const requestTimeout = 10 * time.Second
