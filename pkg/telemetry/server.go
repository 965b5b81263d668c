// Package telemetry serves the drivetrain dashboard: a JSON snapshot
// endpoint plus a websocket stream of the same data, published at a fixed
// interval. This is the read-only export the drive station watches; it has
// no behavioral contract beyond publishing current values.
package telemetry

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/team708/go-drivebase/internal/log"
	"github.com/team708/go-drivebase/pkg/drive"
	"github.com/team708/go-drivebase/pkg/hub"
)

// DefaultInterval is how often the publisher samples the drivetrain.
const DefaultInterval = 100 * time.Millisecond

// Source supplies drivetrain snapshots to publish.
type Source interface {
	Snapshot() drive.Snapshot
}

// Server is the telemetry dashboard server.
type Server struct {
	app  *fiber.App
	port string

	source   Source
	stateHub *hub.Hub
	interval time.Duration

	stop chan struct{}
}

// NewServer creates a dashboard server publishing snapshots from source.
// A zero interval means DefaultInterval.
func NewServer(source Source, port string, interval time.Duration) *Server {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := &Server{
		port:     port,
		source:   source,
		stateHub: hub.New("state"),
		interval: interval,
		stop:     make(chan struct{}),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Drivebase Dashboard",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/state", s.handleState)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/state", websocket.New(s.handleStateWS))

	s.app = app
	return s
}

// handleState returns the current drivetrain snapshot.
func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.source.Snapshot())
}

// handleStateWS streams snapshots to a websocket client via the hub.
func (s *Server) handleStateWS(c *websocket.Conn) {
	client := hub.NewClient(s.stateHub, c)
	client.Run()
}

// Start runs the hub, the publisher, and the HTTP listener. Blocks.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)
	go s.stateHub.Run()
	go s.publish()
	return s.app.Listen(":" + s.port)
}

// StartAsync runs Start in a goroutine, logging any listen error.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server error", "err", err)
		}
	}()
}

// Shutdown stops the publisher and the HTTP listener.
func (s *Server) Shutdown() error {
	close(s.stop)
	return s.app.Shutdown()
}

// publish samples the drivetrain at the configured interval and broadcasts
// the snapshot to all websocket clients.
func (s *Server) publish() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if s.stateHub.ClientCount() == 0 {
				continue
			}
			if err := s.stateHub.BroadcastJSON(s.source.Snapshot()); err != nil {
				log.Warn("snapshot encode failed", "err", err)
			}
		}
	}
}
