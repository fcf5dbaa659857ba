// Package web provides a real-time operator dashboard for a picking
// session: live dispatch events over websocket plus summary and state
// endpoints. This is an observability surface, never a control path.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/pickpoint/go-pickvision/internal/log"
	"github.com/pickpoint/go-pickvision/pkg/actuation"
	"github.com/pickpoint/go-pickvision/pkg/hub"
)

// State is the pipeline state snapshot served to the dashboard.
type State struct {
	SessionID       string `json:"session_id"`
	DeviceEnabled   bool   `json:"device_enabled"`
	DatagramEnabled bool   `json:"datagram_enabled"`
	Dispatched      int    `json:"dispatched"`
	DeviceFailures  int    `json:"device_failures"`
	Present         bool   `json:"present"`
}

// event is one dashboard feed entry.
type event struct {
	Time  string  `json:"time"`
	Kind  string  `json:"kind"` // dispatch, presence
	Label string  `json:"label,omitempty"`
	Index int     `json:"index"` // 0 is the "no recipe" default, keep it
	Level float64 `json:"pressure,omitempty"`
	Error string  `json:"error,omitempty"`
	On    bool    `json:"present"`
}

// Server is the dashboard server.
type Server struct {
	app  *fiber.App
	addr string

	summary *actuation.Summary

	stateMu sync.RWMutex
	state   State

	events *hub.Hub
}

// NewServer creates a dashboard server for the given session.
func NewServer(addr string, summary *actuation.Summary, deviceEnabled, datagramEnabled bool) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
		}),
		addr:    addr,
		summary: summary,
		events:  hub.New("events"),
		state: State{
			SessionID:       summary.ID.String(),
			DeviceEnabled:   deviceEnabled,
			DatagramEnabled: datagramEnabled,
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(cors.New())

	s.app.Get("/api/state", func(c *fiber.Ctx) error {
		s.stateMu.RLock()
		defer s.stateMu.RUnlock()
		return c.JSON(s.state)
	})

	s.app.Get("/api/summary", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"session_id": s.summary.ID.String(),
			"started_at": s.summary.StartedAt,
			"items":      s.summary.Entries(),
		})
	})

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/events", websocket.New(func(conn *websocket.Conn) {
		s.events.Serve(conn)
	}))
}

// Start runs the hub and server. Blocks; call in a goroutine.
func (s *Server) Start() error {
	go s.events.Run()
	log.Info("dashboard listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// ObserveDispatch publishes a dispatched command to the feed.
// Wire it to Dispatcher.OnDispatch.
func (s *Server) ObserveDispatch(cmd actuation.Command, deviceErr error) {
	s.stateMu.Lock()
	s.state.Dispatched++
	if deviceErr != nil {
		s.state.DeviceFailures++
	}
	s.stateMu.Unlock()

	e := event{
		Time:  time.Now().Format(time.RFC3339),
		Kind:  "dispatch",
		Label: cmd.Label,
		Index: cmd.Index,
		Level: cmd.Pressure,
	}
	if deviceErr != nil {
		e.Error = deviceErr.Error()
	}
	if err := s.events.BroadcastJSON(e); err != nil {
		log.Warn("dashboard broadcast failed", "err", err)
	}
}

// ObservePresence publishes a presence transition to the feed.
// Wire it to Monitor.OnChange.
func (s *Server) ObservePresence(present bool) {
	s.stateMu.Lock()
	s.state.Present = present
	s.stateMu.Unlock()

	s.events.BroadcastJSON(event{
		Time: time.Now().Format(time.RFC3339),
		Kind: "presence",
		On:   present,
	})
}
