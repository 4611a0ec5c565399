// Package server is the inbound webhook surface: the verify handshake and
// message intake the Cloud API calls, plus healthz and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bimarsk/jadwalbot/internal/whatsapp"
)

// CommandHandler turns one inbound text into one reply. An empty reply means
// the text matched no command and nothing should be sent back.
type CommandHandler interface {
	HandleCommand(ctx context.Context, rawText string) string
}

// Notifier delivers the reply back over the channel.
type Notifier interface {
	SendText(ctx context.Context, recipient, body string) error
}

type Config struct {
	Addr        string
	VerifyToken string
	RecipientID string
}

type Server struct {
	app        *fiber.App
	dispatcher CommandHandler
	notifier   Notifier
	cfg        Config
}

func New(cfg Config, dispatcher CommandHandler, notifier Notifier) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Format: "${time} | ${status} | ${latency} | ${method} ${path}\n"}))

	srv := &Server{app: app, dispatcher: dispatcher, notifier: notifier, cfg: cfg}
	srv.registerRoutes()
	return srv
}

// Run starts listening for webhook traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	log.Printf("webhook server listening on %s", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	s.app.Get("/webhook", s.handleVerify)
	s.app.Post("/webhook", s.handleMessage)
}

// handleVerify answers the Cloud API subscription handshake: echo the
// challenge when the verify token matches, 403 otherwise.
func (s *Server) handleVerify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == s.cfg.VerifyToken {
		log.Println("Webhook verified successfully")
		return c.SendString(challenge)
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Verification failed"})
}

func (s *Server) handleMessage(c *fiber.Ctx) error {
	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid JSON provided"})
	}

	text, ok := payload.TextBody()
	if !ok {
		// Status receipts and other non-text notifications are acknowledged
		// and ignored.
		return c.JSON(fiber.Map{"status": "ok"})
	}

	reply := s.dispatcher.HandleCommand(c.UserContext(), text)
	if reply != "" {
		if err := s.notifier.SendText(c.UserContext(), s.cfg.RecipientID, reply); err != nil {
			log.Printf("Failed to send reply: %v", err)
		}
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
