package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/specgraph/pkg/service"
)

// Server is the API server for inspecting the spec graph.
type Server struct {
	config Config
	svc    *service.Service
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// The service is injected so the MCP endpoint and the watcher can share it.
func NewServer(config Config, svc *service.Service, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("service is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		svc:    svc,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/graph", s.handleGraph)
	app.Get("/graph/export", s.handleGraphExport)
	app.Get("/nodes", s.handleListNodes)
	app.Get("/nodes/:id", s.handleGetNode)
	app.Get("/nodes/:id/impact", s.handleImpact)
	app.Get("/validate", s.handleValidate)

	if config.MCPHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCPHandler))
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
