package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"utime/internal/handlers"
	"utime/pkg/config"
	"utime/pkg/filesystem"
	"utime/pkg/security"
)

// Server represents the timestamp MCP server
type Server struct {
	mcpServer     *server.MCPServer
	pathValidator *security.PathValidator
	logger        *slog.Logger
	config        *config.Config
}

// New creates a new server instance with all necessary components
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if err := cfg.RequireDirectories(); err != nil {
		return nil, err
	}

	logger.Info("Creating utime MCP server",
		"name", cfg.Server.Name,
		"version", cfg.Server.Version,
		"allowed_dirs_count", len(cfg.AllowedDirectories))

	pathValidator := security.NewPathValidator(cfg.AllowedDirectories, logger)
	fsOps := filesystem.NewOperations(logger)

	mcpServer := server.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		server.WithToolCapabilities(true),
	)

	toolHandlers := handlers.NewToolHandlers(pathValidator, fsOps, logger)
	if err := toolHandlers.RegisterTools(mcpServer); err != nil {
		logger.Error("Failed to register tools", "error", err)
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return &Server{
		mcpServer:     mcpServer,
		pathValidator: pathValidator,
		logger:        logger,
		config:        cfg,
	}, nil
}

// Serve handles MCP requests read from in until ctx is cancelled or in
// is exhausted.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		return fmt.Errorf("context is required")
	}

	s.logger.Info("Starting MCP server",
		"transport", s.config.Server.Transport,
		"allowed_directories", s.pathValidator.GetAllowedDirectories())

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))

	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		s.logger.Error("Failed to serve stdio", "error", err)
		return fmt.Errorf("failed to serve stdio: %w", err)
	}

	s.logger.Info("MCP server stopped")
	return nil
}

// GetAllowedDirectories returns the allowed directories for this server
func (s *Server) GetAllowedDirectories() []string {
	return s.pathValidator.GetAllowedDirectories()
}
