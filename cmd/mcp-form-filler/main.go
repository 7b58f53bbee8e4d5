package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/api"
	"github.com/a3tai/mcp-form-filler/internal/config"
	"github.com/a3tai/mcp-form-filler/internal/logging"
	"github.com/a3tai/mcp-form-filler/internal/mcp"
	"github.com/a3tai/mcp-form-filler/internal/pdf"
	"github.com/a3tai/mcp-form-filler/internal/questions"
	"github.com/a3tai/mcp-form-filler/internal/session"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

const shutdownTimeout = 10 * time.Second

// newHTTPServer wires the form backend behind an http.Server
func newHTTPServer(cfg *config.Config, pdfService *pdf.Service, store *session.Store,
	logger *zap.Logger,
) (*http.Server, error) {
	generator, err := questions.New(cfg.QuestionOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create question generator: %w", err)
	}

	backend := api.NewServer(api.Options{
		Version:        cfg.Version,
		AIConfigured:   cfg.AIConfigured(),
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadSize:  cfg.MaxFileSize,
	}, store, pdfService, generator, logger)

	return &http.Server{
		Addr:              cfg.Address(),
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// runServerMode serves the HTTP backend until a signal arrives
func runServerMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config,
	pdfService *pdf.Service, logger *zap.Logger,
) error {
	store := session.NewStore(cfg.SessionTTL, logger)
	go store.Run(ctx, 0)

	httpServer, err := newHTTPServer(cfg, pdfService, store, logger)
	if err != nil {
		return err
	}

	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("Form backend listening", zap.String("address", httpServer.Addr))
		serverErrCh <- httpServer.ListenAndServe()
	}()

	select {
	case sig := <-signalCh:
		logger.Info("Received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("Server stopped successfully")
	return nil
}

// runStdioMode serves the MCP tools; the parent process controls our lifecycle
func runStdioMode(ctx context.Context, cfg *config.Config, pdfService *pdf.Service, logger *zap.Logger) error {
	server, err := mcp.NewServer(cfg, pdfService, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

func run() error {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsStdioMode())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsDebug() && cfg.IsServerMode() {
		logger.Debug("Starting with configuration", zap.Stringer("config", cfg))
	}

	pdfService, err := pdf.NewService(cfg.MaxFileSize, cfg.FormsDirectory, logger)
	if err != nil {
		return fmt.Errorf("failed to create PDF service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		return runServerMode(ctx, cancel, cfg, pdfService, logger)
	}
	return runStdioMode(ctx, cfg, pdfService, logger)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("MCP Form Filler\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
