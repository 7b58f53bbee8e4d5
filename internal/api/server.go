// Package api serves the form filling backend over HTTP.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-form-filler/internal/pdf"
	"github.com/a3tai/mcp-form-filler/internal/questions"
	"github.com/a3tai/mcp-form-filler/internal/session"
)

// Features advertised by the health endpoint
var Features = []string{"pdf_forms", "website_forms", "ai_questions"}

// Options configure the HTTP backend
type Options struct {
	Version         string
	AIConfigured    bool
	AllowedOrigins  []string
	MaxUploadSize   int64
	QuestionTimeout time.Duration
}

// Server holds the dependencies of the HTTP handlers
type Server struct {
	opts      Options
	sessions  *session.Store
	pdf       *pdf.Service
	generator questions.Generator
	logger    *zap.Logger
}

// NewServer wires the handlers. A nil generator means fallback questions.
func NewServer(opts Options, sessions *session.Store, pdfService *pdf.Service,
	generator questions.Generator, logger *zap.Logger,
) *Server {
	if generator == nil {
		generator = questions.Fallback{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = pdfService.GetMaxFileSize()
	}
	if opts.QuestionTimeout <= 0 {
		opts.QuestionTimeout = questions.DefaultTimeout
	}
	return &Server{
		opts:      opts,
		sessions:  sessions,
		pdf:       pdfService,
		generator: generator,
		logger:    logger,
	}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.recoverer)
	router.Use(s.requestLogger)
	router.Use(cors.Handler(cors.Options{
		AllowOriginFunc: s.originAllowed,
		AllowedMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:  []string{"*"},
		ExposedHeaders:  []string{"Content-Disposition"},
		MaxAge:          300,
	}))

	router.Get("/health", s.handleHealth)

	router.Post("/upload-pdf", s.handleUploadPDF)
	router.Post("/start-session", s.handleStartSession)
	router.Post("/next-question", s.handleNextQuestion)
	router.Post("/generate-pdf", s.handleGeneratePDF)

	router.Post("/analyze-website-form", s.handleAnalyzeWebsiteForm)
	router.Post("/fill-website-form", s.handleFillWebsiteForm)
	router.Post("/upload-image", s.handleUploadImage)

	router.Route("/forms", func(r chi.Router) {
		r.Post("/detect", s.handleDetectForms)
		r.Post("/html", s.handleExtractFormHTML)
		r.Post("/fill", s.handleFillForm)
	})

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return router
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("Handler panicked",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", middleware.GetReqID(r.Context())))
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// originAllowed admits browser extensions and the configured origins
func (s *Server) originAllowed(_ *http.Request, origin string) bool {
	if strings.HasPrefix(origin, "chrome-extension://") {
		return true
	}
	for _, allowed := range s.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                "healthy",
		"version":               s.opts.Version,
		"features":              Features,
		"openrouter_configured": s.opts.AIConfigured,
	})
}
