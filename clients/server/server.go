// Package server provides the cardgen HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xob0t/cardgen/pkg/config"
	"github.com/xob0t/cardgen/pkg/generator"
	"github.com/xob0t/cardgen/pkg/storage"
	"github.com/xob0t/cardgen/pkg/template"
)

// maxRequestBody bounds the JSON payload of POST /generate.
const maxRequestBody = 1 << 20

const (
	msgMissingFields = "Missing headline or body"
	msgInvalidJSON   = "Invalid JSON body"
	msgGenerate      = "Failed to generate image"
	msgNotFound      = "Not found"
)

var errMissingFields = errors.New("missing headline or body")

// Options wires a Server.
type Options struct {
	Renderer *template.Renderer
	Variant  template.Variant
	Variants map[string]template.Variant // listed by GET /variants
	Store    storage.Store               // required for file delivery
	BaseURL  string                      // public prefix of image URLs
	Logger   *log.Logger
}

// Server handles generation requests.
type Server struct {
	renderer *template.Renderer
	variant  template.Variant
	variants map[string]template.Variant
	store    storage.Store
	baseURL  string
	log      *log.Logger
}

// New creates a server. File delivery without a Store is rejected.
func New(opts Options) (*Server, error) {
	if opts.Renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	if opts.Variant.Delivery == template.DeliveryFile && opts.Store == nil {
		return nil, errors.New("server: file delivery requires a store")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Variants == nil {
		opts.Variants = map[string]template.Variant{opts.Variant.Name: opts.Variant}
	}
	return &Server{
		renderer: opts.Renderer,
		variant:  opts.Variant,
		variants: opts.Variants,
		store:    opts.Store,
		baseURL:  opts.BaseURL,
		log:      opts.Logger,
	}, nil
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /variants", s.handleVariants)
	if s.fileDelivery() {
		mux.HandleFunc("GET /generated/{name}", s.handleGenerated)
	}
	return RequestLogger(s.log)(mux)
}

func (s *Server) fileDelivery() bool {
	return s.variant.Delivery == template.DeliveryFile
}

// RunServe builds the server from cfg and serves until SIGINT or SIGTERM.
func RunServe(cfg config.Config, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	variants := cfg.AllVariants()
	variant := variants[cfg.Variant]
	for _, w := range template.ValidateVariant(variant) {
		logger.Printf("warning: %s", w)
	}
	if _, err := os.Stat(cfg.TemplatePath); err != nil {
		logger.Printf("warning: template %s is not readable yet: %v", cfg.TemplatePath, err)
	}

	fm, err := template.NewFontManager(cfg.Fonts.Regular, cfg.Fonts.Bold)
	if err != nil {
		return fmt.Errorf("fonts: %w", err)
	}
	engine := cfg.NewEngine(fm)
	renderer := template.NewRenderer(engine, cfg.TemplatePath, cfg.Format)

	var store storage.Store
	if variant.Delivery == template.DeliveryFile {
		ds, err := storage.NewDiskStore(cfg.OutputDir, generator.Extension(cfg.Format), logger)
		if err != nil {
			return err
		}
		store = ds
	}

	s, err := New(Options{
		Renderer: renderer,
		Variant:  variant,
		Variants: variants,
		Store:    store,
		BaseURL:  cfg.BaseURL(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Image generator running on port %d (variant %s, engine %s, %s delivery)",
			cfg.Port, variant.Name, engine.Name(), variant.Delivery)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// ── Responses ──

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ── Middleware ──

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger returns a middleware that logs method, path, status and duration.
func RequestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}
