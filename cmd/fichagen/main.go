package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hemoba-digital/fichagen/internal/config"
	"github.com/hemoba-digital/fichagen/internal/document"
	"github.com/hemoba-digital/fichagen/internal/extract"
	"github.com/hemoba-digital/fichagen/internal/fill"
	"github.com/hemoba-digital/fichagen/internal/server"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	cfg.Version = version

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	recognizer := document.NewRecognizer(cfg.OCRLanguages)
	acquirer := document.NewService(cfg.MaxFileSize, cfg.LineTolerance, recognizer)
	extractor := extract.New(extract.Options{
		LineWindow:    cfg.LineWindow,
		LineTolerance: cfg.LineTolerance,
		BandTolerance: cfg.BandTolerance,
	})
	filler := fill.NewFiller(cfg.TemplatePath)

	if _, err := os.Stat(cfg.TemplatePath); err != nil {
		// Missing template only breaks the final generation step, so it
		// is a warning at startup rather than a fatal error.
		log.Warn("output template not found; PDF generation will fail until it exists",
			zap.String("template", cfg.TemplatePath))
	}

	srv, err := server.NewServer(cfg, log, acquirer, extractor, filler)
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Address(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting fichagen",
		zap.String("version", version),
		zap.String("build_time", buildTime),
		zap.String("address", cfg.Address()),
		zap.Bool("ocr", acquirer.OCRAvailable()))

	run(log, httpServer)
}

// run serves until SIGINT/SIGTERM, then shuts down gracefully.
func run(log *zap.Logger, httpServer *http.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- httpServer.ListenAndServe()
	}()

	select {
	case sig := <-signalCh:
		log.Info("received signal, shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error("shutdown error", zap.Error(err))
			os.Exit(1)
		}
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	log.Info("server stopped")
}
