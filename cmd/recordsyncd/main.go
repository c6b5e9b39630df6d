package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viant/recordsync/document"
	"github.com/viant/recordsync/engine"
	"github.com/viant/recordsync/internal/config"
	"github.com/viant/recordsync/remote"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to JSON config (optional)")
	addr := flag.String("addr", "", "Override listen address (e.g. :8080)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	logger, err := cfg.Logger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Close()

	db, err := engine.Open(cfg.DSN)
	if err != nil {
		logger.Errorf("failed to open database: %v", err)
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := document.NewSQLiteStore(ctx, db)
	if err != nil {
		logger.Errorf("failed to prepare document store: %v", err)
		log.Fatalf("failed to prepare document store: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           remote.NewRouter(store, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("serving %s on %s", cfg.DSN, cfg.Addr)
	log.Printf("server listening at %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server stopped: %v", err)
		log.Fatal(err)
	}
}
