package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wrenfield/perch/internal/backup"
	"github.com/wrenfield/perch/internal/config"
	"github.com/wrenfield/perch/internal/logging"
	"github.com/wrenfield/perch/internal/server"
	"github.com/wrenfield/perch/internal/storage"
	"github.com/wrenfield/perch/internal/store"
)

func main() {
	configPath := flag.String("config", "perch.yaml", "path to the configuration file")
	listen := flag.String("listen", "", "listen address, overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to resolve timezone: %v", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer db.Close()

	st := store.New(storage.NewKV(db), logger.With("component", "store"))
	if err := st.Load(); err != nil {
		log.Fatalf("failed to load state: %v", err)
	}

	backupMgr := backup.NewManager(backup.Config{
		Dir:        cfg.Backup.Dir,
		Schedule:   cfg.Backup.Schedule,
		Passphrase: cfg.Backup.Passphrase,
	}, st, logger.With("component", "backup"))
	if err := backupMgr.Start(); err != nil {
		log.Fatalf("failed to start backup scheduler: %v", err)
	}
	defer backupMgr.Stop()

	srv := server.New(st, backupMgr, loc,
		time.Duration(cfg.Notify.IntervalSeconds)*time.Second,
		time.Duration(cfg.Notify.WindowMinutes)*time.Minute,
		logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.Notifier().Start(ctx)
	defer srv.Notifier().Stop()

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Perch running at http://%s\n", cfg.Listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down", slog.String("component", "main"))
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
