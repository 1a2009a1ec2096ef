package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"meetingscribe/internal/config"
	"meetingscribe/internal/daemon"
	"meetingscribe/internal/library"
	"meetingscribe/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, configPath, warn := config.Load("")

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if warn != nil {
		logger.Warn("config load", logging.Error(warn))
	}

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Error("prepare directories", logging.Error(err))
		return
	}

	lib, err := library.Open(filepath.Join(cfg.Daemon.LogDir, "library.db"), logger)
	if err != nil {
		logger.Error("open transcript library", logging.Error(err))
		return
	}

	d, err := daemon.New(cfg, configPath, lib, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		lib.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("meetingscribed shutting down")
}
