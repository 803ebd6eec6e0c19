package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/heimdex/scenegrab/internal/backend"
	"github.com/heimdex/scenegrab/internal/config"
	"github.com/heimdex/scenegrab/internal/controller"
	"github.com/heimdex/scenegrab/internal/logging"
	"github.com/heimdex/scenegrab/internal/tray"
	"github.com/heimdex/scenegrab/internal/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel(), cfg.LogFormat())
	logger.Info("starting scenegrab",
		"version", config.Version,
		"commit", config.GitCommit,
		"config", cfg.Path(),
		"backend", cfg.BackendURL(),
	)

	client := backend.NewHTTPClient(cfg.BackendURL(), cfg.BackendTimeout(), logger)
	page := web.NewPage()
	ctrl := controller.New(client, page, logger)

	server := web.NewServer(web.ServerConfig{
		Port:       cfg.Port(),
		Page:       page,
		Controller: ctrl,
		BackendURL: client.BaseURL(),
		Version:    config.Version,
		Logger:     logger,
		StartTime:  startTime,
	})

	fmt.Println()
	fmt.Printf("  Scene Grab %s\n", config.Version)
	fmt.Printf("  Open:    %s\n", server.URL())
	fmt.Printf("  Backend: %s\n", client.BaseURL())
	fmt.Println()

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		t := tray.NewTray(tray.TrayConfig{
			URL:    server.URL(),
			Logger: logger,
			OnQuit: quit,
		})
		page.OnLoading(t.SetLoading)
		go t.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
