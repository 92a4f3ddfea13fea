package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"OdontoSystem/config"
	"OdontoSystem/dashboard"
	"OdontoSystem/logger"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadDashboard()
	if err != nil {
		logger.New(logger.Options{ServiceName: "odonto-dashboard"}).Error(ctx, "failed to load configuration", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		ServiceName: "odonto-dashboard",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := dashboard.NewServer(dashboard.NewClient(cfg.APIURL, cfg.Timeout), log)
	if err != nil {
		log.Error(ctx, "failed to build dashboard", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info(log.WithFields(ctx, map[string]any{"addr": srv.Addr, "api_url": cfg.APIURL}), "starting dashboard")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "dashboard server failed", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "dashboard shutdown failed", err)
	}
}
