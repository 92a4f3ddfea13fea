package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"OdontoSystem/cache"
	"OdontoSystem/config"
	"OdontoSystem/database"
	"OdontoSystem/logger"
	"OdontoSystem/routes"
	"OdontoSystem/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "odonto-api"}).Error(context.Background(), "failed to load configuration", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "odonto-api",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	ctx := context.Background()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) error {
	store, err := database.Open(ctx, cfg.StoreConfig, cfg.IsDev())
	if err != nil {
		return err
	}

	// Initialize Redis
	redisClient, err := database.NewRedisClient(ctx, database.DefaultRedisConfig(cfg.RedisAddress))
	if err != nil {
		return err
	}
	defer redisClient.Close()

	sessions, err := cache.NewCache(redisClient)
	if err != nil {
		return err
	}

	tokens, err := utils.NewTokenMaker(cfg.TokenSymmetricKey, cfg.TokenTTL())
	if err != nil {
		return err
	}

	var mailer utils.Mailer
	if cfg.SMTP.Enabled() {
		mailer = utils.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Info(ctx, "SMTP not configured, password reset disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.SetupRoutes(routes.Dependencies{
		Config:   cfg,
		Store:    store,
		Cache:    sessions,
		Tokens:   tokens,
		Mailer:   mailer,
		Logger:   log,
		Registry: registry,
	})

	// Configure and start the server
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info(log.WithField(ctx, "addr", srv.Addr), "starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Graceful shutdown handling
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	log.Info(ctx, "shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	wg.Wait()
	log.Info(ctx, "server exited gracefully")
	return nil
}
