package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ECdison6227/flashcraft/internal/config"
	"github.com/ECdison6227/flashcraft/internal/database"
	"github.com/ECdison6227/flashcraft/internal/gemini"
	"github.com/ECdison6227/flashcraft/internal/handlers"
	"github.com/ECdison6227/flashcraft/internal/quota"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)

	db, err := database.NewPostgresDB(logger, database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		DBName:   cfg.PostgresDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	})
	if err != nil {
		logger.WithError(err).Fatal("Database initialization failed")
	}

	gate := quota.NewGate(logger, db)
	selector := quota.NewSelector(logger, gate, cfg)
	client := gemini.NewClient(logger, cfg)

	if !client.HasKey() {
		logger.Warn("GEMINI_API_KEY is not set; API routes will fail closed with 500")
	}

	handler := handlers.NewProxyHandler(logger, cfg, selector, client)

	r := mux.NewRouter()
	r.Use(handlers.RequestIDMiddleware)
	r.Use(handlers.LoggingMiddleware(logger, db))
	r.Use(handlers.RateLimitMiddleware(cfg))
	handlers.RegisterRoutes(r, cfg, handler)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Server shutdown error")
		}
	}()

	logger.WithField("addr", server.Addr).Info("Starting server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("Server failed")
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
