package main

import (
	"os"
	"os/signal"
	"syscall"

	"akun/internal/app"
	"akun/internal/config"
	"akun/pkg/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.AppName, cfg.AppEnv, cfg.LogLevel)

	// --- Wiring ---
	application, err := app.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize application")
	}

	if err := application.StartConsumers(); err != nil {
		log.WithError(err).Error("failed to start event consumer")
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Listen(); err != nil {
			log.WithError(err).Fatal("server failed to start")
		}
	}()

	<-quit
	log.Info("shutting down server")

	if err := application.Shutdown(); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server gracefully stopped")
}
