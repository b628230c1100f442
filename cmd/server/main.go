package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"jungle-server/internal/engine"
	"jungle-server/internal/rooms"
	"jungle-server/internal/server"
	"jungle-server/internal/version"
	"jungle-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	cfg := server.NewConfig()
	if port := os.Getenv("JUNGLE_PORT"); port != "" {
		cfg.Port = port
	}

	var origins string
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port (env JUNGLE_PORT)")
	flag.BoolVar(&cfg.Strict, "strict", false, "Validate relayed moves on the server")
	flag.StringVar(&origins, "origins", "", "Comma-separated websocket Origin allowlist (empty = any)")
	flag.Parse()

	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	logger.Log.Info("Starting Jungle server...")
	logger.Log.Info(version.String())
	if cfg.Strict {
		logger.Log.Info("Mode: strict (server-side move validation)")
	} else {
		logger.Log.Info("Mode: relay (moves are trusted)")
	}

	// 2. Реестр комнат
	registry := rooms.NewRegistry(rooms.Config{
		Strict: cfg.Strict,
		Engine: engine.NewConfig(),
	})

	// 3. Запуск сервера
	srv := server.New(cfg, registry)

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("Shutdown incomplete")
	}

	logger.Log.Info("Done.")
}
