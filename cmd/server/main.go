// Package main runs the LankaCast API server.
// It exposes the bus delay prediction and property forecast endpoints.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"lankacast/internal/history"
	"lankacast/internal/model"
	"lankacast/internal/server"
	"lankacast/pkg/platform"
)

var version = "0.1.0"

func main() {
	platform.InitLogger()

	port := platform.GetEnv("PORT", "8080")

	artifact, err := loadArtifact()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load model artifact")
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      server.New(artifact, store, version).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", port).
			Str("version", version).
			Str("model", artifact.Name).
			Bool("history", store != nil).
			Msg("Starting LankaCast API Server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
}

// loadArtifact uses the embedded model unless MODEL_ARTIFACT points at a
// replacement file.
func loadArtifact() (*model.Artifact, error) {
	if path := os.Getenv("MODEL_ARTIFACT"); path != "" {
		log.Info().Str("path", path).Msg("Loading model artifact from file")
		return model.LoadFile(path)
	}
	return model.LoadEmbedded()
}

// openHistory connects to ClickHouse when CLICKHOUSE_HOST is set. Without
// it the server runs with history disabled.
func openHistory() *history.Store {
	host := os.Getenv("CLICKHOUSE_HOST")
	if host == "" {
		return nil
	}

	cfg := history.DefaultConfig()
	cfg.Host = host
	cfg.Port = platform.GetEnvInt("CLICKHOUSE_PORT", cfg.Port)
	cfg.Database = platform.GetEnv("CLICKHOUSE_DATABASE", cfg.Database)
	cfg.Username = platform.GetEnv("CLICKHOUSE_USER", cfg.Username)
	cfg.Password = platform.GetEnv("CLICKHOUSE_PASSWORD", cfg.Password)
	cfg.Debug = platform.GetEnvBool("CLICKHOUSE_DEBUG", false)

	store, err := history.NewStore(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("History store unavailable, continuing without it")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("History store not reachable, continuing without it")
		store.Close()
		return nil
	}
	return store
}
