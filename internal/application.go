package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/contextoduel/contexto-backend/internal/config"
	"github.com/contextoduel/contexto-backend/internal/embedding"
	"github.com/contextoduel/contexto-backend/internal/llm"
	"github.com/contextoduel/contexto-backend/internal/repository"
	"github.com/contextoduel/contexto-backend/internal/repository/storage"
	"github.com/contextoduel/contexto-backend/internal/repository/storage/sqlite"
	"github.com/contextoduel/contexto-backend/internal/service"
	"github.com/contextoduel/contexto-backend/transport/rest"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - wires the dependencies and runs the application until a signal
// arrives or the HTTP server fails.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := sqlite.New(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	log.Info("Loading word embeddings", "path", conf.Embeddings.Path)
	embeddings, err := embedding.Load(conf.Embeddings.Path)
	if err != nil {
		return fmt.Errorf("could not load word embeddings: %w", err)
	}
	log.Info("Word embeddings loaded", "vocabulary", embeddings.VocabularySize())

	textProvider := llm.New(llm.Config{
		BaseURL:     conf.LLM.BaseURL,
		APIKey:      conf.LLM.APIKey,
		Model:       conf.LLM.Model,
		Temperature: conf.LLM.Temperature,
		Timeout:     conf.LLM.GetTimeout(),
	})

	matchRepo := repository.NewMatchRepository(redisStorage.Connection)
	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)
	userRepo := repository.NewUserRepository(sqliteStorage.Connection)
	historyRepo := repository.NewHistoryRepository(sqliteStorage.Connection)

	gate := service.NewVocabularyGate(embeddings)
	negotiator := service.NewNegotiatorService(logger, textProvider, embeddings, gate, conf.LLM.GetTimeout())
	matchService := service.NewMatchService(logger, matchRepo, playerRepo, historyRepo, embeddings, embeddings, gate, negotiator)
	userService := service.NewUserService(userRepo, historyRepo)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		server := rest.New(logger, matchService, userService)
		if httpErr := server.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
