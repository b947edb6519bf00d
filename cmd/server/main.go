package main

import (
	"TravelJournal/internal/config"
	"TravelJournal/internal/handlers"
	"TravelJournal/internal/repo"
	"TravelJournal/internal/service"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём регистратор zap: development по умолчанию, production по APP_ENV
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}()

	//context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SecretGenerated {
		sugar.Warnw("SECRET_KEY is not set: using a random key, sessions will not survive a restart")
	}

	gormDB, err := repo.InitDB(cfg.DatabaseDSN, config.SQLiteFallbackPath(), !cfg.IsProduction())
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		sugar.Fatalw("failed to get sql.DB", "error", err)
	}
	defer sqlDB.Close()

	userRepo := repo.NewUserRepository(gormDB)
	journalRepo := repo.NewJournalRepository(gormDB)

	// сессии: Redis, если настроен, иначе таблица sessions
	sessionRepo := repo.NewSessionRepository(gormDB)
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := repo.NewRedisClient(pingCtx, cfg.RedisAddr, cfg.RedisPassword)
		cancel()
		if err != nil {
			sugar.Fatalw("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()
		sessionRepo = repo.NewRedisSessionRepository(rdb)
	}

	userService := service.NewUserService(userRepo, sugar)
	sessionService := service.NewSessionService(sessionRepo, userRepo, cfg.SecretKey, cfg.SessionTTL, sugar)
	journalService := service.NewJournalService(journalRepo, sugar)

	h := handlers.NewHandler(userService, sessionService, journalService, sugar, cfg)

	addr := cfg.BaseURL
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"Environment", cfg.Environment,
		"SQLiteFallback", cfg.DatabaseDSN == "",
		"RedisSessions", cfg.RedisAddr != "",
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
}
