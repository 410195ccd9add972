package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GodfreyDev/CahootKlone/internal/config"
	"github.com/GodfreyDev/CahootKlone/internal/httpapi"
	"github.com/GodfreyDev/CahootKlone/internal/hub"
	"github.com/GodfreyDev/CahootKlone/internal/quiz"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg.AppEnv)
	defer logger.Sync()

	catalog := newCatalog(cfg, logger)

	ctx := context.Background()
	h := hub.NewHub(ctx, catalog, clockwork.NewRealClock(), logger)

	handler := httpapi.SetupRoutes(h, catalog, cfg.PublicBaseURL, logger)

	addr := ":" + cfg.ServerPort
	logger.Info("listening", zap.String("addr", addr), zap.String("quiz_store", cfg.QuizStore))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "dev" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}

func newCatalog(cfg *config.Config, logger *zap.Logger) quiz.Catalog {
	if cfg.QuizStore == "memory" {
		logger.Info("using in-memory quiz store")
		return quiz.NewMemoryStore()
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("connecting to database failed", zap.Error(err))
	}
	store, err := quiz.NewGormStore(db)
	if err != nil {
		logger.Fatal("initializing quiz store failed", zap.Error(err))
	}
	return store
}
