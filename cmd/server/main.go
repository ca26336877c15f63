package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"studybee/internal/ai"
	"studybee/internal/config"
	"studybee/internal/db"
	"studybee/internal/handler"
	"studybee/internal/metrics"
	"studybee/internal/repository"
	"studybee/internal/router"
	"studybee/internal/service"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	userRepo := repository.NewUserRepository(database)
	groupRepo := repository.NewGroupRepository(database)
	statsRepo := repository.NewStatsRepository(database)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	generator := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set, AI endpoint will fail upstream")
	}

	userService := service.NewUserService(userRepo, statsRepo)
	groupService := service.NewGroupService(userRepo, groupRepo, statsRepo)
	statsService := service.NewStatsService(userRepo, statsRepo)
	aiService := service.NewAIService(generator, cfg.AICacheBytes, log)

	handlers := router.Handlers{
		User:   handler.NewUserHandler(userService),
		Group:  handler.NewGroupHandler(groupService),
		Stats:  handler.NewStatsHandler(statsService, m),
		AI:     handler.NewAIHandler(aiService),
		Health: handler.NewHealthHandler(userRepo, groupRepo),
	}

	engine := router.New(handlers, m, registry, cfg.CORSOrigins)
	log.Info().Str("port", cfg.Port).Msg("backend listening")
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("run server")
	}
}
