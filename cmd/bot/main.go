package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"fightback-bot/internal/config"
	"fightback-bot/internal/constants"
	"fightback-bot/internal/database"
	"fightback-bot/internal/discord"
	"fightback-bot/internal/logger"
	"fightback-bot/internal/middleware"
	"fightback-bot/internal/repository"
	"fightback-bot/internal/server"
	"fightback-bot/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fx.Provide(
			logger.New,
			config.Load,
			database.New,
			repository.NewPlayerRepository,
			repository.NewMatchRepository,
			repository.NewPointHistoryRepository,
			service.NewLadderService,
			server.NewLadderServer,
			discord.NewGateway,
		),
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	gateway *discord.Gateway,
	ladderServer *server.LadderServer,
	cfg *config.Config,
	db *sql.DB,
	log zerolog.Logger,
) {
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: middleware.RequestID(log)(c.Handler(ladderServer.Routes())),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := gateway.Open(); err != nil {
				return fmt.Errorf("failed to open discord session: %w", err)
			}
			log.Info().Msg("discord gateway connected")

			go func() {
				log.Info().Str("addr", srv.Addr).Msg("http server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("http server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := gateway.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing discord session")
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("http server shutdown failed")
			}
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing database")
			}

			log.Info().Msg("stopped gracefully")
			return nil
		},
	})
}
