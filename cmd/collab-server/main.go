package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rejdeboer/collab-server/internal/application"
	"github.com/rejdeboer/collab-server/internal/configuration"
	"github.com/rejdeboer/collab-server/internal/logger"
)

func main() {
	godotenv.Load(".env")
	log := logger.Get()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	settings, err := configuration.ReadConfiguration("./configuration")
	if err != nil {
		log.Fatal().Err(err).Msg("error reading configuration")
	}

	log.Info().Msg("starting up application")

	app, err := application.Build(ctx, settings)
	if err != nil {
		log.Fatal().Err(err).Msg("error building application")
	}

	if err := app.Start(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped unexpectedly")
		os.Exit(1)
	}

	log.Info().Msg("shutdown complete")
}
