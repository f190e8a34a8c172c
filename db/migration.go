package main

import (
	"github.com/joho/godotenv"
	"github.com/rejdeboer/collab-server/internal/application"
	"github.com/rejdeboer/collab-server/internal/configuration"
	"github.com/rejdeboer/collab-server/internal/logger"
)

func main() {
	godotenv.Load(".env")
	log := logger.Get()

	settings, err := configuration.ReadConfiguration("./configuration")
	if err != nil {
		log.Fatal().Err(err).Msg("error reading configuration")
	}

	if err := application.Migrate(settings); err != nil {
		log.Fatal().Err(err).Msg("could not apply the migration")
	}

	log.Info().Msg("migrated database")
}
