package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rejdeboer/collab-server/internal/configuration"
	"github.com/rejdeboer/collab-server/internal/logger"
)

func GetDbConnectionPool(ctx context.Context, settings configuration.DatabaseSettings) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, GetDbConnectionString(settings))
	if err != nil {
		logger.Get().Error().Err(err).Msg("failed to connect to db")
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging db: %w", err)
	}

	return pool, nil
}

func GetDbConnectionString(settings configuration.DatabaseSettings) string {
	dbUrl := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		settings.Username,
		settings.Password,
		settings.Host,
		settings.Port,
		settings.DbName,
	)

	if !settings.RequireSsl {
		dbUrl = dbUrl + "?sslmode=disable"
	} else {
		dbUrl = dbUrl + "?sslmode=require"
	}

	return dbUrl
}

// Migrate applies every pending migration found in the configured directory.
func Migrate(settings configuration.Settings) error {
	db, err := sql.Open("pgx", GetDbConnectionString(settings.Database))
	if err != nil {
		return fmt.Errorf("opening db connection: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("initializing migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+settings.Application.MigrationsPath,
		"pgx", driver)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	logger.Get().Info().Msg("database tables created/verified")
	return nil
}
