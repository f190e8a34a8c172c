package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rejdeboer/collab-server/internal/configuration"
	"github.com/rejdeboer/collab-server/internal/logger"
	"github.com/rejdeboer/collab-server/internal/room"
	"github.com/rejdeboer/collab-server/internal/routes"
	"github.com/rejdeboer/collab-server/internal/suggest"
	"github.com/rejdeboer/collab-server/internal/websocket"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	log       zerolog.Logger
	pool      *pgxpool.Pool
	publisher *room.KafkaPublisher
	hub       *websocket.Hub
	server    *http.Server
}

func Build(ctx context.Context, settings configuration.Settings) (*Application, error) {
	log := logger.Get()
	addr := fmt.Sprintf(":%d", settings.Application.Port)

	if err := Migrate(settings); err != nil {
		return nil, err
	}

	pool, err := GetDbConnectionPool(ctx, settings.Database)
	if err != nil {
		return nil, err
	}

	var publisher *room.KafkaPublisher
	var roomPublisher room.Publisher
	if settings.Application.KafkaEndpoint != "" {
		publisher = room.NewKafkaPublisher(settings.Application.KafkaEndpoint, settings.Application.RoomEventsTopic)
		roomPublisher = publisher
	} else {
		log.Info().Msg("no kafka endpoint configured, room events are disabled")
	}

	hub := websocket.NewHub(log)

	handler := routes.CreateHandler(settings, &routes.Env{
		Hub:       hub,
		Rooms:     room.NewService(room.NewPostgresStore(pool), roomPublisher, log),
		Suggester: suggest.NewSuggester(),
	})

	return &Application{
		log:       log,
		pool:      pool,
		publisher: publisher,
		hub:       hub,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start serves until ctx is cancelled and then shuts down gracefully.
func (app *Application) Start(ctx context.Context) error {
	defer app.close()

	errs := make(chan error, 1)
	go func() {
		app.log.Info().Msg(fmt.Sprintf("Server listening on port %s", app.server.Addr))
		errs <- app.server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	app.log.Info().Msg("shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown, the hub
	// closes them.
	app.hub.Close()
	return app.server.Shutdown(shutdownCtx)
}

func (app *Application) close() {
	app.hub.Close()
	app.pool.Close()
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.log.Error().Err(err).Msg("error closing kafka publisher")
		}
	}
}
