package routes

import (
	"errors"
	"net/http"
	"net/url"
	"slices"

	gwebsocket "github.com/gorilla/websocket"
	"github.com/rejdeboer/collab-server/internal/configuration"
	"github.com/rejdeboer/collab-server/internal/websocket"
	"github.com/rejdeboer/collab-server/pkg/httperrors"
	"github.com/rs/zerolog"
)

func (env *Env) handleWebSocket(settings configuration.Settings) http.HandlerFunc {
	upgrader := gwebsocket.Upgrader{
		ReadBufferSize:  settings.Websocket.ReadBufferSize,
		WriteBufferSize: settings.Websocket.WriteBufferSize,
		CheckOrigin:     checkOrigin(settings.Application.CorsOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := zerolog.Ctx(ctx).With().Str("room_id", r.PathValue("room_id")).Logger()

		roomID := r.PathValue("room_id")
		log.Info().Msg("websocket connection attempt")

		if settings.Application.RequireKnownRoom {
			exists, err := env.Rooms.Exists(ctx, roomID)
			if err != nil {
				httperrors.InternalServerError(w)
				log.Error().Err(err).Msg("error looking up room")
				return
			}
			if !exists {
				httperrors.Write(w, "room not found", http.StatusNotFound)
				log.Warn().Msg("rejected connection to unknown room")
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written an error response.
			log.Error().Err(err).Msg("websocket upgrade error")
			return
		}

		client := websocket.NewClient(env.Hub, conn, roomID, settings.Websocket, log)
		err = client.Serve(ctx)
		if errors.Is(err, websocket.ErrConnect) {
			log.Warn().Err(err).Msg("connection failed during initialization")
			return
		}
		if err != nil {
			log.Debug().Err(err).Msg("websocket closed with error")
		}
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return slices.Contains(allowed, u.Scheme+"://"+u.Host)
	}
}
