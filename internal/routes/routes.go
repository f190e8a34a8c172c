package routes

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rejdeboer/collab-server/internal/configuration"
	"github.com/rejdeboer/collab-server/internal/metrics"
	"github.com/rejdeboer/collab-server/internal/middleware"
	"github.com/rejdeboer/collab-server/internal/room"
	"github.com/rejdeboer/collab-server/internal/suggest"
	"github.com/rejdeboer/collab-server/internal/websocket"
	"github.com/rejdeboer/collab-server/pkg/httperrors"
	"github.com/rs/zerolog"
)

// RoomService is the room lifecycle collaborator used by the HTTP layer.
type RoomService interface {
	Create(ctx context.Context, customID string) (room.Room, error)
	Exists(ctx context.Context, roomID string) (bool, error)
}

type Env struct {
	Hub       *websocket.Hub
	Rooms     RoomService
	Suggester *suggest.Suggester
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
	websocket.Stats
}

func CreateHandler(settings configuration.Settings, env *Env) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("GET /{$}", index)
	api.HandleFunc("GET /health", env.health)
	api.Handle("GET /metrics", metrics.Handler())

	api.HandleFunc("POST /rooms", env.createRoom)
	api.HandleFunc("POST /autocomplete", env.autocomplete)

	// Websocket sessions are long lived and tracked by the hub gauges, so
	// they stay out of the request metrics.
	mux := http.NewServeMux()
	mux.Handle("/", metrics.Instrument(api))
	mux.HandleFunc("GET /ws/{room_id}", env.handleWebSocket(settings))

	return middleware.WithMiddleware(mux, settings.Application)
}

func index(w http.ResponseWriter, r *http.Request) {
	zerolog.Ctx(r.Context()).Info().Msg("root endpoint called")
	writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Collaborative Editor Backend Running"})
}

func (env *Env) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, HealthResponse{
		Status: "ok",
		Stats:  env.Hub.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	response, err := json.Marshal(body)
	if err != nil {
		httperrors.InternalServerError(w)
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("error marshalling response")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(response)
}
