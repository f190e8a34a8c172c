package routes

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rejdeboer/collab-server/internal/room"
	"github.com/rejdeboer/collab-server/internal/suggest"
	"github.com/rejdeboer/collab-server/pkg/httperrors"
	"github.com/rs/zerolog"
)

var validate = validator.New()

type RoomCreate struct {
	CustomID *string `json:"custom_id"`
}

type RoomResponse struct {
	RoomID string `json:"room_id"`
}

type AutocompleteRequest struct {
	Context        *string `json:"context" validate:"required"`
	CursorPosition *int    `json:"cursor_position" validate:"required"`
}

func (env *Env) createRoom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := zerolog.Ctx(ctx)

	var body RoomCreate
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		httperrors.Write(w, err.Error(), http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid body for create room")
		return
	}

	var customID string
	if body.CustomID != nil {
		customID = *body.CustomID
	}

	created, err := env.Rooms.Create(ctx, customID)
	switch {
	case errors.Is(err, room.ErrRoomExists):
		httperrors.Write(w, "Room ID already exists", http.StatusBadRequest)
		return
	case errors.Is(err, room.ErrInvalidRoomID):
		httperrors.Write(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		httperrors.InternalServerError(w)
		log.Error().Err(err).Msg("failed to create room")
		return
	}

	writeJSON(w, r, http.StatusOK, RoomResponse{RoomID: created.RoomID})
}

func (env *Env) autocomplete(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	var body AutocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.Write(w, err.Error(), http.StatusBadRequest)
		log.Error().Err(err).Msg("invalid body for autocomplete")
		return
	}
	if err := validate.Struct(body); err != nil {
		httperrors.Write(w, err.Error(), http.StatusUnprocessableEntity)
		log.Warn().Err(err).Msg("incomplete autocomplete request")
		return
	}

	request := suggest.Request{Context: *body.Context, CursorPosition: *body.CursorPosition}
	log.Info().Int("context_length", len(request.Context)).Msg("autocomplete requested")
	writeJSON(w, r, http.StatusOK, env.Suggester.Suggest(request))
}
