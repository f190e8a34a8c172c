package room

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const generatedIDLength = 8

type Service struct {
	store     Store
	publisher Publisher
	log       zerolog.Logger
	newID     func() string
}

// NewService builds the room lifecycle service. publisher may be nil.
func NewService(store Store, publisher Publisher, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		log:       log.With().Str("component", "rooms").Logger(),
		newID:     generateID,
	}
}

// Create persists a new room. An empty customID gets a random short id.
func (s *Service) Create(ctx context.Context, customID string) (Room, error) {
	roomID := strings.TrimSpace(customID)
	if roomID == "" {
		roomID = s.newID()
	} else if err := validateID(roomID); err != nil {
		return Room{}, err
	}

	s.log.Info().Str("room_id", roomID).Msg("attempting to create room")

	room, err := s.store.Create(ctx, roomID)
	if errors.Is(err, ErrRoomExists) {
		s.log.Warn().Str("room_id", roomID).Msg("room creation failed, id already exists")
		return Room{}, err
	}
	if err != nil {
		return Room{}, fmt.Errorf("creating room %s: %w", roomID, err)
	}

	if s.publisher != nil {
		if err := s.publisher.RoomCreated(ctx, room); err != nil {
			s.log.Error().Err(err).Str("room_id", roomID).Msg("failed to publish room created event")
		}
	}

	s.log.Info().Str("room_id", roomID).Msg("room created successfully")
	return room, nil
}

func (s *Service) Exists(ctx context.Context, roomID string) (bool, error) {
	_, err := s.store.Get(ctx, roomID)
	if errors.Is(err, ErrRoomNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up room %s: %w", roomID, err)
	}
	return true, nil
}

func validateID(roomID string) error {
	if len(roomID) > maxRoomIDLength {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidRoomID, maxRoomIDLength)
	}
	if strings.ContainsAny(roomID, "/?#") {
		return fmt.Errorf("%w: must not contain '/', '?' or '#'", ErrInvalidRoomID)
	}
	return nil
}

func generateID() string {
	return uuid.NewString()[:generatedIDLength]
}
