package room

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/rs/zerolog"
)

type memoryStore struct {
	mu    sync.Mutex
	rooms map[string]Room
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rooms: map[string]Room{}}
}

func (s *memoryStore) Create(_ context.Context, roomID string) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Room{}, s.err
	}
	if _, ok := s.rooms[roomID]; ok {
		return Room{}, ErrRoomExists
	}
	room := Room{ID: int64(len(s.rooms) + 1), RoomID: roomID, CreatedAt: time.Now()}
	s.rooms[roomID] = room
	return room, nil
}

func (s *memoryStore) Get(_ context.Context, roomID string) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Room{}, s.err
	}
	room, ok := s.rooms[roomID]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return room, nil
}

type recordingPublisher struct {
	rooms []Room
	err   error
}

func (p *recordingPublisher) RoomCreated(_ context.Context, room Room) error {
	p.rooms = append(p.rooms, room)
	return p.err
}

func TestCreateRoom(t *testing.T) {
	customID := strings.ToLower(gofakeit.Username())

	cases := []struct {
		name        string
		customID    string
		expectedErr error
		check       func(t *testing.T, room Room)
	}{
		{
			name: "generated id",
			check: func(t *testing.T, room Room) {
				if len(room.RoomID) != generatedIDLength {
					t.Errorf("expected id of length %d, got %q", generatedIDLength, room.RoomID)
				}
			},
		},
		{
			name:     "whitespace falls back to generated id",
			customID: "   ",
			check: func(t *testing.T, room Room) {
				if len(room.RoomID) != generatedIDLength {
					t.Errorf("expected id of length %d, got %q", generatedIDLength, room.RoomID)
				}
			},
		},
		{
			name:     "custom id",
			customID: customID,
			check: func(t *testing.T, room Room) {
				if room.RoomID != customID {
					t.Errorf("expected %q got %q", customID, room.RoomID)
				}
			},
		},
		{
			name:        "id with slash",
			customID:    "a/b",
			expectedErr: ErrInvalidRoomID,
		},
		{
			name:        "id too long",
			customID:    strings.Repeat("x", maxRoomIDLength+1),
			expectedErr: ErrInvalidRoomID,
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			publisher := &recordingPublisher{}
			service := NewService(newMemoryStore(), publisher, zerolog.Nop())

			room, err := service.Create(context.Background(), testCase.customID)
			if testCase.expectedErr != nil {
				if !errors.Is(err, testCase.expectedErr) {
					t.Fatalf("expected %v got %v", testCase.expectedErr, err)
				}
				if len(publisher.rooms) != 0 {
					t.Errorf("expected no events, got %v", publisher.rooms)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testCase.check(t, room)

			if len(publisher.rooms) != 1 || publisher.rooms[0].RoomID != room.RoomID {
				t.Errorf("expected one event for %q, got %v", room.RoomID, publisher.rooms)
			}
		})
	}
}

func TestCreateDuplicateRoom(t *testing.T) {
	service := NewService(newMemoryStore(), nil, zerolog.Nop())

	if _, err := service.Create(context.Background(), "dup"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := service.Create(context.Background(), "dup")
	if !errors.Is(err, ErrRoomExists) {
		t.Fatalf("expected ErrRoomExists got %v", err)
	}
}

func TestCreateRoomPublisherFailureIsNotFatal(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	service := NewService(newMemoryStore(), publisher, zerolog.Nop())

	room, err := service.Create(context.Background(), "r1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if room.RoomID != "r1" {
		t.Errorf("expected r1 got %q", room.RoomID)
	}
}

func TestCreateRoomStoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	service := NewService(store, nil, zerolog.Nop())

	_, err := service.Create(context.Background(), "r1")
	if err == nil || errors.Is(err, ErrRoomExists) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestRoomExists(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, nil, zerolog.Nop())
	_, _ = service.Create(context.Background(), "known")

	exists, err := service.Exists(context.Background(), "known")
	if err != nil || !exists {
		t.Errorf("expected known room to exist, got %v %v", exists, err)
	}

	exists, err = service.Exists(context.Background(), "unknown")
	if err != nil || exists {
		t.Errorf("expected unknown room to be absent, got %v %v", exists, err)
	}

	store.err = errors.New("timeout")
	if _, err := service.Exists(context.Background(), "known"); err == nil {
		t.Error("expected store error to propagate")
	}
}
