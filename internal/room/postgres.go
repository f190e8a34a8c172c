package room

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, roomID string) (Room, error) {
	var room Room
	err := s.pool.QueryRow(ctx,
		`INSERT INTO rooms (room_id) VALUES ($1) RETURNING id, room_id, created_at`,
		roomID,
	).Scan(&room.ID, &room.RoomID, &room.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Room{}, ErrRoomExists
		}
		return Room{}, err
	}

	return room, nil
}

func (s *PostgresStore) Get(ctx context.Context, roomID string) (Room, error) {
	var room Room
	err := s.pool.QueryRow(ctx,
		`SELECT id, room_id, created_at FROM rooms WHERE room_id = $1`,
		roomID,
	).Scan(&room.ID, &room.RoomID, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, ErrRoomNotFound
	}
	if err != nil {
		return Room{}, err
	}

	return room, nil
}
