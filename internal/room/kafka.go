package room

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const RoomCreatedEvent = "room.created"

type Event struct {
	Type      string    `json:"type"`
	RoomID    string    `json:"room_id"`
	CreatedAt time.Time `json:"created_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits room lifecycle events keyed by room id.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(endpoint string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(endpoint),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) RoomCreated(ctx context.Context, room Room) error {
	value, err := json.Marshal(Event{
		Type:      RoomCreatedEvent,
		RoomID:    room.RoomID,
		CreatedAt: room.CreatedAt,
	})
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(room.RoomID),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
