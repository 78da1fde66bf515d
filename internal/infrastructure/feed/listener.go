package feed

import (
	"context"
	"log"

	"github.com/segmentio/kafka-go"
)

// EventHandler receives the key and raw payload of one feed event.
type EventHandler func(ctx context.Context, key, value []byte) error

// Listener follows the feed topic and hands each event to a handler.
type Listener struct {
	reader *kafka.Reader
}

func NewListener(brokers []string, topic, groupID string) *Listener {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Listener{reader: reader}
}

// Listen blocks until the context is cancelled, invoking handler per event.
// Handler errors are logged and do not stop the loop.
func (l *Listener) Listen(ctx context.Context, handler EventHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := l.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("[Feed] Error reading message: %v", err)
				continue
			}

			if err := handler(ctx, msg.Key, msg.Value); err != nil {
				log.Printf("[Feed] Error handling message: %v", err)
			}
		}
	}
}

func (l *Listener) Close() error {
	return l.reader.Close()
}
