package journal

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shopfront/internal/infrastructure/feed"
)

// Event is one recorded state change of a shop aggregate.
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}

// Journal is an append-only audit log of state changes. It is an
// observation surface: shop state is never rebuilt from it.
type Journal interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	Events(aggregateID string) []Event
	AllEvents() []Event
}

// Memory keeps the journal in process memory, optionally publishing each
// appended event to the feed.
type Memory struct {
	mu        sync.RWMutex
	events    map[string][]Event // aggregateID -> events
	publisher *feed.Publisher
}

func NewMemory(publisher *feed.Publisher) *Memory {
	return &Memory{
		events:    make(map[string][]Event),
		publisher: publisher,
	}
}

// Append records an event, assigning the next per-aggregate version.
func (m *Memory) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	version := len(m.events[aggregateID]) + 1
	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}
	m.events[aggregateID] = append(m.events[aggregateID], event)
	m.mu.Unlock()

	if m.publisher != nil {
		if err := m.publisher.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// Events returns all events for an aggregate in version order.
func (m *Memory) Events(aggregateID string) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[aggregateID]
}

// AllEvents returns every recorded event.
func (m *Memory) AllEvents() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []Event
	for _, events := range m.events {
		all = append(all, events...)
	}
	return all
}
