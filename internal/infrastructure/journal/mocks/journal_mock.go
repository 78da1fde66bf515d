package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/shopfront/internal/infrastructure/journal"
)

// MockJournal is an in-memory Journal that records Append calls for tests.
type MockJournal struct {
	mu     sync.RWMutex
	events map[string][]journal.Event

	// For tracking calls in tests
	AppendCalls []AppendCall
	AppendErr   error
}

// AppendCall records parameters passed to Append.
type AppendCall struct {
	AggregateID   string
	AggregateType string
	EventType     string
	Data          any
}

func NewMockJournal() *MockJournal {
	return &MockJournal{
		events:      make(map[string][]journal.Event),
		AppendCalls: make([]AppendCall, 0),
	}
}

// Append stores an event in memory.
func (m *MockJournal) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*journal.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls = append(m.AppendCalls, AppendCall{
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          data,
	})

	if m.AppendErr != nil {
		return nil, m.AppendErr
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	version := len(m.events[aggregateID]) + 1
	event := journal.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}

	m.events[aggregateID] = append(m.events[aggregateID], event)
	return &event, nil
}

// Events returns events for an aggregate.
func (m *MockJournal) Events(aggregateID string) []journal.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[aggregateID]
}

// AllEvents returns all events.
func (m *MockJournal) AllEvents() []journal.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []journal.Event
	for _, events := range m.events {
		all = append(all, events...)
	}
	return all
}

// Reset clears all events and recorded calls.
func (m *MockJournal) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]journal.Event)
	m.AppendCalls = make([]AppendCall, 0)
	m.AppendErr = nil
}

// EventTypes returns the recorded event types in call order.
func (m *MockJournal) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	types := make([]string, 0, len(m.AppendCalls))
	for _, call := range m.AppendCalls {
		types = append(types, call.EventType)
	}
	return types
}
