package events

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/speculo/internal/interfaces"
	"github.com/ternarybob/speculo/internal/models"
)

const subscriberBuffer = 32

// Service fans sync workflow events out to subscribers. Delivery is
// best-effort: a slow subscriber drops events rather than blocking the
// pipeline.
type Service struct {
	mu     sync.RWMutex
	subs   map[int]chan models.SyncEvent
	nextID int
	logger arbor.ILogger
}

// NewService creates an event service.
func NewService(logger arbor.ILogger) interfaces.EventService {
	return &Service{
		subs:   make(map[int]chan models.SyncEvent),
		logger: logger,
	}
}

func (s *Service) Publish(event models.SyncEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
			// Subscriber buffer full, drop the event.
		}
	}
}

func (s *Service) Subscribe() (<-chan models.SyncEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan models.SyncEvent, subscriberBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}
