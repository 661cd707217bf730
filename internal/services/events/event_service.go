package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
)

// queueSize bounds the events waiting for one subscriber; overflow is dropped
const queueSize = 256

type delivery struct {
	ctx   context.Context
	event interfaces.Event
}

// subscription delivers events to one handler, one at a time, in publish order
type subscription struct {
	eventType interfaces.EventType
	handler   interfaces.EventHandler
	queue     chan delivery
}

// Service is an in-process event bus. Publish never blocks the publisher:
// each subscriber drains its own queue, so a slow WebSocket client cannot stall
// the upload ticker, and progress events arrive in the order they were published.
type Service struct {
	mu          sync.RWMutex
	subscribers map[interfaces.EventType][]*subscription
	closed      bool
	workers     sync.WaitGroup
	logger      arbor.ILogger
}

// NewService creates a new event service
func NewService(logger arbor.ILogger) interfaces.EventService {
	return &Service{
		subscribers: make(map[interfaces.EventType][]*subscription),
		logger:      logger,
	}
}

// Subscribe registers a handler for an event type
func (s *Service) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("event service closed")
	}

	sub := &subscription{
		eventType: eventType,
		handler:   handler,
		queue:     make(chan delivery, queueSize),
	}
	s.subscribers[eventType] = append(s.subscribers[eventType], sub)

	s.workers.Add(1)
	common.SafeGo(s.logger, "event-subscriber-"+string(eventType), func() { s.drain(sub) })

	s.logger.Debug().
		Str("event_type", string(eventType)).
		Int("subscriber_count", len(s.subscribers[eventType])).
		Msg("Event handler subscribed")

	return nil
}

func (s *Service) drain(sub *subscription) {
	defer s.workers.Done()
	for d := range sub.queue {
		s.invoke(sub.handler, d.ctx, d.event)
	}
}

// invoke runs one handler, containing panics so the subscriber keeps draining
func (s *Service) invoke(handler interfaces.EventHandler, ctx context.Context, event interfaces.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("event_type", string(event.Type)).
				Msg("Event handler failed")
		}
	}()
	return handler(ctx, event)
}

// Publish queues event for every subscriber and returns immediately
func (s *Service) Publish(ctx context.Context, event interfaces.Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil
	}

	for _, sub := range s.subscribers[event.Type] {
		select {
		case sub.queue <- delivery{ctx: context.WithoutCancel(ctx), event: event}:
		default:
			s.logger.Warn().
				Str("event_type", string(event.Type)).
				Int("queue_size", queueSize).
				Msg("Subscriber queue full, event dropped")
		}
	}

	return nil
}

// PublishSync runs every handler on the caller's goroutine and joins their errors.
// It bypasses the subscriber queues, so it does not wait for earlier async events.
func (s *Service) PublishSync(ctx context.Context, event interfaces.Event) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil
	}
	subs := make([]*subscription, len(s.subscribers[event.Type]))
	copy(subs, s.subscribers[event.Type])
	s.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := s.invoke(sub.handler, ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event handlers failed: %w", errors.Join(errs...))
	}
	return nil
}

// Close stops accepting events, lets queued ones finish and drops all subscribers
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for _, subs := range s.subscribers {
		for _, sub := range subs {
			close(sub.queue)
		}
	}
	s.subscribers = make(map[interfaces.EventType][]*subscription)
	s.mu.Unlock()

	s.workers.Wait()
	s.logger.Debug().Msg("Event service closed")

	return nil
}
