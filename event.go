package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/minicart/models"
	"goflare.io/minicart/models/enum"
)

const (
	eventSubjectPrefix = "minicart.cart.event"
	drainTimeout       = 2 * time.Second
	drainPollInterval  = 10 * time.Millisecond
)

type EventHandler func(context.Context, *models.CartEvent) error

// EventManager routes cart events to registered handlers. With a NATS
// connection events travel through the bus; without one they go straight to
// the worker pool.
type EventManager struct {
	natsConn     *nats.Conn
	subscription *nats.Subscription
	sessionID    uuid.UUID

	mu       sync.RWMutex
	handlers map[enum.CartEventType][]EventHandler

	logger *zap.Logger
}

func NewEventManager(natsConn *nats.Conn, sessionID uuid.UUID, logger *zap.Logger) *EventManager {
	return &EventManager{
		natsConn:  natsConn,
		sessionID: sessionID,
		handlers:  make(map[enum.CartEventType][]EventHandler),
		logger:    logger,
	}
}

func (em *EventManager) RegisterHandler(eventType enum.CartEventType, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()
	em.handlers[eventType] = append(em.handlers[eventType], handler)
}

func (em *EventManager) GetHandlers(eventType enum.CartEventType) []EventHandler {
	em.mu.RLock()
	defer em.mu.RUnlock()

	handlers := make([]EventHandler, len(em.handlers[eventType]))
	copy(handlers, em.handlers[eventType])
	return handlers
}

// Subject 回傳某事件類型在此 session 下的 NATS subject
func (em *EventManager) Subject(eventType enum.CartEventType) string {
	return fmt.Sprintf("%s.%s.%s", eventSubjectPrefix, em.sessionID, eventType)
}

// SubscribeToEvents feeds this session's events from NATS into wp. It is a
// no-op without a NATS connection.
func (em *EventManager) SubscribeToEvents(wp *WorkerPool) error {
	if em.natsConn == nil {
		return nil
	}

	subject := fmt.Sprintf("%s.%s.>", eventSubjectPrefix, em.sessionID)
	sub, err := em.natsConn.Subscribe(subject, func(msg *nats.Msg) {
		var event models.CartEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			em.logger.Error("Failed to unmarshal event", zap.Error(err))
			return
		}

		wp.Submit(context.Background(), &event)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	em.subscription = sub
	return nil
}

// Publish 發送事件
func (em *EventManager) Publish(ctx context.Context, event *models.CartEvent, wp *WorkerPool) error {
	if em.natsConn == nil {
		wp.Submit(ctx, event)
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err = em.natsConn.Publish(em.Subject(event.Type), data); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}
	return nil
}

// Close drops the NATS subscription after flushing what has been published.
func (em *EventManager) Close() error {
	if em.subscription == nil {
		return nil
	}

	var errs []error
	if err := em.natsConn.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := em.subscription.Drain(); err != nil {
		errs = append(errs, err)
	}

	deadline := time.Now().Add(drainTimeout)
	for em.subscription.IsValid() && time.Now().Before(deadline) {
		time.Sleep(drainPollInterval)
	}
	return errors.Join(errs...)
}
