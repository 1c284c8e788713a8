package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/minicart/cart"
	"goflare.io/minicart/catalog"
	"goflare.io/minicart/models"
	"goflare.io/minicart/models/enum"
)

var ErrProductNotFound = errors.New("product not found in catalog")

// Service 是一個購物 session：持有目前的購物車快照並在每次變更後發出事件
type Service interface {
	ListProducts(ctx context.Context) []models.Product

	AddToCart(ctx context.Context, product models.Product) models.Cart
	AddProduct(ctx context.Context, productID int64) (models.Cart, error)
	RemoveFromCart(ctx context.Context, productID int64) models.Cart
	ClearCart(ctx context.Context) models.Cart

	Cart(ctx context.Context) models.Cart
	Summary(ctx context.Context) models.Summary
	Snapshot(ctx context.Context) (models.Cart, models.Summary)

	Subscribe(handler EventHandler)
	Close()
}

type service struct {
	catalog *catalog.Catalog

	mu        sync.Mutex
	cart      models.Cart
	sequence  uint64
	sessionID uuid.UUID

	deliverMu sync.Mutex
	delivered uint64

	eventManager *EventManager
	workerPool   *WorkerPool

	logger *zap.Logger
}

// NewService starts an empty session over catalog. natsConn may be nil, in
// which case events are delivered in process.
func NewService(catalog *catalog.Catalog, natsConn *nats.Conn, workers int, logger *zap.Logger) (Service, error) {
	s := &service{
		catalog:   catalog,
		cart:      models.NewCart(),
		sessionID: uuid.New(),
		logger:    logger,
	}
	s.logger = logger.With(zap.String("session_id", s.sessionID.String()))
	s.eventManager = NewEventManager(natsConn, s.sessionID, s.logger)
	s.workerPool = NewWorkerPool(workers, s, s.logger)

	// 訂閱事件
	if err := s.eventManager.SubscribeToEvents(s.workerPool); err != nil {
		s.workerPool.Shutdown()
		return nil, err
	}

	return s, nil
}

func (s *service) ListProducts(_ context.Context) []models.Product {
	return s.catalog.ListProducts()
}

func (s *service) AddToCart(ctx context.Context, product models.Product) models.Cart {
	s.mu.Lock()
	s.cart = cart.AddToCart(s.cart, product)
	s.logger.Debug("Item added to cart",
		zap.Int64("product_id", product.ID),
		zap.Int64("quantity", cart.Quantity(s.cart, product.ID)))

	event := s.newEventLocked(enum.CartEventTypeItemAdded, product.ID)
	s.mu.Unlock()

	s.publish(ctx, event)
	return event.Cart.Clone()
}

func (s *service) AddProduct(ctx context.Context, productID int64) (models.Cart, error) {
	product, ok := s.catalog.Product(productID)
	if !ok {
		return s.Cart(ctx), fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}
	return s.AddToCart(ctx, product), nil
}

func (s *service) RemoveFromCart(ctx context.Context, productID int64) models.Cart {
	s.mu.Lock()
	if !cart.Contains(s.cart, productID) {
		defer s.mu.Unlock()
		s.logger.Debug("Remove ignored, product not in cart", zap.Int64("product_id", productID))
		return s.cart.Clone()
	}

	s.cart = cart.RemoveFromCart(s.cart, productID)
	s.logger.Debug("Item removed from cart",
		zap.Int64("product_id", productID),
		zap.Int64("quantity", cart.Quantity(s.cart, productID)))

	event := s.newEventLocked(enum.CartEventTypeItemRemoved, productID)
	s.mu.Unlock()

	s.publish(ctx, event)
	return event.Cart.Clone()
}

func (s *service) ClearCart(ctx context.Context) models.Cart {
	s.mu.Lock()
	s.cart = cart.ClearCart()
	s.logger.Debug("Cart cleared")

	event := s.newEventLocked(enum.CartEventTypeCleared, 0)
	s.mu.Unlock()

	s.publish(ctx, event)
	return event.Cart.Clone()
}

func (s *service) Cart(_ context.Context) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *service) Summary(_ context.Context) models.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.Summarize(s.cart, s.catalog.Currency())
}

// Snapshot 在同一把鎖下讀取購物車與其總計
func (s *service) Snapshot(_ context.Context) (models.Cart, models.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.cart.Clone()
	return snapshot, cart.Summarize(snapshot, s.catalog.Currency())
}

// Subscribe registers handler for every cart event type. Handlers run one at
// a time and only ever see newer snapshots than the one before; a handler
// may read the session but must not mutate it.
func (s *service) Subscribe(handler EventHandler) {
	for _, eventType := range enum.CartEventTypes {
		s.eventManager.RegisterHandler(eventType, handler)
	}
}

func (s *service) Close() {
	if err := s.eventManager.Close(); err != nil {
		s.logger.Warn("Failed to close event subscription", zap.Error(err))
	}
	s.workerPool.Shutdown()
}

// ProcessEvent 將事件分派給已註冊的 handler。比已送出事件更舊的事件會被丟棄
func (s *service) ProcessEvent(ctx context.Context, event *models.CartEvent) error {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	if event.Sequence <= s.delivered {
		s.logger.Debug("Dropping stale cart event",
			zap.Uint64("sequence", event.Sequence),
			zap.Uint64("delivered", s.delivered))
		return nil
	}
	s.delivered = event.Sequence

	handlers := s.eventManager.GetHandlers(event.Type)
	if len(handlers) == 0 {
		s.logger.Debug("No handler registered for event", zap.String("event_type", string(event.Type)))
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("event %s: %w", event.ID, err)
	}
	return nil
}

// newEventLocked stamps the current snapshot with the next sequence number.
// s.mu must be held.
func (s *service) newEventLocked(eventType enum.CartEventType, productID int64) *models.CartEvent {
	s.sequence++
	snapshot := s.cart.Clone()
	return models.NewCartEvent(s.sessionID, s.sequence, eventType, productID, snapshot, cart.Summarize(snapshot, s.catalog.Currency()))
}

func (s *service) publish(ctx context.Context, event *models.CartEvent) {
	if err := s.eventManager.Publish(context.WithoutCancel(ctx), event, s.workerPool); err != nil {
		s.logger.Error("Failed to publish cart event",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
