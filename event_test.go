package shop

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goflare.io/minicart/models"
	"goflare.io/minicart/models/enum"
)

func TestEventManager_Subject(t *testing.T) {
	sessionID := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	em := NewEventManager(nil, sessionID, zap.NewNop())

	assert.Equal(t,
		"minicart.cart.event.7d444840-9dc0-11d1-b245-5ffdce74fad2.cart.item_added",
		em.Subject(enum.CartEventTypeItemAdded))
}

func TestEventManager_HandlersPerType(t *testing.T) {
	em := NewEventManager(nil, uuid.New(), zap.NewNop())
	noop := func(context.Context, *models.CartEvent) error { return nil }

	em.RegisterHandler(enum.CartEventTypeItemAdded, noop)
	em.RegisterHandler(enum.CartEventTypeItemAdded, noop)
	em.RegisterHandler(enum.CartEventTypeCleared, noop)

	assert.Len(t, em.GetHandlers(enum.CartEventTypeItemAdded), 2)
	assert.Len(t, em.GetHandlers(enum.CartEventTypeCleared), 1)
	assert.Empty(t, em.GetHandlers(enum.CartEventTypeItemRemoved))
}

func TestEventManager_PublishWithoutNATSUsesPool(t *testing.T) {
	em := NewEventManager(nil, uuid.New(), zap.NewNop())
	processor := &countingProcessor{}
	wp := NewWorkerPool(1, processor, zap.NewNop())

	require.NoError(t, em.SubscribeToEvents(wp))
	require.NoError(t, em.Publish(context.Background(), &models.CartEvent{Type: enum.CartEventTypeItemAdded, ProductID: 7}, wp))
	require.NoError(t, em.Close())
	wp.Shutdown()

	assert.Equal(t, []int64{7}, processor.order)
}
