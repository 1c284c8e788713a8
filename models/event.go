package models

import (
	"time"

	"github.com/google/uuid"

	"goflare.io/minicart/models/enum"
)

// CartEvent 在每次購物車變更後發出
type CartEvent struct {
	ID         uuid.UUID          `json:"id"`
	SessionID  uuid.UUID          `json:"session_id"`
	Sequence   uint64             `json:"sequence"`
	Type       enum.CartEventType `json:"type"`
	ProductID  int64              `json:"product_id,omitempty"`
	Cart       Cart               `json:"cart"`
	Summary    Summary            `json:"summary"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func NewCartEvent(sessionID uuid.UUID, sequence uint64, eventType enum.CartEventType, productID int64, cart Cart, summary Summary) *CartEvent {
	return &CartEvent{
		ID:         uuid.New(),
		SessionID:  sessionID,
		Sequence:   sequence,
		Type:       eventType,
		ProductID:  productID,
		Cart:       cart,
		Summary:    summary,
		OccurredAt: time.Now(),
	}
}
