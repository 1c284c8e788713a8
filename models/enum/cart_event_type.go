package enum

// CartEventType 表示購物車變更事件的類型
type CartEventType string

const (
	CartEventTypeItemAdded   CartEventType = "cart.item_added"
	CartEventTypeItemRemoved CartEventType = "cart.item_removed"
	CartEventTypeCleared     CartEventType = "cart.cleared"
)

// CartEventTypes lists every event type a session can emit.
var CartEventTypes = []CartEventType{
	CartEventTypeItemAdded,
	CartEventTypeItemRemoved,
	CartEventTypeCleared,
}
