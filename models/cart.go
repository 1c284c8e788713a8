package models

import (
	"github.com/stripe/stripe-go/v79"
)

// Cart 代表購物車在某一時間點的快照
type Cart struct {
	Items []CartItem `json:"items"`
}

// CartItem 代表購物車中的單個商品項目，數量至少為 1
type CartItem struct {
	Product
	Quantity int64 `json:"quantity"`
}

// Summary 是購物車的衍生總計
type Summary struct {
	ItemCount  int64           `json:"item_count"`
	TotalPrice int64           `json:"total_price"`
	Currency   stripe.Currency `json:"currency"`
}

func NewCart() Cart {
	return Cart{Items: []CartItem{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Clone returns a snapshot that shares no backing array with c.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

func (ci CartItem) Subtotal() int64 {
	return ci.Price * ci.Quantity
}
