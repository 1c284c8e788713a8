// Package cart holds the cart state machine. Every operation takes a snapshot
// and returns a new one; the input is never modified.
package cart

import (
	"github.com/stripe/stripe-go/v79"

	"goflare.io/minicart/models"
)

// AddToCart 將商品加入購物車。已存在的商品數量加 1 並保留位置，否則附加到末尾。
func AddToCart(c models.Cart, product models.Product) models.Cart {
	next := c.Clone()
	if i := indexOf(next, product.ID); i >= 0 {
		next.Items[i].Quantity++
		return next
	}
	next.Items = append(next.Items, models.CartItem{Product: product, Quantity: 1})
	return next
}

// RemoveFromCart 將商品數量減 1。數量為 1 時移除該項目；不存在的 id 不做任何變更。
func RemoveFromCart(c models.Cart, productID int64) models.Cart {
	i := indexOf(c, productID)
	if i < 0 {
		return c.Clone()
	}

	if c.Items[i].Quantity == 1 {
		items := make([]models.CartItem, 0, len(c.Items)-1)
		items = append(items, c.Items[:i]...)
		items = append(items, c.Items[i+1:]...)
		return models.Cart{Items: items}
	}

	next := c.Clone()
	next.Items[i].Quantity--
	return next
}

// ClearCart 清空購物車
func ClearCart() models.Cart {
	return models.NewCart()
}

func TotalItemCount(c models.Cart) int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func TotalPrice(c models.Cart) int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Summarize 計算購物車的總數量與總價
func Summarize(c models.Cart, currency stripe.Currency) models.Summary {
	return models.Summary{
		ItemCount:  TotalItemCount(c),
		TotalPrice: TotalPrice(c),
		Currency:   currency,
	}
}

func Contains(c models.Cart, productID int64) bool {
	return indexOf(c, productID) >= 0
}

// Quantity returns 0 when the product is not in the cart.
func Quantity(c models.Cart, productID int64) int64 {
	if i := indexOf(c, productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

func indexOf(c models.Cart, productID int64) int {
	for i, item := range c.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}
