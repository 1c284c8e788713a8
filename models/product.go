package models

// Product 代表目錄中的商品
type Product struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Price int64  `json:"price" db:"price"`
}
