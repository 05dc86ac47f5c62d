package model

// StockStatus is the three-way classification of a product's inventory level.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
)

// Valid reports whether s is one of the three known statuses.
func (s StockStatus) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

type Product struct {
	ID       int64  `db:"id" json:"id"`
	SKU      string `db:"sku" json:"sku"`
	Name     string `db:"name" json:"name"`
	Category string `db:"category" json:"category"`
	Stock    int    `db:"stock" json:"stock"`
	MinStock int    `db:"min_stock" json:"minStock"`
	MaxStock int    `db:"max_stock" json:"maxStock"`
	// StockStatus is the stored (server-side) status. Advisory only: the
	// classifier recomputes status from stock/min_stock and consults this
	// field only when the computed level is healthy.
	StockStatus StockStatus `db:"stock_status" json:"stockStatus,omitempty"`
	UnitPrice   float64     `db:"unit_price" json:"unitPrice"`
	Location    string      `db:"location" json:"location"`
	CreatedAt   string      `db:"created_at" json:"createdAt"`
	UpdatedAt   string      `db:"updated_at" json:"updatedAt"`
}

type ProductInput struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Stock     int     `json:"stock"`
	MinStock  int     `json:"minStock"`
	MaxStock  int     `json:"maxStock"`
	UnitPrice float64 `json:"unitPrice"`
	Location  string  `json:"location"`
}

type StockMovement struct {
	ID          int64  `db:"id" json:"id"`
	ProductID   int64  `db:"product_id" json:"productId"`
	Delta       int    `db:"delta" json:"delta"`
	Reason      string `db:"reason" json:"reason"`
	ReferenceNo string `db:"reference_no" json:"referenceNo"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
}
