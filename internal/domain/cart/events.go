package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventItemAdded         = "ItemAddedToCart"
	EventItemRemoved       = "ItemRemovedFromCart"
	EventQuantityIncreased = "CartQuantityIncreased"
	EventQuantityDecreased = "CartQuantityDecreased"
	EventCartCleared       = "CartCleared"
)

type ItemAddedToCart struct {
	CartID      string          `json:"cart_id"`
	Username    string          `json:"username"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	AddedAt     time.Time       `json:"added_at"`
}

type ItemRemovedFromCart struct {
	CartID      string    `json:"cart_id"`
	Username    string    `json:"username"`
	ProductCode string    `json:"product_code"`
	RemovedAt   time.Time `json:"removed_at"`
}

// QuantityChanged covers both increment and decrement; Quantity is the new
// quantity, 0 when a decrement removed the line.
type QuantityChanged struct {
	CartID      string    `json:"cart_id"`
	Username    string    `json:"username"`
	ProductCode string    `json:"product_code"`
	Quantity    int       `json:"quantity"`
	ChangedAt   time.Time `json:"changed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	Username  string    `json:"username"`
	ClearedAt time.Time `json:"cleared_at"`
}
