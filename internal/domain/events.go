package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCompletedEvent struct {
	OrderID       string          `json:"order_id"`
	TableID       *string         `json:"table_id,omitempty"`
	Zone          Zone            `json:"zone"`
	Lines         []OrderLine     `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	WaiterID      string          `json:"waiter_id"`
	WaiterName    string          `json:"waiter_name"`
	CompletedAt   time.Time       `json:"completed_at"`
	TableReleased bool            `json:"table_released"`
}
