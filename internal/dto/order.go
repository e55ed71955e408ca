package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportOrderRequest is the raw JSON body of POST /api/import-order/.
// The price travels as a decimal string on the wire.
type ImportOrderRequest struct {
	OrderNumber string `json:"order_number"`
	TotalPrice  string `json:"total_price"`
}

// ImportOrder is the validated, normalized form of an import request.
type ImportOrder struct {
	OrderNumber string
	TotalPrice  decimal.Decimal
}

// OrderResponse represents an order as exposed via transport layers.
// DeletedTime renders as null while the order is active; it has no
// omitempty on purpose.
type OrderResponse struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"order_number"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedTime time.Time       `json:"created_time"`
	UpdatedTime time.Time       `json:"updated_time"`
	DeletedTime *time.Time      `json:"deleted_time"`
}
