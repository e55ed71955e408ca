package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Order is one imported order record.
//
// OrderNumber is unique across every row, deleted or not; the database
// constraint is the final guard against concurrent imports of the same
// number. DeletedTime is reserved for a future soft-delete flow and is
// never written by the import pipeline. It deliberately does not carry
// bun's soft_delete tag: the automatic deleted-row filter would narrow
// the duplicate check to active rows.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID          int64           `bun:",pk,autoincrement"`
	OrderNumber string          `bun:"order_number"`
	TotalPrice  decimal.Decimal `bun:"total_price"`
	CreatedTime time.Time       `bun:"created_time,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedTime time.Time       `bun:"updated_time,nullzero"`
	DeletedTime *time.Time      `bun:"deleted_time,nullzero"`
}
