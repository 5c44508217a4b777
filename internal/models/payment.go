package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment описывает выплату по завершённому заданию.
// Платёж 1:1 с заданием; уникальность job_id в базе защищает от двойной
// выплаты при конкурентных запросах.
type Payment struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	JobID     uuid.UUID       `db:"job_id" json:"job_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Status    string          `db:"status" json:"status"`
	Method    string          `db:"method" json:"method"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Withdrawal описывает заявку на вывод средств фрилансера.
type Withdrawal struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Status    string          `db:"status" json:"status"`
	CardLast4 *string         `db:"card_last4" json:"card_last4,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
