package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPaid PaymentStatus = "PAID"
)

// 決済レコード。注文につき1回だけ作られ、以後書き換えない。
type Payment struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
