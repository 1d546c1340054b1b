package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。purchase_priceは購入時点の価格スナップショットで、
// バリアントの現在価格とは切り離す。
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	VariantID           int64           `gorm:"not null;index" json:"variant_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	PurchasePrice       decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"purchase_price"`
	Quantity            int64           `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
