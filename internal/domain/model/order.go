package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// 取りうるステータスか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// キャンセルできるのはPENDINGかPAIDのときだけ
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusPaid
}

// 注文。totalは作成時点の明細合計で、後から再計算しない。
type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64           `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Total           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	ShippingAddress string          `gorm:"type:varchar(255)" json:"shipping_address"`
	PaymentID       *int64          `gorm:"uniqueIndex" json:"payment_id"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
