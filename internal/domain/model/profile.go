package model

import "time"

// ユーザープロフィール。会員登録のワークフローで明示的に作る
// （シグナル等の暗黙フックでは作らない）。
type Profile struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	ShippingAddress string    `gorm:"type:varchar(255)" json:"shipping_address"`
	Phone           string    `gorm:"type:varchar(30)" json:"phone"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ウィッシュリストの1行
type WishItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProfileID int64     `gorm:"not null;uniqueIndex:idx_wish_profile_product" json:"profile_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_wish_profile_product" json:"product_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
