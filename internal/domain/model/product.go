package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderUnisex Gender = "U"
)

// 商品本体。価格はベース通貨で保存する。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Gender      Gender          `gorm:"type:varchar(1);not null" json:"gender"`
	Description string          `gorm:"type:text" json:"description"`
	Materials   string          `gorm:"type:varchar(255)" json:"materials"`
	CareGuide   string          `gorm:"type:text" json:"care_guide"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"base_price"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
