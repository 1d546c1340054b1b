package model

// バリアントに紐づく画像
type ProductImage struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID int64  `gorm:"not null;index" json:"variant_id"`
	URL       string `gorm:"type:varchar(500);not null" json:"url"`
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`
}
