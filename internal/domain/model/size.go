package model

// 服サイズか靴サイズか
type SizeType string

const (
	SizeTypeClothing SizeType = "clothing"
	SizeTypeShoe     SizeType = "shoe"
)

// サイズのマスタ。(size_type, value)で一意。
type Size struct {
	ID       int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SizeType SizeType `gorm:"type:varchar(10);not null;uniqueIndex:idx_sizes_type_value" json:"size_type"`
	Value    string   `gorm:"type:varchar(10);not null;uniqueIndex:idx_sizes_type_value" json:"value"`
}
