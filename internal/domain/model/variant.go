package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// 商品のカラー×サイズの組み合わせ。在庫はここが持つ。
type ProductVariant struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID     int64            `gorm:"not null;index" json:"product_id"`
	SKU           string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	ColorID       *int64           `gorm:"index" json:"color_id"`
	SizeID        *int64           `gorm:"index" json:"size_id"`
	Stock         int64            `gorm:"not null;default:0" json:"stock"`
	PriceOverride *decimal.Decimal `gorm:"type:numeric(10,2)" json:"price_override"`
}

// 特別価格があればそれ、無ければ商品のベース価格。
func (v ProductVariant) EffectivePrice(basePrice decimal.Decimal) decimal.Decimal {
	if v.PriceOverride != nil {
		return *v.PriceOverride
	}
	return basePrice
}

const skuMaxLen = 45

// 商品ID＋カラー名＋サイズ値からSKUを決定的に作る。
// 大文字45文字以内。color/sizeが無い場合はNOCOLOR/NOSIZE。
func GenerateSKU(productID int64, colorName string, sizeValue string) string {
	if colorName == "" {
		colorName = "NOCOLOR"
	}
	if sizeValue == "" {
		sizeValue = "NOSIZE"
	}
	base := slugify(fmt.Sprintf("%d-%s-%s", productID, colorName, sizeValue))
	sku := strings.ToUpper(base)
	if len(sku) > skuMaxLen {
		sku = sku[:skuMaxLen]
	}
	return sku
}

// 英数字以外はハイフンに潰す
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
