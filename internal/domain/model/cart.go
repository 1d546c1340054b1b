package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// セッションカートの1行。価格は追加時点のスナップショット。
type CartLine struct {
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// セッショントークンごとのカート。DBには保存しない。
// キーは素の商品ID（バリアント未選択）か "variant-{id}"。
// 不変条件: どのキーも quantity > 0。
type Cart map[string]CartLine

const variantKeyPrefix = "variant-"

// カートのキーを作る。variantIDがあればバリアントキー。
func CartKey(productID int64, variantID *int64) string {
	if variantID != nil {
		return fmt.Sprintf("%s%d", variantKeyPrefix, *variantID)
	}
	return strconv.FormatInt(productID, 10)
}

// キーを分解する。バリアントキーなら variantID を返す。
func ParseCartKey(key string) (productID int64, variantID *int64, err error) {
	if strings.HasPrefix(key, variantKeyPrefix) {
		id, perr := strconv.ParseInt(strings.TrimPrefix(key, variantKeyPrefix), 10, 64)
		if perr != nil {
			return 0, nil, perr
		}
		return 0, &id, nil
	}
	id, perr := strconv.ParseInt(key, 10, 64)
	if perr != nil {
		return 0, nil, perr
	}
	return id, nil, nil
}

// 追加。既存キーは数量加算で、価格は最初の追加時点のまま。
func (c Cart) Add(key string, quantity int64, price decimal.Decimal) {
	if quantity < 1 {
		return
	}
	if line, ok := c[key]; ok {
		line.Quantity += quantity
		c[key] = line
		return
	}
	c[key] = CartLine{Quantity: quantity, Price: price}
}

// 削除。要求数量が保持数量以上ならキーごと消す。
func (c Cart) Remove(key string, quantity int64) {
	line, ok := c[key]
	if !ok {
		return
	}
	if quantity >= line.Quantity {
		delete(c, key)
		return
	}
	line.Quantity -= quantity
	c[key] = line
}

// 合計 = Σ(数量×価格)。表示通貨に関係なくベース通貨で計算する。
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(line.Quantity)))
	}
	return total
}
