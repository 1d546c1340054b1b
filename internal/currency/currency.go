package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// 表示に使える通貨。それ以外はベース通貨に落とす。
var allowed = map[string]bool{
	"USD": true,
	"COP": true,
	"EUR": true,
}

const rateTTL = 24 * time.Hour

// 取得済みレートの置き場所
type RateCache interface {
	GetRate(ctx context.Context, base, target string) (decimal.Decimal, bool)
	SetRate(ctx context.Context, base, target string, rate decimal.Decimal, ttl time.Duration)
}

type Logger interface {
	Errorf(format string, args ...interface{})
}

// 表示通貨のオーバーレイ。保存される金額は常にベース通貨で、
// 換算は表示のときだけ。レート取得に失敗したら1で表示する。
type Converter struct {
	base    string
	apiKey  string
	baseURL string
	client  *http.Client
	cache   RateCache
	log     Logger
}

func NewConverter(base string, apiKey string, cache RateCache, log Logger) *Converter {
	if !allowed[base] {
		base = "USD"
	}
	return &Converter{
		base:    base,
		apiKey:  apiKey,
		baseURL: "https://v6.exchangerate-api.com/v6",
		client:  &http.Client{Timeout: 5 * time.Second},
		cache:   cache,
		log:     log,
	}
}

func (c *Converter) Base() string {
	return c.base
}

// リクエストの通貨指定を許可リストで検証する。不正ならベース通貨。
func (c *Converter) Resolve(code string) string {
	if allowed[code] {
		return code
	}
	return c.base
}

// ベース通貨→target のレート。キャッシュ24時間。
// 失敗したらレート1（＝ベース通貨の金額をそのまま表示）。
func (c *Converter) Rate(ctx context.Context, target string) decimal.Decimal {
	target = c.Resolve(target)
	if target == c.base {
		return decimal.NewFromInt(1)
	}

	if rate, ok := c.cache.GetRate(ctx, c.base, target); ok {
		return rate
	}

	rate, err := c.fetch(ctx, target)
	if err != nil {
		c.log.Errorf("exchange rate fetch failed (%s->%s): %v", c.base, target, err)
		return decimal.NewFromInt(1)
	}

	c.cache.SetRate(ctx, c.base, target, rate, rateTTL)
	return rate
}

// 表示用の換算。小数2桁に丸める。
func (c *Converter) Convert(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

type pairResponse struct {
	ConversionRate float64 `json:"conversion_rate"`
}

func (c *Converter) fetch(ctx context.Context, target string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s/pair/%s/%s", c.baseURL, c.apiKey, c.base, target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("rate api status %d", resp.StatusCode)
	}

	var body pairResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Decimal{}, err
	}
	if body.ConversionRate <= 0 {
		return decimal.Decimal{}, fmt.Errorf("rate api returned %v", body.ConversionRate)
	}

	return decimal.NewFromFloat(body.ConversionRate), nil
}

// 通貨記号（表示用）
func Symbol(code string) string {
	if code == "EUR" {
		return "€"
	}
	return "$"
}
