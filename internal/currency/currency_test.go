package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// テスト用のインメモリキャッシュ
type mapRateCache struct {
	rates map[string]decimal.Decimal
}

func newMapRateCache() *mapRateCache {
	return &mapRateCache{rates: map[string]decimal.Decimal{}}
}

func (m *mapRateCache) GetRate(ctx context.Context, base, target string) (decimal.Decimal, bool) {
	r, ok := m.rates[base+":"+target]
	return r, ok
}

func (m *mapRateCache) SetRate(ctx context.Context, base, target string, rate decimal.Decimal, ttl time.Duration) {
	m.rates[base+":"+target] = rate
}

type nopLogger struct{}

func (nopLogger) Errorf(format string, args ...interface{}) {}

func TestResolve_Allowlist(t *testing.T) {
	c := NewConverter("USD", "key", newMapRateCache(), nopLogger{})

	assert.Equal(t, "COP", c.Resolve("COP"))
	assert.Equal(t, "EUR", c.Resolve("EUR"))

	// 許可外・空はベース通貨に落ちる
	assert.Equal(t, "USD", c.Resolve("JPY"))
	assert.Equal(t, "USD", c.Resolve(""))
}

func TestNewConverter_InvalidBaseFallsBackToUSD(t *testing.T) {
	c := NewConverter("XXX", "key", newMapRateCache(), nopLogger{})
	assert.Equal(t, "USD", c.Base())
}

func TestRate_SameCurrency_IsOne(t *testing.T) {
	c := NewConverter("USD", "key", newMapRateCache(), nopLogger{})

	rate := c.Rate(context.Background(), "USD")
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRate_FetchesAndCaches(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"conversion_rate": 4000.5}`))
	}))
	defer srv.Close()

	c := NewConverter("USD", "key", newMapRateCache(), nopLogger{})
	c.baseURL = srv.URL

	rate := c.Rate(context.Background(), "COP")
	assert.Equal(t, "4000.5", rate.String())

	// 2回目はキャッシュから
	rate = c.Rate(context.Background(), "COP")
	assert.Equal(t, "4000.5", rate.String())
	assert.Equal(t, 1, calls)
}

// 取得失敗はレート1にフォールバック（表示はベース通貨の額のまま）
func TestRate_FetchFailure_FallsBackToOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewConverter("USD", "key", newMapRateCache(), nopLogger{})
	c.baseURL = srv.URL

	rate := c.Rate(context.Background(), "EUR")
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestConvert_RoundsToTwoDecimals(t *testing.T) {
	c := NewConverter("USD", "key", newMapRateCache(), nopLogger{})

	// 19.99 × 4000.5 = 79969.995 → 79970.00
	out := c.Convert(decimal.RequireFromString("19.99"), decimal.RequireFromString("4000.5"))
	assert.Equal(t, "79970.00", out.StringFixed(2))
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "€", Symbol("EUR"))
	assert.Equal(t, "$", Symbol("USD"))
	assert.Equal(t, "$", Symbol("COP"))
}
