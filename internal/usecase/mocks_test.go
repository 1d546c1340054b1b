package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
	variants   repo.VariantRepository
	inventory  repo.InventoryRepository
	payments   repo.PaymentRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *TxReposMock) Variants() repo.VariantRepository     { return r.variants }
func (r *TxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *TxReposMock) Payments() repo.PaymentRepository     { return r.payments }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) AttachPayment(ctx context.Context, orderID int64, paymentID int64) error {
	args := m.Called(ctx, orderID, paymentID)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) ListColors(ctx context.Context) ([]model.Color, error) {
	args := m.Called(ctx)
	colors, _ := args.Get(0).([]model.Color)
	return colors, args.Error(1)
}

func (m *ProductRepoMock) ListSizes(ctx context.Context) ([]model.Size, error) {
	args := m.Called(ctx)
	sizes, _ := args.Get(0).([]model.Size)
	return sizes, args.Error(1)
}

func (m *ProductRepoMock) CreateColor(ctx context.Context, c model.Color) (model.Color, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Color)
	return out, args.Error(1)
}

func (m *ProductRepoMock) CreateSize(ctx context.Context, s model.Size) (model.Size, error) {
	args := m.Called(ctx, s)
	out, _ := args.Get(0).(model.Size)
	return out, args.Error(1)
}

type VariantRepoMock struct{ mock.Mock }

func (m *VariantRepoMock) FindByID(ctx context.Context, id int64) (model.ProductVariant, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(model.ProductVariant)
	return v, args.Error(1)
}

func (m *VariantRepoMock) ListByProductID(ctx context.Context, productID int64) ([]model.ProductVariant, error) {
	args := m.Called(ctx, productID)
	vs, _ := args.Get(0).([]model.ProductVariant)
	return vs, args.Error(1)
}

func (m *VariantRepoMock) FirstByProductID(ctx context.Context, productID int64) (model.ProductVariant, error) {
	args := m.Called(ctx, productID)
	v, _ := args.Get(0).(model.ProductVariant)
	return v, args.Error(1)
}

func (m *VariantRepoMock) Create(ctx context.Context, v model.ProductVariant) (model.ProductVariant, error) {
	args := m.Called(ctx, v)
	out, _ := args.Get(0).(model.ProductVariant)
	return out, args.Error(1)
}

func (m *VariantRepoMock) Update(ctx context.Context, v model.ProductVariant) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VariantRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *VariantRepoMock) FindColor(ctx context.Context, id int64) (model.Color, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Color)
	return c, args.Error(1)
}

func (m *VariantRepoMock) FindSize(ctx context.Context, id int64) (model.Size, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Size)
	return s, args.Error(1)
}

func (m *VariantRepoMock) ListStock(ctx context.Context) ([]repo.StockRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]repo.StockRow)
	return rows, args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, variantID int64, qty int64) (bool, error) {
	args := m.Called(ctx, variantID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, variantID int64, qty int64) error {
	args := m.Called(ctx, variantID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) SetStock(ctx context.Context, variantID int64, newStock int64) error {
	args := m.Called(ctx, variantID, newStock)
	return args.Error(0)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) FindByID(ctx context.Context, id int64) (model.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) Create(ctx context.Context, p *model.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProfileRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) AddWish(ctx context.Context, profileID int64, productID int64) error {
	args := m.Called(ctx, profileID, productID)
	return args.Error(0)
}

func (m *ProfileRepoMock) RemoveWish(ctx context.Context, profileID int64, productID int64) error {
	args := m.Called(ctx, profileID, productID)
	return args.Error(0)
}

func (m *ProfileRepoMock) ListWishes(ctx context.Context, profileID int64) ([]model.Product, error) {
	args := m.Called(ctx, profileID)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *UserRepoMock) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

// =====================
// CartStore mock
// =====================

type CartStoreMock struct{ mock.Mock }

func (m *CartStoreMock) Get(ctx context.Context, token string) (model.Cart, error) {
	args := m.Called(ctx, token)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartStoreMock) Save(ctx context.Context, token string, cart model.Cart) error {
	args := m.Called(ctx, token, cart)
	return args.Error(0)
}

func (m *CartStoreMock) Clear(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// =====================
// Converter / Provider / Mailer / Logger mocks
// =====================

// レート固定の変換器
type ConverterStub struct {
	BaseCode string
	RateVal  decimal.Decimal
}

func (s *ConverterStub) Base() string { return s.BaseCode }

func (s *ConverterStub) Resolve(code string) string {
	if code == "" {
		return s.BaseCode
	}
	return code
}

func (s *ConverterStub) Rate(ctx context.Context, target string) decimal.Decimal {
	if target == s.BaseCode {
		return decimal.NewFromInt(1)
	}
	return s.RateVal
}

func (s *ConverterStub) Convert(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) Charge(ctx context.Context, orderID int64, amount decimal.Decimal) (model.Payment, error) {
	args := m.Called(ctx, orderID, amount)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

type MailerMock struct{ mock.Mock }

func (m *MailerMock) Send(to string, subject string, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

type NopLogger struct{}

func (NopLogger) Errorf(format string, args ...interface{}) {}

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
