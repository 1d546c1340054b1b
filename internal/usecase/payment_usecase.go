package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 決済ゲートウェイの抽象。実運用ではここを本物のプロバイダに差し替える。
type PaymentProvider interface {
	Charge(ctx context.Context, orderID int64, amount decimal.Decimal) (model.Payment, error)
}

type EmailSender interface {
	Send(to string, subject string, body string) error
}

type Logger interface {
	Errorf(format string, args ...interface{})
}

type IDGenerator interface {
	NewID() string
}

// SimulatedPaymentProvider は常に成功する決済のシミュレータ。
// トランザクションIDはUUID先頭12文字の大文字。
type SimulatedPaymentProvider struct {
	idGen IDGenerator
}

func NewSimulatedPaymentProvider(idGen IDGenerator) *SimulatedPaymentProvider {
	return &SimulatedPaymentProvider{idGen: idGen}
}

func (p *SimulatedPaymentProvider) Charge(ctx context.Context, orderID int64, amount decimal.Decimal) (model.Payment, error) {
	id := strings.ToUpper(strings.ReplaceAll(p.idGen.NewID(), "-", ""))
	if len(id) > 12 {
		id = id[:12]
	}
	return model.Payment{
		TransactionID: id,
		Amount:        amount,
		Status:        model.PaymentStatusPaid,
	}, nil
}

type PaymentUsecase struct {
	tx       repo.TransactionManager
	userRepo repo.UserRepository
	provider PaymentProvider
	mailer   EmailSender
	log      Logger
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	provider PaymentProvider,
	mailer EmailSender,
	log Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:       tx,
		userRepo: userRepo,
		provider: provider,
		mailer:   mailer,
		log:      log,
	}
}

// PayOrder はPENDINGの注文を決済してPAIDにする。
// すでに決済済み（PaymentIDあり）またはPENDING以外ならno-opで現状を返す。
// 確認メールはベストエフォートで、失敗してもエラーにしない。
func (u *PaymentUsecase) PayOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	var charged bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 二重決済の防止。no-opで現在の注文を返す
		if o.Status != model.OrderStatusPending || o.PaymentID != nil {
			out = toOrderOutput(o, items)
			return nil
		}

		payment, err := u.provider.Charge(ctx, orderID, o.Total)
		if err != nil {
			return NewHTTPError(http.StatusBadGateway, "payment failed")
		}

		paymentID, err := r.Payments().Create(ctx, payment)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().AttachPayment(ctx, orderID, paymentID); err != nil {
			if err == repo.ErrNotFound {
				// 競合で先に決済された
				return NewHTTPError(http.StatusConflict, "order already paid")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusPaid); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = model.OrderStatusPaid
		o.PaymentID = &paymentID
		out = toOrderOutput(o, items)
		charged = true
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	if charged {
		u.sendConfirmation(ctx, userID, out)
	}

	return out, nil
}

func (u *PaymentUsecase) sendConfirmation(ctx context.Context, userID int64, o OrderOutput) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		u.log.Errorf("payment confirmation mail: user lookup failed: %v", err)
		return
	}

	subject := fmt.Sprintf("Order #%d confirmed", o.ID)
	body := fmt.Sprintf("Your payment of %s for order #%d was received. Thank you!", o.Total.StringFixed(2), o.ID)
	if err := u.mailer.Send(user.Email, subject, body); err != nil {
		u.log.Errorf("payment confirmation mail: send failed: %v", err)
	}
}
