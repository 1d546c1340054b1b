package usecase

import (
	"context"
	"fmt"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	orderRepo repo.OrderRepository
	itemRepo  repo.OrderItemRepository
	auditRepo repo.AuditLogRepository
	log       Logger
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	itemRepo repo.OrderItemRepository,
	auditRepo repo.AuditLogRepository,
	log Logger,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		tx:        tx,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *AdminOrderUsecase) List(ctx context.Context, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if in.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.Status != "" && !model.OrderStatus(in.Status).Valid() {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, repo.AdminOrderListFilter{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: in.Status,
		UserID: in.UserID,
	})
	if err != nil {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		its, err := u.itemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return AdminOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		items = append(items, toOrderOutput(o, its))
	}

	return AdminOrderListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 許可される遷移だけを通す。
//
//	PENDING -> PAID      は決済経由のみ（ここでは不可）
//	PAID    -> SHIPPED   全明細の在庫を引き当てる（足りなければ全部ロールバック）
//	SHIPPED -> DELIVERED
//	PENDING/PAID -> CANCELED
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminID int64, orderID int64, next model.OrderStatus) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !next.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out OrderOutput
	var before model.OrderStatus
	var changed bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before = o.Status

		// 同じステータスへの変更はno-op
		if o.Status == next {
			out = toOrderOutput(o, items)
			return nil
		}

		switch {
		case o.Status == model.OrderStatusPaid && next == model.OrderStatusShipped:
			if err := u.allocateStock(ctx, r, items); err != nil {
				return err
			}
		case o.Status == model.OrderStatusShipped && next == model.OrderStatusDelivered:
		case o.Status.CanCancel() && next == model.OrderStatusCanceled:
		default:
			return NewHTTPError(http.StatusConflict,
				fmt.Sprintf("cannot change status from %s to %s", o.Status, next))
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o.Status = next
		out = toOrderOutput(o, items)
		changed = true
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	if changed {
		u.writeAudit(ctx, adminID, orderID, before, next)
	}

	return out, nil
}

// 出荷時の在庫引き当て。1明細でも在庫不足ならエラーを返してtxごと巻き戻す。
func (u *AdminOrderUsecase) allocateStock(ctx context.Context, r repo.TxRepos, items []model.OrderItem) error {
	for _, it := range items {
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.VariantID, it.Quantity)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !ok {
			v, verr := r.Variants().FindByID(ctx, it.VariantID)
			available := int64(0)
			if verr == nil {
				available = v.Stock
			}
			return NewHTTPError(http.StatusConflict,
				fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
					it.ProductNameSnapshot, it.Quantity, available))
		}
	}
	return nil
}

func (u *AdminOrderUsecase) writeAudit(ctx context.Context, adminID int64, orderID int64, before model.OrderStatus, after model.OrderStatus) {
	err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminID,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   fmt.Sprintf(`{"status":%q}`, before),
		AfterJSON:    fmt.Sprintf(`{"status":%q}`, after),
	})
	if err != nil {
		u.log.Errorf("audit log: %v", err)
	}
}
