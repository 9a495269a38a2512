package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// OrderUsecase は注文の確定・照会・ステータス変更・キャンセルです。
// 確定時にカート明細を注文明細へスナップショットし、以後は価格変更に追従しない。
type OrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	cartRepo      repo.CartRepository
	cartItemRepo  repo.CartItemRepository
	productRepo   repo.ProductRepository
	userRepo      repo.UserRepository
	auditRepo     repo.AuditLogRepository
	txManager     repo.TransactionManager
	coupons       *CouponUsecase
	notifier      Notifier
	logger        zerolog.Logger
}

// DI
func NewOrderUsecase(
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
	userRepo repo.UserRepository,
	auditRepo repo.AuditLogRepository,
	txManager repo.TransactionManager,
	coupons *CouponUsecase,
	notifier Notifier,
	logger zerolog.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		auditRepo:     auditRepo,
		txManager:     txManager,
		coupons:       coupons,
		notifier:      notifier,
		logger:        logger,
	}
}

const paymentMethodWallet = "WALLET"

type ShippingAddressInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type PlaceOrderInput struct {
	Shipping      ShippingAddressInput `json:"shipping_address"`
	PaymentMethod string               `json:"payment_method"`
	CouponCode    string               `json:"coupon_code"`
}

type OrderItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Price       decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID         int64                 `json:"id"`
	UserID     int64                 `json:"user_id"`
	Status     model.OrderStatus     `json:"status"`
	TotalPrice decimal.Decimal       `json:"total_price"`
	Shipping   model.ShippingAddress `json:"shipping_address"`
	OrderDate  string                `json:"order_date"`
	Items      []OrderItemResponse   `json:"items"`
}

// PlaceOrder はカートの内容から注文を確定する。
// 注文・明細・決済履歴の作成とカートの空更新は1トランザクション。
// 確定メールはベストエフォート（失敗してもロールバックしない）。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderResponse, error) {
	if userID <= 0 {
		return OrderResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Shipping.Address) == "" {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "shipping address required")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	cartItems, err := u.cartItemRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//数量0以下の行は注文に乗せない
	var orderItems []model.OrderItem
	total := decimal.Zero
	for _, it := range cartItems {
		if it.Quantity <= 0 {
			continue
		}

		name := ""
		if p, err := u.productRepo.FindByID(ctx, it.ProductID); err == nil {
			name = p.Name
		}

		lineTotal := it.Price.Mul(decimal.NewFromInt(it.Quantity))
		orderItems = append(orderItems, model.OrderItem{
			ProductID:           it.ProductID,
			ProductNameSnapshot: name,
			Quantity:            it.Quantity,
			UnitPrice:           it.Price,
			Price:               lineTotal,
		})
		total = total.Add(lineTotal)
	}
	if len(orderItems) == 0 {
		return OrderResponse{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	//クーポンは確定前に消し込む（回数上限チェック込み）
	if code := strings.TrimSpace(in.CouponCode); code != "" {
		applied, err := u.coupons.Apply(ctx, ApplyCouponInput{Code: code, CartTotal: total})
		if err != nil {
			return OrderResponse{}, err
		}
		total = applied.FinalTotal
	}

	method := strings.ToUpper(strings.TrimSpace(in.PaymentMethod))
	if method == "" {
		method = "COD"
	}

	order := model.Order{
		UserID:     userID,
		Status:     model.OrderStatusPending,
		TotalPrice: total,
		OrderDate:  time.Now(),
		Shipping: model.ShippingAddress{
			Name:    in.Shipping.Name,
			Email:   in.Shipping.Email,
			Phone:   in.Shipping.Phone,
			Address: in.Shipping.Address,
			City:    in.Shipping.City,
			State:   in.Shipping.State,
			Zip:     in.Shipping.Zip,
			Country: in.Shipping.Country,
		},
	}

	var orderID int64
	err = u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		//ウォレット払いは残高が足りるときだけ確定
		if method == paymentMethodWallet {
			ok, err := r.Wallets().DebitIfEnough(ctx, userID, total)
			if err != nil {
				return err
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "insufficient wallet balance")
			}
		}

		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		orderID = id

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return err
		}

		if _, err := r.Payments().Create(ctx, model.PaymentHistory{
			UserID:        userID,
			PaymentID:     uuid.NewString(),
			PaymentMethod: method,
			Amount:        total,
			Status:        model.PaymentStatusCompleted,
		}); err != nil {
			return err
		}

		//カートを空にして合計も0へ
		if err := r.CartItems().DeleteAllByCartID(ctx, cart.ID); err != nil {
			return err
		}
		return r.Carts().UpdateTotal(ctx, cart.ID, decimal.Zero)
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderResponse{}, err
		}
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//確定メール（失敗はログのみ）
	if user, uerr := u.userRepo.FindByID(ctx, userID); uerr == nil {
		if merr := u.notifier.SendOrderPlaced(ctx, user.Email, user.Name, orderID, total); merr != nil {
			u.logger.Warn().Err(merr).Int64("order_id", orderID).Msg("order placed mail failed")
		}
	}

	return u.buildOrderResponse(ctx, orderID)
}

// GetOrder は注文詳細。他人の注文は存在自体を見せない（404）。
func (u *OrderUsecase) GetOrder(ctx context.Context, userID, orderID int64) (OrderResponse, error) {
	if userID <= 0 {
		return OrderResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderResponse{}, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if order.UserID != userID {
		return OrderResponse{}, NewHTTPError(http.StatusNotFound, "order not found")
	}

	return u.buildOrderResponse(ctx, orderID)
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderResponse, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildOrderResponses(ctx, orders)
}

// 管理者向け全件一覧
func (u *OrderUsecase) ListAllOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := u.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildOrderResponses(ctx, orders)
}

// UpdateStatus は管理者のステータス変更。
// 遷移表に無い変更は拒否。監査ログを残し、通知メールはベストエフォート。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, performedBy string, orderID int64, status string) error {
	to := model.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !to.Valid() {
		return NewHTTPError(http.StatusBadRequest, "invalid order status")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !model.CanTransition(order.Status, to) {
		return NewHTTPError(http.StatusBadRequest, "invalid status transition")
	}

	if err := u.orderRepo.UpdateStatus(ctx, orderID, to); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		PerformedBy: performedBy,
		Action:      "Updated order " + strconv.FormatInt(orderID, 10) + " status to " + string(to),
	}); err != nil {
		u.logger.Warn().Err(err).Int64("order_id", orderID).Msg("audit log write failed")
	}

	if user, uerr := u.userRepo.FindByID(ctx, order.UserID); uerr == nil {
		if merr := u.notifier.SendOrderStatusUpdate(ctx, user.Email, user.Name, orderID, string(to)); merr != nil {
			u.logger.Warn().Err(merr).Int64("order_id", orderID).Msg("status mail failed")
		}
	}

	return nil
}

// CancelOrder は本人による注文取消。配達済みは取消不可。取消は物理削除。
func (u *OrderUsecase) CancelOrder(ctx context.Context, userID, orderID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if order.UserID != userID {
		return NewHTTPError(http.StatusForbidden, "not your order")
	}
	if order.Status == model.OrderStatusDelivered {
		return NewHTTPError(http.StatusBadRequest, "delivered order cannot be cancelled")
	}

	if err := u.orderRepo.Delete(ctx, orderID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *OrderUsecase) buildOrderResponses(ctx context.Context, orders []model.Order) ([]OrderResponse, error) {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp, err := u.toOrderResponse(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (u *OrderUsecase) buildOrderResponse(ctx context.Context, orderID int64) (OrderResponse, error) {
	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.toOrderResponse(ctx, order)
}

func (u *OrderUsecase) toOrderResponse(ctx context.Context, order model.Order) (OrderResponse, error) {
	items, err := u.orderItemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]OrderItemResponse, 0, len(items))
	for _, it := range items {
		respItems = append(respItems, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductNameSnapshot,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Price:       it.Price,
		})
	}

	return OrderResponse{
		ID:         order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
		Shipping:   order.Shipping,
		OrderDate:  order.OrderDate.Format("2006-01-02 15:04:05"),
		Items:      respItems,
	}, nil
}
