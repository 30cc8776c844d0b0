package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orderflow/internal/dto"
	"orderflow/internal/model"
	"orderflow/internal/repository"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type ManualPaymentService interface {
	// Submit records self-reported proof of payment; nothing is marked paid
	// until an admin reviews it.
	Submit(ctx context.Context, req *dto.ManualPaymentRequest) (*dto.ManualPaymentResponse, error)
	List(ctx context.Context, status string) ([]model.Order, error)
	// Decide approves or rejects a pending manual order. It is single-shot:
	// once the order leaves Pending, further decisions conflict, so a double
	// approve cannot re-fire the new_order event.
	Decide(ctx context.Context, orderID, action string) (*model.Order, error)
}

type manualPaymentServiceImpl struct {
	orderRepo  repository.OrderRepository
	catalog    ProductCatalog
	dispatcher EventDispatcher
	log        *zap.Logger
}

func NewManualPaymentService(
	orderRepo repository.OrderRepository,
	catalog ProductCatalog,
	dispatcher EventDispatcher,
	log *zap.Logger,
) ManualPaymentService {
	return &manualPaymentServiceImpl{
		orderRepo:  orderRepo,
		catalog:    catalog,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (s *manualPaymentServiceImpl) Submit(ctx context.Context, req *dto.ManualPaymentRequest) (*dto.ManualPaymentResponse, error) {
	provider, ok := model.ParseMFSProvider(req.MFSProvider)
	if !ok {
		return nil, fmt.Errorf("%w: mfs_provider must be one of bkash, nagad, rocket", ErrValidation)
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		return nil, fmt.Errorf("%w: transaction_id", ErrValidation)
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, fmt.Errorf("%w: customer_phone", ErrValidation)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be a positive decimal", ErrValidation)
	}

	currency := req.Currency
	if currency == "" {
		currency = "BDT"
	}

	productName := ""
	if req.ProductID != "" {
		product, err := s.catalog.FindByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		productName = product.Name
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		TransactionRef:  strings.TrimSpace(req.TransactionID),
		ProductID:       req.ProductID,
		ProductName:     productName,
		Amount:          amount.String(),
		Currency:        currency,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   model.ManualMethod(provider).Label(),
		MFSProvider:     string(provider),
		OrderStatus:     model.OrderPending,
		PaymentStatus:   model.PaymentUnpaid,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("manual payment submitted",
		zap.String("order_id", order.ID),
		zap.String("provider", string(provider)))

	return &dto.ManualPaymentResponse{OrderID: order.ID}, nil
}

func (s *manualPaymentServiceImpl) List(ctx context.Context, status string) ([]model.Order, error) {
	filter := repository.OrderFilter{ManualOnly: true}
	if status != "" {
		switch st := model.OrderStatus(status); st {
		case model.OrderPending, model.OrderProcessing, model.OrderFailed, model.OrderCancelled:
			filter.OrderStatus = st
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
	}

	return s.orderRepo.List(ctx, filter)
}

func (s *manualPaymentServiceImpl) Decide(ctx context.Context, orderID, action string) (*model.Order, error) {
	var ev model.PaymentEvent
	switch action {
	case DecisionApprove:
		ev = model.EventManualApproved
	case DecisionReject:
		ev = model.EventManualRejected
	default:
		return nil, fmt.Errorf("%w: action must be approve or reject", ErrValidation)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	t, _ := model.Resolve(ev)
	applied, err := s.orderRepo.ApplyTransition(ctx, order.ID, t, "")
	if err != nil {
		return nil, fmt.Errorf("apply transition: %w", err)
	}
	if !applied {
		return nil, ErrOrderNotPending
	}

	if t.Paid() {
		s.dispatcher.DispatchAsync(EventNewOrder, &NewOrderEvent{
			OrderID:        order.ID,
			TransactionRef: order.TransactionRef,
			Amount:         order.Amount,
			CustomerEmail:  order.CustomerEmail,
			ProductName:    order.ProductName,
		})
	}

	s.log.Info("manual order decided",
		zap.String("order_id", order.ID),
		zap.String("action", action))

	return s.orderRepo.FindByID(ctx, order.ID)
}
