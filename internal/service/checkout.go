package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"orderflow/internal/client"
	"orderflow/internal/dto"
	"orderflow/internal/model"
	"orderflow/internal/repository"
)

// CallbackKind is which of the three gateway redirect URLs was hit.
type CallbackKind string

const (
	CallbackSuccess CallbackKind = "success"
	CallbackFail    CallbackKind = "fail"
	CallbackCancel  CallbackKind = "cancel"
)

// ProductCatalog is the read contract onto the catalog subsystem.
type ProductCatalog interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

type CheckoutService interface {
	InitiateCheckout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	// HandleCallback resolves a gateway redirect into a final order state.
	// The success path re-validates the transaction with the gateway; the
	// redirect alone is never trusted.
	HandleCallback(ctx context.Context, ref string, kind CallbackKind, validationID string) (*model.Order, error)
}

type checkoutServiceImpl struct {
	gatewayClient   client.GatewayClient
	gatewayName     string
	serviceBaseURL  string
	validateTimeout time.Duration
	catalog         ProductCatalog
	orderRepo       repository.OrderRepository
	dispatcher      EventDispatcher
	log             *zap.Logger
}

func NewCheckoutService(
	gatewayClient client.GatewayClient,
	gatewayName string,
	serviceBaseURL string,
	validateTimeout time.Duration,
	catalog ProductCatalog,
	orderRepo repository.OrderRepository,
	dispatcher EventDispatcher,
	log *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		gatewayClient:   gatewayClient,
		gatewayName:     gatewayName,
		serviceBaseURL:  serviceBaseURL,
		validateTimeout: validateTimeout,
		catalog:         catalog,
		orderRepo:       orderRepo,
		dispatcher:      dispatcher,
		log:             log,
	}
}

func (s *checkoutServiceImpl) InitiateCheckout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerEmail) == "" ||
		strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, fmt.Errorf("%w: customer name, email and phone", ErrValidation)
	}

	product, err := s.catalog.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:              uuid.NewString(),
		TransactionRef:  newTransactionRef(),
		ProductID:       product.ID,
		ProductName:     product.Name,
		Amount:          product.Price,
		Currency:        product.Currency,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   model.GatewayMethod(s.gatewayName).Label(),
		OrderStatus:     model.OrderPending,
		PaymentStatus:   model.PaymentUnpaid,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	resp, err := s.gatewayClient.CreateSession(ctx, &client.SessionRequest{
		TransactionRef:  order.TransactionRef,
		Amount:          order.Amount,
		Currency:        order.Currency,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		CustomerAddress: order.CustomerAddress,
		ProductName:     order.ProductName,
		SuccessURL:      s.callbackURL("success", order.TransactionRef),
		FailURL:         s.callbackURL("fail", order.TransactionRef),
		CancelURL:       s.callbackURL("cancel", order.TransactionRef),
	})
	if err != nil {
		s.log.Error("gateway session failed",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if resp.RedirectURL == "" {
		return nil, fmt.Errorf("%w: no redirect url in session response", ErrGatewayUnavailable)
	}

	s.log.Info("checkout session created",
		zap.String("order_id", order.ID),
		zap.String("transaction_ref", order.TransactionRef))

	return &dto.CheckoutResponse{URL: resp.RedirectURL}, nil
}

func (s *checkoutServiceImpl) HandleCallback(ctx context.Context, ref string, kind CallbackKind, validationID string) (*model.Order, error) {
	// an unknown reference is a stale or forged callback; never create here
	order, err := s.orderRepo.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	var ev model.PaymentEvent
	switch kind {
	case CallbackSuccess:
		ev = s.validatePayment(ctx, order, validationID)
	case CallbackFail:
		ev = model.EventGatewayFailed
	case CallbackCancel:
		ev = model.EventGatewayCancelled
	default:
		return nil, fmt.Errorf("%w: unknown callback %q", ErrValidation, kind)
	}

	t, ok := model.Resolve(ev)
	if !ok {
		return nil, fmt.Errorf("no transition for event %q", ev)
	}

	gatewayValidationID := ""
	if t.Paid() {
		gatewayValidationID = validationID
	}

	applied, err := s.orderRepo.ApplyTransition(ctx, order.ID, t, gatewayValidationID)
	if err != nil {
		return nil, fmt.Errorf("apply transition: %w", err)
	}
	if !applied {
		// a racing callback won; the persisted state is the answer
		s.log.Warn("callback arrived after order left pending",
			zap.String("order_id", order.ID),
			zap.String("callback", string(kind)))
		return s.orderRepo.FindByID(ctx, order.ID)
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

	s.log.Info("gateway callback resolved",
		zap.String("order_id", order.ID),
		zap.String("callback", string(kind)),
		zap.String("payment_status", string(t.PaymentStatus)))

	return s.orderRepo.FindByID(ctx, order.ID)
}

// validatePayment asks the gateway whether the transaction really completed.
// A missing validation id, a transport failure, a timeout, an unconfirmed
// status or an amount mismatch all resolve to the rejected outcome; the
// order must not stay Pending.
func (s *checkoutServiceImpl) validatePayment(ctx context.Context, order *model.Order, validationID string) model.PaymentEvent {
	if validationID == "" {
		s.log.Warn("success callback without validation id",
			zap.String("order_id", order.ID))
		return model.EventGatewayRejected
	}

	vctx, cancel := context.WithTimeout(ctx, s.validateTimeout)
	defer cancel()

	result, err := s.gatewayClient.ValidateTransaction(vctx, validationID)
	if err != nil {
		s.log.Warn("gateway validation errored",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return model.EventGatewayRejected
	}
	if !result.Confirmed() {
		s.log.Warn("gateway did not confirm payment",
			zap.String("order_id", order.ID),
			zap.String("gateway_status", result.Status))
		return model.EventGatewayRejected
	}
	if !amountMatches(order.Amount, result.Amount) {
		s.log.Warn("validated amount does not match order",
			zap.String("order_id", order.ID),
			zap.String("order_amount", order.Amount),
			zap.String("validated_amount", result.Amount))
		return model.EventGatewayRejected
	}

	return model.EventGatewayValidated
}

func (s *checkoutServiceImpl) callbackURL(kind, ref string) string {
	return fmt.Sprintf("%s/api/payment/%s/%s", s.serviceBaseURL, kind, ref)
}

// amountMatches compares decimal strings; an empty validated amount is
// accepted because not every gateway echoes it back.
func amountMatches(orderAmount, validatedAmount string) bool {
	if validatedAmount == "" {
		return true
	}
	want, err := decimal.NewFromString(orderAmount)
	if err != nil {
		return false
	}
	got, err := decimal.NewFromString(validatedAmount)
	if err != nil {
		return false
	}
	return want.Equal(got)
}

func newTransactionRef() string {
	return "GW-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}
