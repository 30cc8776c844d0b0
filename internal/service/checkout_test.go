package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"orderflow/internal/client"
	"orderflow/internal/dto"
	"orderflow/internal/model"
	"orderflow/internal/repository"
)

type mockGateway struct {
	sessionResp   *client.SessionResponse
	sessionErr    error
	validation    *client.ValidationResult
	validationErr error

	validateCalls int
}

func (m *mockGateway) CreateSession(ctx context.Context, req *client.SessionRequest) (*client.SessionResponse, error) {
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	return m.sessionResp, nil
}

func (m *mockGateway) ValidateTransaction(ctx context.Context, validationID string) (*client.ValidationResult, error) {
	m.validateCalls++
	if m.validationErr != nil {
		return nil, m.validationErr
	}
	return m.validation, nil
}

type checkoutFixture struct {
	svc        CheckoutService
	gateway    *mockGateway
	orderRepo  repository.OrderRepository
	dispatcher *recordingDispatcher
}

func newCheckoutFixture(t *testing.T, gateway *mockGateway) *checkoutFixture {
	t.Helper()

	db := newTestDB(t)
	seedProduct(t, db)

	orderRepo := repository.NewOrderRepository(db)
	dispatcher := &recordingDispatcher{}

	svc := NewCheckoutService(
		gateway, "sslcommerz", "http://localhost:8080", time.Second,
		repository.NewProductRepository(db),
		orderRepo,
		dispatcher,
		zaptest.NewLogger(t),
	)

	return &checkoutFixture{svc: svc, gateway: gateway, orderRepo: orderRepo, dispatcher: dispatcher}
}

func seedProduct(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&model.Product{
		ID: "p1", Name: "Annual License", Price: "1200.00", Currency: "BDT",
	}).Error)
}

func checkoutRequest() *dto.CheckoutRequest {
	return &dto.CheckoutRequest{
		ProductID:     "p1",
		CustomerName:  "Rahim Uddin",
		CustomerEmail: "rahim@example.com",
		CustomerPhone: "+8801712345678",
	}
}

func (f *checkoutFixture) initiate(t *testing.T) *model.Order {
	t.Helper()

	_, err := f.svc.InitiateCheckout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	orders, err := f.orderRepo.List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	return &orders[0]
}

func TestInitiateCheckout(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionResp: &client.SessionResponse{SessionKey: "sk", RedirectURL: "https://gateway.example.com/pay/sk"},
	})

	resp, err := f.svc.InitiateCheckout(context.Background(), checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example.com/pay/sk", resp.URL)

	orders, err := f.orderRepo.List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.OrderPending, orders[0].OrderStatus)
	assert.Equal(t, model.PaymentUnpaid, orders[0].PaymentStatus)
	assert.Equal(t, "sslcommerz", orders[0].PaymentMethod)
	assert.Equal(t, "1200.00", orders[0].Amount)
	assert.Empty(t, orders[0].GatewayValidationID)
}

func TestInitiateCheckoutUnknownProduct(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{})

	req := checkoutRequest()
	req.ProductID = "missing"
	_, err := f.svc.InitiateCheckout(context.Background(), req)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestInitiateCheckoutMissingCustomerFields(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{})

	req := checkoutRequest()
	req.CustomerEmail = ""
	_, err := f.svc.InitiateCheckout(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInitiateCheckoutGatewayDown(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionErr: context.DeadlineExceeded,
	})

	_, err := f.svc.InitiateCheckout(context.Background(), checkoutRequest())
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	// the Pending row is the only permitted side effect
	orders, err := f.orderRepo.List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, model.PaymentUnpaid, orders[0].PaymentStatus)
}

func TestInitiateCheckoutNoRedirectURL(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionResp: &client.SessionResponse{SessionKey: "sk"},
	})

	_, err := f.svc.InitiateCheckout(context.Background(), checkoutRequest())
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestSuccessCallbackValidated(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionResp: &client.SessionResponse{SessionKey: "sk", RedirectURL: "https://gateway.example.com/pay/sk"},
		validation:  &client.ValidationResult{Status: "VALID", Amount: "1200.00"},
	})
	order := f.initiate(t)

	got, err := f.svc.HandleCallback(context.Background(), order.TransactionRef, CallbackSuccess, "VAL-9")
	require.NoError(t, err)

	assert.Equal(t, model.OrderProcessing, got.OrderStatus)
	assert.Equal(t, model.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, "VAL-9", got.GatewayValidationID)
	assert.Equal(t, 1, f.dispatcher.count(EventNewOrder))

	event := f.dispatcher.payloads[0].(*NewOrderEvent)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, order.TransactionRef, event.TransactionRef)
	assert.Equal(t, "rahim@example.com", event.CustomerEmail)
}

func TestSuccessCallbackValidationRejected(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionResp: &client.SessionResponse{SessionKey: "sk", RedirectURL: "https://gateway.example.com/pay/sk"},
		validation:  &client.ValidationResult{Status: "INVALID"},
	})
	order := f.initiate(t)

	got, err := f.svc.HandleCallback(context.Background(), order.TransactionRef, CallbackSuccess, "VAL-9")
	require.NoError(t, err)

	// routed to the success URL, but the gateway did not confirm payment
	assert.Equal(t, model.PaymentFailed, got.PaymentStatus)
	assert.Empty(t, got.GatewayValidationID)
	assert.Equal(t, 0, f.dispatcher.count(EventNewOrder))
	assert.Equal(t, 1, f.gateway.validateCalls)
}

func TestSuccessCallbackValidationError(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionResp:   &client.SessionResponse{SessionKey: "sk", RedirectURL: "https://gateway.example.com/pay/sk"},
		validationErr: context.DeadlineExceeded,
	})
	order := f.initiate(t)

	got, err := f.svc.HandleCallback(context.Background(), order.TransactionRef, CallbackSuccess, "VAL-9")
	require.NoError(t, err)

	// a validation timeout must not leave the order Pending
	assert.Equal(t, model.OrderFailed, got.OrderStatus)
	assert.Equal(t, model.PaymentFailed, got.PaymentStatus)
}

func TestSuccessCallbackMissingValidationID(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionResp: &client.SessionResponse{SessionKey: "sk", RedirectURL: "https://gateway.example.com/pay/sk"},
		validation:  &client.ValidationResult{Status: "VALID"},
	})
	order := f.initiate(t)

	got, err := f.svc.HandleCallback(context.Background(), order.TransactionRef, CallbackSuccess, "")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentFailed, got.PaymentStatus)
	assert.Equal(t, 0, f.gateway.validateCalls, "nothing to validate without an id")
}

func TestSuccessCallbackAmountMismatch(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionResp: &client.SessionResponse{SessionKey: "sk", RedirectURL: "https://gateway.example.com/pay/sk"},
		validation:  &client.ValidationResult{Status: "VALID", Amount: "1.00"},
	})
	order := f.initiate(t)

	got, err := f.svc.HandleCallback(context.Background(), order.TransactionRef, CallbackSuccess, "VAL-9")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentFailed, got.PaymentStatus)
	assert.Equal(t, 0, f.dispatcher.count(EventNewOrder))
}

func TestFailAndCancelCallbacks(t *testing.T) {
	tests := []struct {
		kind        CallbackKind
		wantOrder   model.OrderStatus
		wantPayment model.PaymentStatus
	}{
		{CallbackFail, model.OrderFailed, model.PaymentFailed},
		{CallbackCancel, model.OrderCancelled, model.PaymentCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := newCheckoutFixture(t, &mockGateway{
				sessionResp: &client.SessionResponse{SessionKey: "sk", RedirectURL: "https://gateway.example.com/pay/sk"},
			})
			order := f.initiate(t)

			got, err := f.svc.HandleCallback(context.Background(), order.TransactionRef, tt.kind, "")
			require.NoError(t, err)

			assert.Equal(t, tt.wantOrder, got.OrderStatus)
			assert.Equal(t, tt.wantPayment, got.PaymentStatus)
			assert.Equal(t, 0, f.gateway.validateCalls, "fail/cancel paths never validate")
			assert.Equal(t, 0, f.dispatcher.count(EventNewOrder))
		})
	}
}

func TestCallbackUnknownReference(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{})

	_, err := f.svc.HandleCallback(context.Background(), "TX-FORGED", CallbackSuccess, "VAL-9")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	orders, err := f.orderRepo.List(context.Background(), repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders, "stale callbacks must not create orders")
}

func TestRacingCallbacksFirstWins(t *testing.T) {
	f := newCheckoutFixture(t, &mockGateway{
		sessionResp: &client.SessionResponse{SessionKey: "sk", RedirectURL: "https://gateway.example.com/pay/sk"},
		validation:  &client.ValidationResult{Status: "VALID"},
	})
	order := f.initiate(t)

	first, err := f.svc.HandleCallback(context.Background(), order.TransactionRef, CallbackSuccess, "VAL-9")
	require.NoError(t, err)
	require.Equal(t, model.PaymentPaid, first.PaymentStatus)

	second, err := f.svc.HandleCallback(context.Background(), order.TransactionRef, CallbackCancel, "")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPaid, second.PaymentStatus, "late callback loses to the persisted state")
	assert.Equal(t, 1, f.dispatcher.count(EventNewOrder))
}
