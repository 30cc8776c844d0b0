package dto

import (
	"time"

	"orderflow/internal/model"
)

type CheckoutRequest struct {
	ProductID       string `json:"product_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

// GatewayCallbackRequest is posted by the gateway through the customer's
// browser; val_id is only present on the success path.
type GatewayCallbackRequest struct {
	ValID string `json:"val_id" form:"val_id"`
}

type ManualPaymentRequest struct {
	ProductID       string `json:"product_id"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	MFSProvider     string `json:"mfs_provider"`
	TransactionID   string `json:"transaction_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
}

type ManualPaymentResponse struct {
	OrderID string `json:"order_id"`
}

type DecisionRequest struct {
	Action string `json:"action"` // approve | reject
}

type AutomationRequest struct {
	Name         string `json:"name"`
	TriggerEvent string `json:"trigger_event"`
	WebhookURL   string `json:"webhook_url"`
	IsActive     *bool  `json:"is_active"`
}

type OrderResponse struct {
	ID             string    `json:"id"`
	TransactionRef string    `json:"transaction_ref"`
	ProductName    string    `json:"product_name"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	CustomerName   string    `json:"customer_name"`
	CustomerEmail  string    `json:"customer_email"`
	CustomerPhone  string    `json:"customer_phone"`
	PaymentMethod  string    `json:"payment_method"`
	MFSProvider    string    `json:"mfs_provider,omitempty"`
	OrderStatus    string    `json:"order_status"`
	PaymentStatus  string    `json:"payment_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewOrderResponse(order *model.Order) *OrderResponse {
	return &OrderResponse{
		ID:             order.ID,
		TransactionRef: order.TransactionRef,
		ProductName:    order.ProductName,
		Amount:         order.Amount,
		Currency:       order.Currency,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		CustomerPhone:  order.CustomerPhone,
		PaymentMethod:  order.PaymentMethod,
		MFSProvider:    order.MFSProvider,
		OrderStatus:    string(order.OrderStatus),
		PaymentStatus:  string(order.PaymentStatus),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
}
