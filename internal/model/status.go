package model

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderFailed     OrderStatus = "failed"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid    PaymentStatus = "unpaid"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRejected  PaymentStatus = "rejected"
)

// PaymentEvent is a lifecycle event applied to an order that is still in the
// initial Pending/Unpaid state. Every event resolves the order into one of
// the terminal status pairs; there are no transitions out of terminal states.
type PaymentEvent string

const (
	EventGatewayValidated PaymentEvent = "gateway_validated"
	EventGatewayRejected  PaymentEvent = "gateway_rejected"
	EventGatewayFailed    PaymentEvent = "gateway_failed"
	EventGatewayCancelled PaymentEvent = "gateway_cancelled"
	EventManualApproved   PaymentEvent = "manual_approved"
	EventManualRejected   PaymentEvent = "manual_rejected"
)

// Transition is the target status pair of a payment event.
type Transition struct {
	OrderStatus   OrderStatus
	PaymentStatus PaymentStatus
}

// Paid reports whether the transition lands on the paid terminal state.
func (t Transition) Paid() bool {
	return t.OrderStatus == OrderProcessing && t.PaymentStatus == PaymentPaid
}

// Resolve maps a payment event to its target statuses. A validated gateway
// payment promotes both axes to Processing/Paid, the same terminal pair the
// manual-approve path uses, and a rejected validation fails both axes like a
// fail callback does.
func Resolve(ev PaymentEvent) (Transition, bool) {
	switch ev {
	case EventGatewayValidated, EventManualApproved:
		return Transition{OrderProcessing, PaymentPaid}, true
	case EventGatewayRejected, EventGatewayFailed:
		return Transition{OrderFailed, PaymentFailed}, true
	case EventGatewayCancelled:
		return Transition{OrderCancelled, PaymentCancelled}, true
	case EventManualRejected:
		return Transition{OrderCancelled, PaymentRejected}, true
	}
	return Transition{}, false
}
