package service

import "errors"

var (
	// ErrValidation covers missing or malformed required fields; nothing is
	// persisted when it fires.
	ErrValidation = errors.New("missing or malformed required field")
	// ErrGatewayUnavailable means the hosted-checkout session could not be
	// opened; the Pending order already created is the only side effect.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrOrderNotPending signals a decision or callback arriving after the
	// order already left Pending/Unpaid.
	ErrOrderNotPending = errors.New("order already decided")
)
