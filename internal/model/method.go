package model

// MFSProvider is one of the supported offline mobile-financial-service rails.
type MFSProvider string

const (
	MFSBkash  MFSProvider = "bkash"
	MFSNagad  MFSProvider = "nagad"
	MFSRocket MFSProvider = "rocket"
)

// ParseMFSProvider checks a client-supplied provider against the allow-list.
func ParseMFSProvider(s string) (MFSProvider, bool) {
	switch MFSProvider(s) {
	case MFSBkash, MFSNagad, MFSRocket:
		return MFSProvider(s), true
	}
	return "", false
}

// PaymentMethod tags an order with the rail it was paid on: either the
// hosted gateway (by name) or one of the manual MFS providers. Exactly one
// variant is set.
type PaymentMethod struct {
	gateway string
	mfs     MFSProvider
}

func GatewayMethod(name string) PaymentMethod {
	return PaymentMethod{gateway: name}
}

func ManualMethod(p MFSProvider) PaymentMethod {
	return PaymentMethod{mfs: p}
}

func (m PaymentMethod) IsManual() bool {
	return m.mfs != ""
}

func (m PaymentMethod) Provider() MFSProvider {
	return m.mfs
}

// Label is the value persisted in Order.PaymentMethod.
func (m PaymentMethod) Label() string {
	if m.IsManual() {
		return string(m.mfs)
	}
	return m.gateway
}
