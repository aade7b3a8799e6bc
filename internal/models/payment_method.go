package models

// PaymentMethodKind is the persisted discriminator of a PaymentMethod
type PaymentMethodKind string

const (
	PaymentMethodGatewayOrder PaymentMethodKind = "GATEWAY_ORDER"
	PaymentMethodPreCaptured  PaymentMethodKind = "PRE_CAPTURED"
)

// Valid reports whether k is a known payment method kind.
func (k PaymentMethodKind) Valid() bool {
	return k == PaymentMethodGatewayOrder || k == PaymentMethodPreCaptured
}

// PaymentMethod says how the client's money reaches the platform. It is
// one of GatewayOrder, AwaitingOrder or PreCaptured; callers switch on the
// concrete type.
type PaymentMethod interface {
	paymentMethod()
}

// GatewayOrder is a gateway order the buyer approves before the platform
// captures it.
type GatewayOrder struct {
	OrderID string
}

// AwaitingOrder is a gateway payment whose order has not been created yet.
type AwaitingOrder struct{}

// PreCaptured is a payment the card flow already captured. CaptureID is nil
// when the upstream flow did not report one.
type PreCaptured struct {
	CaptureID *string
}

func (GatewayOrder) paymentMethod()  {}
func (AwaitingOrder) paymentMethod() {}
func (PreCaptured) paymentMethod()   {}

// PaymentMethod derives the tagged payment method from the stored columns.
func (t *Transaction) PaymentMethod() PaymentMethod {
	if t.Method == PaymentMethodPreCaptured {
		return PreCaptured{CaptureID: t.CaptureID}
	}
	if t.PaymentIntentID == nil {
		return AwaitingOrder{}
	}
	return GatewayOrder{OrderID: *t.PaymentIntentID}
}
