package models

// OfferOutcome is an offer together with the transaction a decision on it
// touched. Transaction is nil when the offer had no active transaction.
type OfferOutcome struct {
	Offer       *Offer
	Transaction *Transaction
}

// PaymentInitiation is a transaction whose gateway order was just created.
// The client completes payment at ApproveURL.
type PaymentInitiation struct {
	Transaction *Transaction
	ApproveURL  string
}

// PaymentSync is a transaction after reconciling it with the gateway's
// view of its order.
type PaymentSync struct {
	Transaction *Transaction
	OrderStatus string
}
