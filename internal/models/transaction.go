package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus represents the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending        TransactionStatus = "PENDING"
	TransactionStatusProviderReview TransactionStatus = "PROVIDER_REVIEW"
	TransactionStatusApproved       TransactionStatus = "APPROVED"
	TransactionStatusCompleted      TransactionStatus = "COMPLETED"
	TransactionStatusDeclined       TransactionStatus = "DECLINED"
	TransactionStatusRefunded       TransactionStatus = "REFUNDED"
	TransactionStatusCancelled      TransactionStatus = "CANCELLED"

	// Legacy statuses kept so historical rows still load. Nothing in this
	// service moves a transaction into them.
	TransactionStatusEscrow   TransactionStatus = "ESCROW"
	TransactionStatusDisputed TransactionStatus = "DISPUTED"
)

// TransferStatus tracks the provider payout sub-event of a completed transaction
type TransferStatus string

const (
	TransferStatusNone      TransferStatus = "NONE"
	TransferStatusCompleted TransferStatus = "COMPLETED"
)

// transactionTransitions lists the allowed target statuses per status.
var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPending: {
		TransactionStatusProviderReview,
		TransactionStatusDeclined,
		TransactionStatusCancelled,
	},
	TransactionStatusProviderReview: {
		TransactionStatusCompleted,
		TransactionStatusDeclined,
		TransactionStatusCancelled,
		TransactionStatusRefunded,
	},
	TransactionStatusApproved: {
		TransactionStatusCompleted,
		TransactionStatusDeclined,
		TransactionStatusCancelled,
	},
	TransactionStatusCompleted: {
		TransactionStatusRefunded,
		TransactionStatusDeclined,
	},
	TransactionStatusDeclined: {
		TransactionStatusRefunded,
	},
	TransactionStatusCancelled: {
		TransactionStatusRefunded,
	},
}

// Transaction is the money-movement record bound to an offer. Amount is the
// service price before fees; the fee percentages are a snapshot taken when
// the transaction was opened.
type Transaction struct {
	CreatedAt          time.Time         `db:"created_at"`
	UpdatedAt          time.Time         `db:"updated_at"`
	ReviewDeadline     *time.Time        `db:"review_deadline"`
	TransferDate       *time.Time        `db:"transfer_date"`
	PaymentIntentID    *string           `db:"payment_intent_id"`
	CaptureID          *string           `db:"capture_id"`
	TransferID         *string           `db:"transfer_id"`
	RefundID           *string           `db:"refund_id"`
	Amount             decimal.Decimal   `db:"amount"`
	ClientFeePercent   decimal.Decimal   `db:"client_fee_percent"`
	ProviderFeePercent decimal.Decimal   `db:"provider_fee_percent"`
	Currency           string            `db:"currency"`
	Status             TransactionStatus `db:"status"`
	Method             PaymentMethodKind `db:"payment_method"`
	TransferStatus     TransferStatus    `db:"transfer_status"`
	ID                 uuid.UUID         `db:"id"`
	OfferID            uuid.UUID         `db:"offer_id"`
}

// CanTransitionTo returns nil when the transaction may move to target.
func (t *Transaction) CanTransitionTo(target TransactionStatus) error {
	for _, allowed := range transactionTransitions[t.Status] {
		if allowed == target {
			return nil
		}
	}
	return NewInvalidTransitionError(string(t.Status), string(target))
}

// IsActive reports whether the transaction still occupies its offer. Only
// one active transaction may exist per offer.
func (t *Transaction) IsActive() bool {
	switch t.Status {
	case TransactionStatusCancelled, TransactionStatusDeclined, TransactionStatusRefunded:
		return false
	default:
		return true
	}
}

// IsCancellable reports whether the client may still withdraw.
func (t *Transaction) IsCancellable() bool {
	switch t.Status {
	case TransactionStatusPending, TransactionStatusProviderReview, TransactionStatusApproved:
		return true
	default:
		return false
	}
}

// IsCaptured reports whether funds have been collected from the client.
func (t *Transaction) IsCaptured() bool {
	return t.CaptureID != nil
}

// IsPaidOut reports whether the provider payout already happened.
func (t *Transaction) IsPaidOut() bool {
	return t.TransferID != nil
}

// IdempotencyKey tracks processed requests to prevent duplicate transactions
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}
