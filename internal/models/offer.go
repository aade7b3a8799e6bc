package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferStatus represents the status of an offer
type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "PENDING"
	OfferStatusApproved  OfferStatus = "APPROVED"
	OfferStatusRejected  OfferStatus = "REJECTED"
	OfferStatusCancelled OfferStatus = "CANCELLED"
)

// Offer is an agreement between one client and one provider for one
// service instance.
type Offer struct {
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	Price       decimal.Decimal `db:"price"`
	Status      OfferStatus     `db:"status"`
	Description string          `db:"description"`
	ID          uuid.UUID       `db:"id"`
	ClientID    uuid.UUID       `db:"client_id"`
	ProviderID  uuid.UUID       `db:"provider_id"`
	ServiceID   uuid.UUID       `db:"service_id"`
}

// IsTerminal reports whether the offer can no longer change status.
func (o *Offer) IsTerminal() bool {
	return o.Status != OfferStatusPending
}

// CanTransitionTo returns nil when the offer may move to target. Only
// PENDING offers transition, and only into a terminal status.
func (o *Offer) CanTransitionTo(target OfferStatus) error {
	if o.Status != OfferStatusPending {
		return NewInvalidTransitionError(string(o.Status), string(target))
	}

	switch target {
	case OfferStatusApproved, OfferStatusRejected, OfferStatusCancelled:
		return nil
	default:
		return NewInvalidTransitionError(string(o.Status), string(target))
	}
}
