package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/repository"
)

// transitionOffer moves a pending offer into a terminal status. The write
// only succeeds if the offer is still in the status that was loaded.
func (o *Orchestrator) transitionOffer(
	ctx context.Context,
	offers repository.OfferRepository,
	offer *models.Offer,
	target models.OfferStatus,
	note string,
) error {
	if err := offer.CanTransitionTo(target); err != nil {
		return invalidOfferState(offer)
	}

	if err := offers.UpdateStatus(ctx, offer.ID, offer.Status, target, note); err != nil {
		if errors.Is(err, models.ErrStatusConflict) {
			return o.offerConflict(ctx, offers, offer.ID)
		}
		return internalError("failed to update offer", err)
	}

	offer.Status = target
	return nil
}

// loadOfferForProvider loads a pending offer owned by actor.
func (o *Orchestrator) loadOfferForProvider(ctx context.Context, offers repository.OfferRepository, offerID uuid.UUID, actor models.Actor) (*models.Offer, error) {
	offer, err := o.loadOffer(ctx, offers, offerID)
	if err != nil {
		return nil, err
	}

	if actor.Role != models.RoleProvider || actor.ID != offer.ProviderID {
		return nil, forbidden("only the provider of this offer can decide on it")
	}

	if offer.Status != models.OfferStatusPending {
		return nil, invalidOfferState(offer)
	}

	return offer, nil
}

// GetOffer returns an offer to one of its participants or an admin
func (o *Orchestrator) GetOffer(ctx context.Context, offerID uuid.UUID, actor models.Actor) (*models.Offer, error) {
	offer, err := o.loadOffer(ctx, o.store.Repositories().Offers, offerID)
	if err != nil {
		return nil, err
	}

	if !isParticipant(actor, offer) {
		return nil, forbidden("not a participant of this offer")
	}

	return offer, nil
}
