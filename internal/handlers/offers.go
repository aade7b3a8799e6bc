package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/api"
	"github.com/benx421/payment-gateway/escrow/internal/models"
)

// requireActor returns the caller, answering 401 when there is none.
func (h *Handler) requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, api.Error{
			Error:   api.ErrorCodeUnauthorized,
			Message: "caller identity is required",
		})
	}
	return actor, ok
}

// GetOffer handles GET /api/v1/offers/{offerId}
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request, offerId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	offer, err := h.offers.GetOffer(r.Context(), offerId, actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPIOffer(offer))
}

// OpenTransaction handles POST /api/v1/offers/{offerId}/transactions
func (h *Handler) OpenTransaction(w http.ResponseWriter, r *http.Request, offerId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var body api.OpenTransactionRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	tx, err := h.payments.OpenTransaction(r.Context(), offerId, actor, models.PaymentMethodKind(body.PaymentMethod), body.CaptureId)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAPITransaction(tx))
}

// ApproveOffer handles POST /api/v1/offers/{offerId}/approve
func (h *Handler) ApproveOffer(w http.ResponseWriter, r *http.Request, offerId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	outcome, err := h.offers.ApproveOffer(r.Context(), offerId, actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPIOfferOutcome(outcome))
}

// RejectOffer handles POST /api/v1/offers/{offerId}/reject
func (h *Handler) RejectOffer(w http.ResponseWriter, r *http.Request, offerId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var body api.ReasonRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	outcome, err := h.offers.RejectOffer(r.Context(), offerId, actor, body.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPIOfferOutcome(outcome))
}
