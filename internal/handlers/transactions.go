package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/api"
)

// GetTransaction handles GET /api/v1/transactions/{transactionId}
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	tx, err := h.payments.GetTransaction(r.Context(), transactionId, actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPITransaction(tx))
}

// InitiatePayment handles POST /api/v1/transactions/{transactionId}/payment
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	initiation, err := h.payments.InitiatePayment(r.Context(), transactionId, actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PaymentInitiation{
		Transaction: toAPITransaction(initiation.Transaction),
		ApproveUrl:  initiation.ApproveURL,
	})
}

// CancelTransaction handles POST /api/v1/transactions/{transactionId}/cancel
func (h *Handler) CancelTransaction(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	tx, err := h.payments.CancelTransaction(r.Context(), transactionId, actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPITransaction(tx))
}

// ReleaseFunds handles POST /api/v1/transactions/{transactionId}/release
func (h *Handler) ReleaseFunds(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	tx, err := h.settlement.ReleaseFunds(r.Context(), transactionId, actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPITransaction(tx))
}

// RefundTransaction handles POST /api/v1/transactions/{transactionId}/refund
func (h *Handler) RefundTransaction(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	var body api.ReasonRequest
	if err := decodeBody(w, r, &body); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	tx, err := h.settlement.RefundTransaction(r.Context(), transactionId, actor, body.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toAPITransaction(tx))
}

// SyncPayment handles POST /api/v1/transactions/{transactionId}/sync
func (h *Handler) SyncPayment(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	result, err := h.reconciler.SyncPayment(r.Context(), transactionId, actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.PaymentSync{
		Transaction: toAPITransaction(result.Transaction),
		OrderStatus: result.OrderStatus,
	})
}

// ListOverdueReviews handles GET /api/v1/transactions/overdue
func (h *Handler) ListOverdueReviews(w http.ResponseWriter, r *http.Request, params api.ListOverdueReviewsParams) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	txs, err := h.reconciler.ListOverdueReviews(r.Context(), actor, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list := api.TransactionList{Transactions: make([]api.Transaction, 0, len(txs))}
	for _, tx := range txs {
		list.Transactions = append(list.Transactions, toAPITransaction(tx))
	}

	writeJSON(w, http.StatusOK, list)
}
