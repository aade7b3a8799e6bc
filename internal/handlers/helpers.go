package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/benx421/payment-gateway/escrow/internal/api"
	"github.com/benx421/payment-gateway/escrow/internal/fees"
	"github.com/benx421/payment-gateway/escrow/internal/middleware"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/service"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Nothing useful to do if the client went away
	json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, api.Error{
		Error:   api.ErrorCodeInvalidRequest,
		Message: message,
	})
}

// WriteValidationError renders a request that failed OpenAPI validation or
// parameter binding.
func WriteValidationError(w http.ResponseWriter, _ *http.Request, err error) {
	writeBadRequest(w, err.Error())
}

// writeError maps a service error onto its HTTP status and error body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	svcErr := extractServiceError(err)
	if svcErr == nil {
		h.logger.Error("unexpected error", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, api.Error{
			Error:   api.ErrorCodeInternalError,
			Message: "internal error",
		})
		return
	}

	status := statusForCode(svcErr.Code)
	message := svcErr.Message
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "code", svcErr.Code, "error", err)
		if svcErr.Code == service.ErrCodeInternalError {
			message = "internal error"
		}
	}

	body := api.Error{
		Error:   mapServiceErrorToCode(svcErr.Code),
		Message: message,
	}
	if svcErr.CurrentStatus != "" {
		current := svcErr.CurrentStatus
		body.CurrentStatus = &current
	}

	writeJSON(w, status, body)
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case service.ErrCodeForbidden:
		return http.StatusForbidden
	case service.ErrCodeOfferNotFound, service.ErrCodeTransactionNotFound:
		return http.StatusNotFound
	case service.ErrCodeInvalidOfferState,
		service.ErrCodeInvalidTransactionState,
		service.ErrCodeStateConflict,
		service.ErrCodeActiveTransactionExists:
		return http.StatusConflict
	case service.ErrCodePaymentNotCompleted, service.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case service.ErrCodePayeeNotConfigured:
		return http.StatusUnprocessableEntity
	case service.ErrCodeCaptureFailed, service.ErrCodePayoutFailed, service.ErrCodeRefundFailed:
		return http.StatusBadGateway
	case service.ErrCodeGatewayUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func mapServiceErrorToCode(code string) api.ErrorCode {
	switch code {
	case service.ErrCodeForbidden:
		return api.ErrorCodeForbidden
	case service.ErrCodeOfferNotFound:
		return api.ErrorCodeOfferNotFound
	case service.ErrCodeTransactionNotFound:
		return api.ErrorCodeTransactionNotFound
	case service.ErrCodeInvalidOfferState:
		return api.ErrorCodeInvalidOfferState
	case service.ErrCodeInvalidTransactionState:
		return api.ErrorCodeInvalidTransactionState
	case service.ErrCodeStateConflict:
		return api.ErrorCodeStateConflict
	case service.ErrCodeActiveTransactionExists:
		return api.ErrorCodeActiveTransactionExists
	case service.ErrCodePaymentNotCompleted:
		return api.ErrorCodePaymentNotCompleted
	case service.ErrCodeInsufficientFunds:
		return api.ErrorCodeInsufficientFunds
	case service.ErrCodePayeeNotConfigured:
		return api.ErrorCodePayeeNotConfigured
	case service.ErrCodeGatewayUnavailable:
		return api.ErrorCodeGatewayUnavailable
	case service.ErrCodeCaptureFailed:
		return api.ErrorCodeCaptureFailed
	case service.ErrCodePayoutFailed:
		return api.ErrorCodePayoutFailed
	case service.ErrCodeRefundFailed:
		return api.ErrorCodeRefundFailed
	case service.ErrCodeDataError:
		return api.ErrorCodeDataError
	case service.ErrCodeInvalidRequest:
		return api.ErrorCodeInvalidRequest
	default:
		return api.ErrorCodeInternalError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// actorFrom returns the caller set by middleware.Actor.
func actorFrom(r *http.Request) (models.Actor, bool) {
	return middleware.ActorFromContext(r.Context())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func toAPIOffer(o *models.Offer) api.Offer {
	return api.Offer{
		Id:          o.ID,
		ClientId:    o.ClientID,
		ProviderId:  o.ProviderID,
		ServiceId:   o.ServiceID,
		Price:       o.Price.StringFixed(2),
		Status:      string(o.Status),
		Description: o.Description,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// toAPITransaction renders a transaction with its money split. Rows whose
// amounts cannot be split still render, with empty split fields.
func toAPITransaction(t *models.Transaction) api.Transaction {
	out := api.Transaction{
		Id:                 t.ID,
		OfferId:            t.OfferID,
		Status:             string(t.Status),
		PaymentMethod:      string(t.Method),
		Amount:             t.Amount.StringFixed(2),
		Currency:           t.Currency,
		ClientFeePercent:   t.ClientFeePercent.String(),
		ProviderFeePercent: t.ProviderFeePercent.String(),
		PaymentIntentId:    t.PaymentIntentID,
		CaptureId:          t.CaptureID,
		TransferId:         t.TransferID,
		RefundId:           t.RefundID,
		TransferStatus:     string(t.TransferStatus),
		TransferDate:       t.TransferDate,
		ReviewDeadline:     t.ReviewDeadline,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}

	if split, err := fees.ComputeSplit(t.Amount, t.ClientFeePercent, t.ProviderFeePercent); err == nil {
		out.ClientPays = split.ClientPays.StringFixed(2)
		out.ProviderReceives = split.ProviderReceives.StringFixed(2)
		out.PlatformCommission = split.PlatformCommission.StringFixed(2)
	}

	return out
}

func toAPITransactionPtr(t *models.Transaction) *api.Transaction {
	if t == nil {
		return nil
	}
	out := toAPITransaction(t)
	return &out
}

func toAPIOfferOutcome(o *models.OfferOutcome) api.OfferOutcome {
	return api.OfferOutcome{
		Offer:       toAPIOffer(o.Offer),
		Transaction: toAPITransactionPtr(o.Transaction),
	}
}
