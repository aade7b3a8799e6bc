// Package handlers implements HTTP handlers for the escrow API.
package handlers

import (
	"log/slog"

	"github.com/benx421/payment-gateway/escrow/internal/api"
	"github.com/benx421/payment-gateway/escrow/internal/service"
)

var _ api.ServerInterface = (*Handler)(nil)

// Handler implements api.ServerInterface for all endpoints
type Handler struct {
	offers        service.OfferReviewer
	payments      service.PaymentProcessor
	settlement    service.Settler
	reconciler    service.Reconciler
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	offers service.OfferReviewer,
	payments service.PaymentProcessor,
	settlement service.Settler,
	reconciler service.Reconciler,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		offers:        offers,
		payments:      payments,
		settlement:    settlement,
		reconciler:    reconciler,
		healthChecker: healthChecker,
		logger:        logger,
	}
}
