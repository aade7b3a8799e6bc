package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/benx421/payment-gateway/escrow/internal/api"
	"github.com/benx421/payment-gateway/escrow/internal/middleware"
)

// NewRouter creates and configures the HTTP router with all routes and
// middleware. Requests pass OpenAPI validation, then caller identity, then
// idempotent replay before reaching a handler.
func NewRouter(
	handler *Handler,
	idempotencyRepo middleware.IdempotencyRepository,
	logger *slog.Logger,
) (http.Handler, error) {
	swagger, err := api.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("loading api description: %w", err)
	}

	validator, err := api.RequestValidator(swagger, WriteValidationError)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	api.RegisterDocsRoutes(mux)
	api.HandlerWithOptions(handler, mux, api.ServerOptions{ErrorHandlerFunc: WriteValidationError})

	var finalHandler http.Handler = mux

	finalHandler = middleware.Idempotency(idempotencyRepo, logger)(finalHandler)
	finalHandler = middleware.Actor()(finalHandler)
	finalHandler = validator(finalHandler)

	return finalHandler, nil
}
