package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/benx421/payment-gateway/escrow/internal/api"
	"github.com/benx421/payment-gateway/escrow/internal/models"
	"github.com/benx421/payment-gateway/escrow/internal/service"
)

// Headers set by the upstream authentication layer
const (
	ActorIDHeader   = "X-Actor-ID"
	ActorRoleHeader = "X-Actor-Role"
)

type actorContextKey struct{}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor stored by the Actor middleware.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(models.Actor)
	return actor, ok
}

// Actor reads the caller identity of every API request into the request
// context. Requests without a usable identity are refused with 401.
func Actor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, apiPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := parseActor(r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				//nolint:errcheck // Best effort response writing
				json.NewEncoder(w).Encode(api.Error{
					Error:   api.ErrorCodeUnauthorized,
					Message: "missing or invalid caller identity: " + err.Error(),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func parseActor(r *http.Request) (models.Actor, error) {
	id, err := uuid.Parse(strings.TrimSpace(r.Header.Get(ActorIDHeader)))
	if err != nil {
		id = uuid.Nil
	}

	actor := models.Actor{
		ID:   id,
		Role: models.Role(strings.ToLower(strings.TrimSpace(r.Header.Get(ActorRoleHeader)))),
	}
	if err := service.ValidateActor(actor); err != nil {
		return models.Actor{}, err
	}
	return actor, nil
}
