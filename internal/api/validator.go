package api

import (
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// ValidationErrorHandler writes the response for a request that failed
// validation against the OpenAPI document.
type ValidationErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// RequestValidator returns middleware that validates parameters, headers and
// bodies of documented operations. Paths the document does not describe
// pass through untouched.
func RequestValidator(doc *openapi3.T, onError ValidationErrorHandler) (func(http.Handler) http.Handler, error) {
	// Match on path only, whatever host the service is reached under.
	serverless := *doc
	serverless.Servers = nil

	router, err := gorillamux.NewRouter(&serverless)
	if err != nil {
		return nil, fmt.Errorf("building openapi router: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if err := validate(r, route, pathParams); err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func validate(r *http.Request, route *routers.Route, pathParams map[string]string) error {
	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	}
	return openapi3filter.ValidateRequest(r.Context(), input)
}
