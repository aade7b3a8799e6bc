package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /api/v1/offers/{offerId})
	GetOffer(w http.ResponseWriter, r *http.Request, offerId uuid.UUID)
	// (POST /api/v1/offers/{offerId}/transactions)
	OpenTransaction(w http.ResponseWriter, r *http.Request, offerId uuid.UUID)
	// (POST /api/v1/offers/{offerId}/approve)
	ApproveOffer(w http.ResponseWriter, r *http.Request, offerId uuid.UUID)
	// (POST /api/v1/offers/{offerId}/reject)
	RejectOffer(w http.ResponseWriter, r *http.Request, offerId uuid.UUID)
	// (GET /api/v1/transactions/overdue)
	ListOverdueReviews(w http.ResponseWriter, r *http.Request, params ListOverdueReviewsParams)
	// (GET /api/v1/transactions/{transactionId})
	GetTransaction(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID)
	// (POST /api/v1/transactions/{transactionId}/payment)
	InitiatePayment(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID)
	// (POST /api/v1/transactions/{transactionId}/cancel)
	CancelTransaction(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID)
	// (POST /api/v1/transactions/{transactionId}/release)
	ReleaseFunds(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID)
	// (POST /api/v1/transactions/{transactionId}/refund)
	RefundTransaction(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID)
	// (POST /api/v1/transactions/{transactionId}/sync)
	SyncPayment(w http.ResponseWriter, r *http.Request, transactionId uuid.UUID)
}

// InvalidParamFormatError is passed to the error handler when a parameter
// cannot be bound.
type InvalidParamFormatError struct {
	Err       error
	ParamName string
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ServerOptions configures HandlerWithOptions.
type ServerOptions struct {
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// serverInterfaceWrapper binds path and query parameters before calling
// the handler.
type serverInterfaceWrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

type uuidHandlerFunc func(w http.ResponseWriter, r *http.Request, id uuid.UUID)

func (siw *serverInterfaceWrapper) withPathID(name string, next uuidHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id uuid.UUID

		err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &id,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
			return
		}

		next(w, r, id)
	}
}

func (siw *serverInterfaceWrapper) listOverdueReviews(w http.ResponseWriter, r *http.Request) {
	var params ListOverdueReviewsParams

	err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit)
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}

	siw.handler.ListOverdueReviews(w, r, params)
}

// HandlerFromMux registers si's routes on m and returns m.
func HandlerFromMux(si ServerInterface, m *http.ServeMux) http.Handler {
	return HandlerWithOptions(si, m, ServerOptions{})
}

// HandlerWithOptions registers si's routes on m using options.
func HandlerWithOptions(si ServerInterface, m *http.ServeMux, options ServerOptions) http.Handler {
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := &serverInterfaceWrapper{
		handler:          si,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}

	m.HandleFunc("GET /health", si.GetHealth)
	m.HandleFunc("GET /api/v1/offers/{offerId}", wrapper.withPathID("offerId", si.GetOffer))
	m.HandleFunc("POST /api/v1/offers/{offerId}/transactions", wrapper.withPathID("offerId", si.OpenTransaction))
	m.HandleFunc("POST /api/v1/offers/{offerId}/approve", wrapper.withPathID("offerId", si.ApproveOffer))
	m.HandleFunc("POST /api/v1/offers/{offerId}/reject", wrapper.withPathID("offerId", si.RejectOffer))
	m.HandleFunc("GET /api/v1/transactions/overdue", wrapper.listOverdueReviews)
	m.HandleFunc("GET /api/v1/transactions/{transactionId}", wrapper.withPathID("transactionId", si.GetTransaction))
	m.HandleFunc("POST /api/v1/transactions/{transactionId}/payment", wrapper.withPathID("transactionId", si.InitiatePayment))
	m.HandleFunc("POST /api/v1/transactions/{transactionId}/cancel", wrapper.withPathID("transactionId", si.CancelTransaction))
	m.HandleFunc("POST /api/v1/transactions/{transactionId}/release", wrapper.withPathID("transactionId", si.ReleaseFunds))
	m.HandleFunc("POST /api/v1/transactions/{transactionId}/refund", wrapper.withPathID("transactionId", si.RefundTransaction))
	m.HandleFunc("POST /api/v1/transactions/{transactionId}/sync", wrapper.withPathID("transactionId", si.SyncPayment))

	return m
}
