package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	sharedcontext "github.com/nwslgate/nwslgate/core/shared/context"
)

// RequestContext stamps every request's context with a request ID so
// upstream calls can carry it. chi's RequestID middleware supplies the
// value; a fresh one is generated if that middleware did not run.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimiddleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = sharedcontext.GenerateRequestID()
		}
		ctx := sharedcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
