package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/agentops/licensetrack/api/responses"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/logger"
)

// RateLimit caps requests per client IP within window. Rejected requests get
// the standard error envelope.
func RateLimit(logg *logger.Logger, requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests, try again later"))
		}),
	)
}
