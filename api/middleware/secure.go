package middleware

import (
	"net/http"

	"github.com/unrolled/secure"

	"github.com/agentops/licensetrack/pkg/logger"
)

// SecureHeaders sets the standard response hardening headers. HTTPS redirects
// are only enforced when redirectHTTPS is true.
func SecureHeaders(logg *logger.Logger, redirectHTTPS bool) func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           redirectHTTPS,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sec.Process(w, r); err != nil {
				// Process has already written the redirect or rejection.
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "reason", err.Error()), "secure.blocked")
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

