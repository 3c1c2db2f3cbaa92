package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentops/licensetrack/api/controllers"
	"github.com/agentops/licensetrack/api/middleware"
	"github.com/agentops/licensetrack/internal/licensing"
	"github.com/agentops/licensetrack/internal/roster"
	"github.com/agentops/licensetrack/internal/salesmen"
	"github.com/agentops/licensetrack/pkg/config"
	"github.com/agentops/licensetrack/pkg/logger"
)

const (
	importRateLimit  = 10
	importRateWindow = time.Minute
)

// Dependencies groups what the HTTP surface needs. Redis and Metrics may be nil.
type Dependencies struct {
	DB        controllers.Pinger
	Redis     controllers.Pinger
	Metrics   prometheus.Gatherer
	Salesmen  salesmen.Service
	Licensing licensing.Service
	Roster    roster.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.SecureHeaders(logg, cfg.App.IsProd()),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	maxUpload := cfg.Import.MaxUploadBytes()

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/salesmen", func(r chi.Router) {
			r.Get("/", controllers.SalesmenList(deps.Salesmen, logg))
			r.Post("/", controllers.SalesmanCreate(deps.Salesmen, logg))
			r.Route("/{salesmanId}", func(r chi.Router) {
				r.Get("/", controllers.SalesmanGet(deps.Salesmen, logg))
				r.Patch("/", controllers.SalesmanUpdate(deps.Salesmen, logg))
				r.Delete("/", controllers.SalesmanDelete(deps.Salesmen, logg))
				r.Get("/states", controllers.SalesmanStates(deps.Salesmen, logg))
				r.Post("/needed-states", controllers.SalesmanNeededStates(deps.Salesmen, logg))
				r.Post("/npn", controllers.SalesmanUpdateNPN(deps.Licensing, logg))
				r.Post("/licensing/import", controllers.LicensingImport(deps.Licensing, logg))
			})
		})

		r.Post("/licensing/import", controllers.LicensingImportByNPN(deps.Licensing, logg))

		r.Route("/imports", func(r chi.Router) {
			r.Use(middleware.RateLimit(logg, importRateLimit, importRateWindow))
			r.Post("/roster", controllers.RosterImport(deps.Roster, maxUpload, logg))
			r.Post("/npn-workbook", controllers.NPNWorkbookImport(deps.Roster, maxUpload, logg))
		})

		r.Get("/reports/coverage", controllers.CoverageReport(deps.Salesmen, logg))
		r.Get("/reports/jurisdictions", controllers.JurisdictionTables())
	})

	return r
}
