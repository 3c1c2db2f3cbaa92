package controllers

import (
	"net/http"
	"strings"

	"github.com/agentops/licensetrack/api/responses"
	"github.com/agentops/licensetrack/api/validators"
	"github.com/agentops/licensetrack/internal/geography"
	"github.com/agentops/licensetrack/internal/salesmen"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/tablesort"
)

// CoverageReport renders the state coverage table. ?column= picks the clicked
// header and ?current= is that header's present sort state.
func CoverageReport(svc salesmen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salesmen service unavailable"))
			return
		}

		column, err := validators.ParseQueryInt(r, "column", -1, -1, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		table, err := svc.Coverage(r.Context(), salesmen.CoverageParams{
			Site:    strings.TrimSpace(query.Get("site")),
			Column:  column,
			Current: tablesort.ParseDirection(query.Get("current")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, table)
	}
}

type jurisdictionsResponse struct {
	All        []string            `json:"all"`
	JustInTime []string            `json:"just_in_time"`
	Sites      map[string][]string `json:"sites"`
}

// JurisdictionTables serves the static jurisdiction reference tables.
func JurisdictionTables() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := jurisdictionsResponse{
			All:        geography.AllJurisdictions(),
			JustInTime: geography.JustInTimeJurisdictions(),
			Sites:      map[string][]string{},
		}
		for _, site := range geography.Sites() {
			codes, _ := geography.SiteJurisdictions(site)
			resp.Sites[site] = codes
		}
		responses.WriteSuccess(w, resp)
	}
}
