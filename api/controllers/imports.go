package controllers

import (
	"net/http"

	"github.com/agentops/licensetrack/api/responses"
	"github.com/agentops/licensetrack/api/validators"
	"github.com/agentops/licensetrack/internal/roster"
	"github.com/agentops/licensetrack/pkg/enums"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/logger"
)

// RosterImport loads an uploaded CSV roster in the mode named by ?mode=.
func RosterImport(svc roster.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "roster service unavailable"))
			return
		}

		mode, err := enums.ParseRosterMode(r.URL.Query().Get("mode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mode").
				WithDetails(map[string]any{"mode": r.URL.Query().Get("mode")}))
			return
		}

		file, header, err := validators.FormFile(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithFields(ctx, map[string]any{"file": header.Filename, "mode": mode.String()})
		}

		summary, err := svc.Load(ctx, mode, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// NPNWorkbookImport imports every NPN listed in an uploaded XLSX or legacy XLS workbook.
func NPNWorkbookImport(svc roster.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "roster service unavailable"))
			return
		}

		file, header, err := validators.FormFile(w, r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithField(ctx, "file", header.Filename)
		}

		summary, err := svc.ImportWorkbookNPNs(ctx, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
