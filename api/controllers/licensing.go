package controllers

import (
	"net/http"
	"strings"

	"github.com/agentops/licensetrack/api/responses"
	"github.com/agentops/licensetrack/api/validators"
	"github.com/agentops/licensetrack/internal/licensing"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/logger"
)

type npnRequest struct {
	NPN string `json:"npn" validate:"required,npn"`
}

func (r npnRequest) normalized() string {
	return strings.TrimSpace(r.NPN)
}

// LicensingImport refreshes the licensing tree of an existing salesman.
func LicensingImport(svc licensing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "licensing service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, salesmanIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Import(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// LicensingImportByNPN imports a producer by NPN, creating the salesman when
// none holds that NPN yet.
func LicensingImportByNPN(svc licensing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "licensing service unavailable"))
			return
		}

		var payload npnRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.ImportByNPN(r.Context(), payload.normalized())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// SalesmanUpdateNPN stores a new NPN on the salesman and imports it.
func SalesmanUpdateNPN(svc licensing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "licensing service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, salesmanIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload npnRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		summary, err := svc.UpdateNPNAndImport(r.Context(), id, payload.normalized())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
