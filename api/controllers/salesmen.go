package controllers

import (
	"net/http"
	"strings"

	"github.com/agentops/licensetrack/api/responses"
	"github.com/agentops/licensetrack/api/validators"
	"github.com/agentops/licensetrack/internal/salesmen"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/pagination"
)

const salesmanIDParam = "salesmanId"

// SalesmenList handles the searchable, sortable salesman directory.
func SalesmenList(svc salesmen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salesmen service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := validators.ParseQueryDate(r, "position_start_from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		result, err := svc.List(r.Context(), salesmen.ListParams{
			SearchQuery:       strings.TrimSpace(query.Get("search_query")),
			PositionStartFrom: from,
			SortedBy:          strings.TrimSpace(query.Get("sorted_by")),
			Params:            pagination.Params{Limit: limit, Offset: offset},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SalesmanCreate(svc salesmen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salesmen service unavailable"))
			return
		}

		var payload salesmen.Input
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func SalesmanGet(svc salesmen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salesmen service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, salesmanIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// SalesmanUpdate applies a partial update; absent fields are left unchanged.
func SalesmanUpdate(svc salesmen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salesmen service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, salesmanIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload salesmen.Input
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func SalesmanDelete(svc salesmen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salesmen service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, salesmanIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func SalesmanStates(svc salesmen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salesmen service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, salesmanIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		states, err := svc.States(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, states)
	}
}

// SalesmanNeededStates recomputes the jurisdictions the salesman still lacks.
func SalesmanNeededStates(svc salesmen.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salesmen service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, salesmanIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		needed, err := svc.AddNeededStates(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"salesman_id": id.String(), "needed_states": needed})
	}
}
