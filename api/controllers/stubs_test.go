package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agentops/licensetrack/internal/licensing"
	"github.com/agentops/licensetrack/internal/roster"
	"github.com/agentops/licensetrack/internal/salesmen"
	"github.com/agentops/licensetrack/pkg/enums"
	"github.com/agentops/licensetrack/pkg/logger"
	"github.com/agentops/licensetrack/pkg/tablesort"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

type testSalesmenService struct {
	listFn     func(ctx context.Context, params salesmen.ListParams) (*salesmen.ListResult, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*salesmen.Salesman, error)
	createFn   func(ctx context.Context, input salesmen.Input) (*salesmen.Salesman, error)
	updateFn   func(ctx context.Context, id uuid.UUID, input salesmen.Input) (*salesmen.Salesman, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) error
	statesFn   func(ctx context.Context, id uuid.UUID) ([]salesmen.State, error)
	neededFn   func(ctx context.Context, id uuid.UUID) (string, error)
	coverageFn func(ctx context.Context, params salesmen.CoverageParams) (*tablesort.Table, error)
}

func (s *testSalesmenService) List(ctx context.Context, params salesmen.ListParams) (*salesmen.ListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &salesmen.ListResult{}, nil
}

func (s *testSalesmenService) Get(ctx context.Context, id uuid.UUID) (*salesmen.Salesman, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &salesmen.Salesman{ID: id}, nil
}

func (s *testSalesmenService) Create(ctx context.Context, input salesmen.Input) (*salesmen.Salesman, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &salesmen.Salesman{ID: uuid.New()}, nil
}

func (s *testSalesmenService) Update(ctx context.Context, id uuid.UUID, input salesmen.Input) (*salesmen.Salesman, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, input)
	}
	return &salesmen.Salesman{ID: id}, nil
}

func (s *testSalesmenService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *testSalesmenService) States(ctx context.Context, id uuid.UUID) ([]salesmen.State, error) {
	if s.statesFn != nil {
		return s.statesFn(ctx, id)
	}
	return nil, nil
}

func (s *testSalesmenService) AddNeededStates(ctx context.Context, id uuid.UUID) (string, error) {
	if s.neededFn != nil {
		return s.neededFn(ctx, id)
	}
	return "", nil
}

func (s *testSalesmenService) Coverage(ctx context.Context, params salesmen.CoverageParams) (*tablesort.Table, error) {
	if s.coverageFn != nil {
		return s.coverageFn(ctx, params)
	}
	return tablesort.New(nil, nil), nil
}

type testLicensingService struct {
	importFn      func(ctx context.Context, id uuid.UUID) (*licensing.ImportSummary, error)
	importByNPNFn func(ctx context.Context, npn string) (*licensing.ImportSummary, error)
	updateNPNFn   func(ctx context.Context, id uuid.UUID, npn string) (*licensing.ImportSummary, error)
}

func (s *testLicensingService) Import(ctx context.Context, id uuid.UUID) (*licensing.ImportSummary, error) {
	if s.importFn != nil {
		return s.importFn(ctx, id)
	}
	return &licensing.ImportSummary{SalesmanID: id}, nil
}

func (s *testLicensingService) ImportByNPN(ctx context.Context, npn string) (*licensing.ImportSummary, error) {
	if s.importByNPNFn != nil {
		return s.importByNPNFn(ctx, npn)
	}
	return &licensing.ImportSummary{NPN: npn}, nil
}

func (s *testLicensingService) UpdateNPNAndImport(ctx context.Context, id uuid.UUID, npn string) (*licensing.ImportSummary, error) {
	if s.updateNPNFn != nil {
		return s.updateNPNFn(ctx, id, npn)
	}
	return &licensing.ImportSummary{SalesmanID: id, NPN: npn}, nil
}

type testRosterService struct {
	loadFn     func(ctx context.Context, mode enums.RosterMode, body string) (*roster.ImportSummary, error)
	workbookFn func(ctx context.Context, body string) (*roster.ImportSummary, error)
}

func (s *testRosterService) Load(ctx context.Context, mode enums.RosterMode, r io.Reader) (*roster.ImportSummary, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if s.loadFn != nil {
		return s.loadFn(ctx, mode, string(body))
	}
	return &roster.ImportSummary{Mode: mode.String()}, nil
}

func (s *testRosterService) CreateAll(ctx context.Context, r io.Reader) (*roster.ImportSummary, error) {
	return s.Load(ctx, enums.RosterModeCreate, r)
}

func (s *testRosterService) PatchByAssociateOID(ctx context.Context, r io.Reader) (*roster.ImportSummary, error) {
	return s.Load(ctx, enums.RosterModePatch, r)
}

func (s *testRosterService) UpsertByNPN(ctx context.Context, r io.Reader) (*roster.ImportSummary, error) {
	return s.Load(ctx, enums.RosterModeUpsert, r)
}

func (s *testRosterService) ImportWorkbookNPNs(ctx context.Context, r io.Reader) (*roster.ImportSummary, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if s.workbookFn != nil {
		return s.workbookFn(ctx, string(body))
	}
	return &roster.ImportSummary{Mode: "npn_workbook"}, nil
}
