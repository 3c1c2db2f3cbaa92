package salesmen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agentops/licensetrack/internal/geography"
	"github.com/agentops/licensetrack/pkg/db"
	"github.com/agentops/licensetrack/pkg/db/models"
	"github.com/agentops/licensetrack/pkg/enums"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/fieldmap"
	pkgpagination "github.com/agentops/licensetrack/pkg/pagination"
	"github.com/agentops/licensetrack/pkg/tablesort"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InputDateLayouts are accepted for date fields on create and update.
var InputDateLayouts = []string{"2006-01-02", "1/2/2006"}

type salesmenRepository interface {
	List(ctx context.Context, q listQuery) ([]models.Salesman, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Salesman, error)
	Create(ctx context.Context, salesman *models.Salesman) error
	Save(ctx context.Context, salesman *models.Salesman) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	UpdateNeededStates(ctx context.Context, id uuid.UUID, needed string) error
	States(ctx context.Context, salesmanID uuid.UUID) ([]models.State, error)
	StateNames(ctx context.Context, salesmanID uuid.UUID) ([]string, error)
	ListActiveWithStateNames(ctx context.Context) ([]models.Salesman, error)
}

// Service exposes the salesman directory.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*Salesman, error)
	Create(ctx context.Context, input Input) (*Salesman, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*Salesman, error)
	Delete(ctx context.Context, id uuid.UUID) error
	States(ctx context.Context, id uuid.UUID) ([]State, error)
	AddNeededStates(ctx context.Context, id uuid.UUID) (string, error)
	Coverage(ctx context.Context, params CoverageParams) (*tablesort.Table, error)
}

type service struct {
	repo salesmenRepository
}

// NewService builds a salesman service backed by the provided repository.
func NewService(repo salesmenRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("salesman repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	sort, err := enums.ParseSalesmanSort(strings.TrimSpace(params.SortedBy))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sorted_by").
			WithDetails(map[string]any{"sorted_by": params.SortedBy, "options": enums.SalesmanSortOptions()})
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	offset := pkgpagination.NormalizeOffset(params.Offset)
	rows, err := s.repo.List(ctx, listQuery{
		terms:             searchTerms(params.SearchQuery),
		positionStartFrom: params.PositionStartFrom,
		sort:              sort,
		limit:             pkgpagination.LimitWithBuffer(params.Limit),
		offset:            offset,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list salesmen")
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	items := make([]Salesman, len(rows))
	for i, row := range rows {
		items[i] = toSalesman(row)
	}
	return &ListResult{
		Items: items,
		Page:  pkgpagination.Page{Limit: limit, Offset: offset, HasMore: hasMore},
		Sort:  sort,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Salesman, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toSalesman(*row)
	return &out, nil
}

func (s *service) Create(ctx context.Context, input Input) (*Salesman, error) {
	row := &models.Salesman{}
	if err := applyInput(row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, mapWriteErr(err, "create salesman")
	}
	out := toSalesman(*row)
	return &out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*Salesman, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyInput(row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, mapWriteErr(err, "update salesman")
	}
	out := toSalesman(*row)
	return &out, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "salesman id is required")
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "salesman not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete salesman")
	}
	return nil
}

func (s *service) States(ctx context.Context, id uuid.UUID) ([]State, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.States(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load states")
	}
	out := make([]State, len(rows))
	for i, row := range rows {
		out[i] = toState(row)
	}
	return out, nil
}

// AddNeededStates stores the jurisdictions the salesman holds no State row for.
func (s *service) AddNeededStates(ctx context.Context, id uuid.UUID) (string, error) {
	if _, err := s.find(ctx, id); err != nil {
		return "", err
	}
	names, err := s.repo.StateNames(ctx, id)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load state names")
	}
	needed := geography.FormatList(geography.MissingJurisdictions(names))
	if err := s.repo.UpdateNeededStates(ctx, id, needed); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store needed states")
	}
	return needed, nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Salesman, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salesman id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "salesman not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup salesman")
	}
	return row, nil
}

func applyInput(row *models.Salesman, in Input) error {
	setText := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setText(&row.FirstName, in.FirstName)
	setText(&row.LastName, in.LastName)
	setText(&row.PositionID, in.PositionID)
	setText(&row.AssociateID, in.AssociateID)
	setText(&row.ADPPositionID, in.ADPPositionID)
	setText(&row.JobTitle, in.JobTitle)
	setText(&row.DepartmentName, in.DepartmentName)
	setText(&row.DepartmentID, in.DepartmentID)
	setText(&row.Trainer, in.Trainer)
	setText(&row.UptrainingClass, in.UptrainingClass)
	setText(&row.AgentSupervisor, in.AgentSupervisor)
	setText(&row.Pod, in.Pod)
	setText(&row.AgentSite, in.AgentSite)
	setText(&row.Client, in.Client)
	setText(&row.Username, in.Username)
	setText(&row.CXPEmployeeID, in.CXPEmployeeID)

	if in.NPN != nil {
		row.NPN = models.StringPtr(strings.TrimSpace(*in.NPN))
	}
	if in.AssociateOID != nil {
		row.AssociateOID = models.StringPtr(strings.TrimSpace(*in.AssociateOID))
	}
	if in.AgentIndicator != nil {
		row.AgentIndicator = *in.AgentIndicator
	}
	if in.ComplianceStatus != nil {
		row.ComplianceStatus = *in.ComplianceStatus
	}

	dates := []struct {
		name string
		src  *string
		dst  **time.Time
	}{
		{"hire_date", in.HireDate, &row.HireDate},
		{"position_start_date", in.PositionStartDate, &row.PositionStart},
		{"class_start_date", in.ClassStartDate, &row.ClassStartDate},
		{"class_end_date", in.ClassEndDate, &row.ClassEndDate},
	}
	for _, d := range dates {
		if d.src == nil {
			continue
		}
		parsed, err := fieldmap.ParseDate(d.name, *d.src, InputDateLayouts...)
		if err != nil {
			return err
		}
		*d.dst = parsed
	}
	return nil
}

func mapWriteErr(err error, msg string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
