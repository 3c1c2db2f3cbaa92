package salesmen

import (
	"context"
	"strconv"
	"strings"

	"github.com/agentops/licensetrack/internal/geography"
	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/tablesort"
)

var coverageHeaders = []string{
	"Last Name",
	"First Name",
	"NPN",
	"Site",
	"States Held",
	"Site Gaps",
	"Missing For Site",
}

// CoverageParams selects and orders the coverage report. Column < 0 leaves
// rows in name order; Current is the clicked header's present state.
type CoverageParams struct {
	Site    string
	Column  int
	Current tablesort.Direction
}

// Coverage builds a per-salesman table of held states against site requirements.
func (s *service) Coverage(ctx context.Context, params CoverageParams) (*tablesort.Table, error) {
	rows, err := s.repo.ListActiveWithStateNames(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coverage")
	}

	site := strings.TrimSpace(params.Site)
	body := make([][]tablesort.Cell, 0, len(rows))
	for _, row := range rows {
		if site != "" && !strings.EqualFold(row.AgentSite, site) {
			continue
		}
		held := make([]string, 0, len(row.States))
		for _, st := range row.States {
			held = append(held, st.Name)
		}

		gapCount, gapList := "n/a", ""
		if gaps, ok := geography.SiteGaps(row.AgentSite, held); ok {
			gapCount = strconv.Itoa(len(gaps))
			gapList = geography.FormatList(gaps)
		}

		body = append(body, []tablesort.Cell{
			{Text: row.LastName, SortKey: row.LastName + " " + row.FirstName},
			{Text: row.FirstName},
			{Text: row.NPNValue()},
			{Text: row.AgentSite},
			{Text: strconv.Itoa(len(held))},
			{Text: gapCount},
			{Text: gapList},
		})
	}

	table := tablesort.New(coverageHeaders, body)
	if params.Column < 0 {
		return table, nil
	}
	if params.Column >= len(coverageHeaders) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "column out of range").
			WithDetails(map[string]any{"column": params.Column, "max": len(coverageHeaders) - 1})
	}
	table.Headers[params.Column].State = params.Current
	if _, err := table.Sort(params.Column); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "sort coverage")
	}
	return table, nil
}
