package salesmen

import (
	"regexp"
	"strings"
	"time"

	"github.com/agentops/licensetrack/pkg/enums"
	pkgpagination "github.com/agentops/licensetrack/pkg/pagination"
)

type ListParams struct {
	SearchQuery       string
	PositionStartFrom *time.Time
	SortedBy          string
	pkgpagination.Params
}

type ListResult struct {
	Items []Salesman         `json:"items"`
	Page  pkgpagination.Page `json:"page"`
	Sort  enums.SalesmanSort `json:"sorted_by"`
}

type listQuery struct {
	terms             []string
	positionStartFrom *time.Time
	sort              enums.SalesmanSort
	limit             int
	offset            int
}

var repeatedWildcards = regexp.MustCompile(`%+`)

// searchTerms splits query on whitespace, maps "*" to "%" and anchors each
// term as a prefix match.
func searchTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		term := strings.ReplaceAll(f, "*", "%") + "%"
		terms = append(terms, repeatedWildcards.ReplaceAllString(term, "%"))
	}
	return terms
}
