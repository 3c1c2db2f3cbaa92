package enums

import "fmt"

// SalesmanSort enumerates the sorted_by options accepted by the salesman list.
type SalesmanSort string

const (
	SalesmanSortCreatedAtAsc          SalesmanSort = "created_at_asc"
	SalesmanSortCreatedAtDesc         SalesmanSort = "created_at_desc"
	SalesmanSortPositionStartDateAsc  SalesmanSort = "position_start_date_asc"
	SalesmanSortPositionStartDateDesc SalesmanSort = "position_start_date_desc"
	SalesmanSortLastNameAsc           SalesmanSort = "last_name_asc"
	SalesmanSortLastNameDesc          SalesmanSort = "last_name_desc"
	SalesmanSortFirstNameAsc          SalesmanSort = "first_name_asc"
	SalesmanSortFirstNameDesc         SalesmanSort = "first_name_desc"
	SalesmanSortSiteAsc               SalesmanSort = "site_asc"
	SalesmanSortSiteDesc              SalesmanSort = "site_desc"
)

// DefaultSalesmanSort is applied when no sorted_by option is supplied.
const DefaultSalesmanSort = SalesmanSortCreatedAtDesc

var validSalesmanSorts = []SalesmanSort{
	SalesmanSortCreatedAtAsc,
	SalesmanSortCreatedAtDesc,
	SalesmanSortPositionStartDateAsc,
	SalesmanSortPositionStartDateDesc,
	SalesmanSortLastNameAsc,
	SalesmanSortLastNameDesc,
	SalesmanSortFirstNameAsc,
	SalesmanSortFirstNameDesc,
	SalesmanSortSiteAsc,
	SalesmanSortSiteDesc,
}

// String implements fmt.Stringer.
func (s SalesmanSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a supported sort option.
func (s SalesmanSort) IsValid() bool {
	for _, candidate := range validSalesmanSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// OrderClause renders the ORDER BY expression for the option.
func (s SalesmanSort) OrderClause() string {
	switch s {
	case SalesmanSortCreatedAtAsc:
		return "salesmen.created_at ASC"
	case SalesmanSortPositionStartDateAsc:
		return "salesmen.position_start_date ASC"
	case SalesmanSortPositionStartDateDesc:
		return "salesmen.position_start_date DESC"
	case SalesmanSortLastNameAsc:
		return "LOWER(salesmen.last_name) ASC, LOWER(salesmen.first_name) ASC"
	case SalesmanSortLastNameDesc:
		return "LOWER(salesmen.last_name) DESC, LOWER(salesmen.first_name) DESC"
	case SalesmanSortFirstNameAsc:
		return "LOWER(salesmen.first_name) ASC"
	case SalesmanSortFirstNameDesc:
		return "LOWER(salesmen.first_name) DESC"
	case SalesmanSortSiteAsc:
		return "LOWER(salesmen.agent_site) ASC"
	case SalesmanSortSiteDesc:
		return "LOWER(salesmen.agent_site) DESC"
	default:
		return "salesmen.created_at DESC"
	}
}

// SalesmanSortOptions returns the supported options in display order.
func SalesmanSortOptions() []SalesmanSort {
	out := make([]SalesmanSort, len(validSalesmanSorts))
	copy(out, validSalesmanSorts)
	return out
}

// ParseSalesmanSort converts raw input into SalesmanSort. Empty input yields the default.
func ParseSalesmanSort(value string) (SalesmanSort, error) {
	if value == "" {
		return DefaultSalesmanSort, nil
	}
	for _, candidate := range validSalesmanSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort option %q", value)
}
