// Package geography holds the static jurisdiction tables used to judge
// licensing coverage.
package geography

import (
	"sort"
	"strings"
)

var allJurisdictions = []string{
	"AK", "AL", "AR", "AZ", "CA", "CO", "CT", "DC", "DE", "FL",
	"GA", "HI", "IA", "ID", "IL", "IN", "KS", "KY", "LA", "MA",
	"MD", "ME", "MI", "MN", "MO", "MS", "MT", "NC", "ND", "NE",
	"NH", "NJ", "NM", "NV", "NY", "OH", "OK", "OR", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VA", "VT", "WA", "WI", "WV",
	"WY",
}

var justInTimeJurisdictions = []string{
	"AK", "AR", "CA", "CT", "DE", "DC", "FL", "GA", "HI", "ID",
	"IA", "KS", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "NE",
	"NV", "NH", "NJ", "NM", "NY", "NC", "ND", "OK", "SC", "SD",
	"TN", "TX", "VA", "WV", "WY",
}

// Every site currently requires the full just-in-time list.
var siteJurisdictions = map[string][]string{
	"Provo":       justInTimeJurisdictions,
	"Sunrise":     justInTimeJurisdictions,
	"Sandy":       justInTimeJurisdictions,
	"Memphis":     justInTimeJurisdictions,
	"San Antonio": justInTimeJurisdictions,
	"Sawgrass":    justInTimeJurisdictions,
}

// AllJurisdictions returns the 50 states plus DC in table order.
func AllJurisdictions() []string {
	return clone(allJurisdictions)
}

// JustInTimeJurisdictions returns the fast-track jurisdictions.
func JustInTimeJurisdictions() []string {
	return clone(justInTimeJurisdictions)
}

// IsJurisdiction reports whether code is a valid two-letter jurisdiction.
func IsJurisdiction(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, candidate := range allJurisdictions {
		if candidate == code {
			return true
		}
	}
	return false
}

// SiteJurisdictions returns the jurisdictions required of agents at site.
// Site names match case-insensitively.
func SiteJurisdictions(site string) ([]string, bool) {
	site = strings.TrimSpace(site)
	for name, codes := range siteJurisdictions {
		if strings.EqualFold(name, site) {
			return clone(codes), true
		}
	}
	return nil, false
}

// Sites returns the known site names sorted alphabetically.
func Sites() []string {
	out := make([]string, 0, len(siteJurisdictions))
	for name := range siteJurisdictions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MissingJurisdictions returns the codes in the full set that covered lacks,
// in table order.
func MissingJurisdictions(covered []string) []string {
	return subtract(allJurisdictions, covered)
}

// SiteGaps returns the site's required jurisdictions that covered lacks. An
// unknown site reports ok=false.
func SiteGaps(site string, covered []string) ([]string, bool) {
	required, ok := SiteJurisdictions(site)
	if !ok {
		return nil, false
	}
	return subtract(required, covered), true
}

// FormatList joins codes with ", ".
func FormatList(codes []string) string {
	return strings.Join(codes, ", ")
}

func subtract(from, covered []string) []string {
	have := make(map[string]struct{}, len(covered))
	for _, code := range covered {
		have[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}
	out := make([]string, 0, len(from))
	for _, code := range from {
		if _, ok := have[code]; !ok {
			out = append(out, code)
		}
	}
	return out
}

func clone(codes []string) []string {
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}
