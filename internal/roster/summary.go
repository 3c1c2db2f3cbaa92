package roster

import "github.com/google/uuid"

// ImportSummary reports the outcome of one roster run.
type ImportSummary struct {
	Mode     string    `json:"mode"`
	Rows     int       `json:"rows"`
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Skipped  int       `json:"skipped"`
	Imported int       `json:"licensing_imported"`
	Warnings []string  `json:"warnings"`
	Failures []Failure `json:"licensing_failures"`
}

// Failure is a licensing import that did not complete for one row. The row
// itself stays committed.
type Failure struct {
	Line       int       `json:"line"`
	SalesmanID uuid.UUID `json:"salesman_id"`
	NPN        string    `json:"npn"`
	Error      string    `json:"error"`
}

func (s *ImportSummary) warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}
