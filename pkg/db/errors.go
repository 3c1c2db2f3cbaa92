package db

import (
	"strings"

	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
)

// IsUniqueViolation reports whether err is a unique constraint failure on
// Postgres or SQLite. A non-empty index name narrows the match to that index,
// e.g. "idx_salesmen_npn".
func IsUniqueViolation(err error, indexName string) bool {
	if !pkgerrors.IsUniqueViolation(err) {
		return false
	}
	if indexName == "" {
		return true
	}
	dump := pkgerrors.Dump(err)
	return dump.PGConstraint == indexName || strings.Contains(dump.TopMessage, indexName)
}
