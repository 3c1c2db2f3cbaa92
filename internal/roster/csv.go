package roster

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/agentops/licensetrack/pkg/fieldmap"
)

// auditColumns are timestamp headers carried by exports and never loaded.
var auditColumns = map[string]struct{}{
	"created":      {},
	"last_updated": {},
	"created_at":   {},
	"updated_at":   {},
}

// Sheet is a parsed roster file.
type Sheet struct {
	Header   []string
	Rows     []Row
	Warnings []string
}

// Row maps normalized header names to raw cell values. Line is the 1-based
// line the record starts on.
type Row struct {
	Line   int
	Fields map[string]string
}

// ReadCSV parses a header-first CSV roster. Header names are trimmed and
// lower-cased. Short rows are padded and long rows truncated, each with a
// warning.
func ReadCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(stripUTF8BOM(bufio.NewReader(r)))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "roster file is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read roster header")
	}

	sheet := &Sheet{Header: make([]string, len(header))}
	keep := make([]bool, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, raw := range header {
		name := fieldmap.Normalize(raw)
		sheet.Header[i] = name
		if _, skip := auditColumns[name]; skip || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			sheet.Warnings = append(sheet.Warnings, fmt.Sprintf("duplicate column %q ignored", name))
			continue
		}
		seen[name] = struct{}{}
		keep[i] = true
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read roster row")
		}
		line, _ := reader.FieldPos(0)

		switch {
		case len(record) < len(header):
			sheet.Warnings = append(sheet.Warnings,
				fmt.Sprintf("line %d: %d of %d columns, padded", line, len(record), len(header)))
			record = append(record, make([]string, len(header)-len(record))...)
		case len(record) > len(header):
			sheet.Warnings = append(sheet.Warnings,
				fmt.Sprintf("line %d: %d of %d columns, truncated", line, len(record), len(header)))
			record = record[:len(header)]
		}

		fields := make(map[string]string, len(header))
		for i, value := range record {
			if keep[i] {
				fields[sheet.Header[i]] = value
			}
		}
		sheet.Rows = append(sheet.Rows, Row{Line: line, Fields: fields})
	}
	return sheet, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
