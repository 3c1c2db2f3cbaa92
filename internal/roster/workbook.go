package roster

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// NPNColumn is the zero-based workbook column holding the producer number.
const NPNColumn = 3

// legacyCharset is the text encoding requested from the BIFF reader.
const legacyCharset = "utf-8"

// oleSignature opens every compound-document (legacy .xls) file.
var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ReadWorkbookNPNs returns the non-blank NPNs from the first sheet of an XLSX
// or legacy XLS workbook, skipping the header row, keyed by 1-based sheet row.
func ReadWorkbookNPNs(r io.Reader) ([]Row, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read workbook")
	}

	var rows [][]string
	if bytes.HasPrefix(body, oleSignature) {
		rows, err = legacySheetRows(body)
	} else {
		rows, err = xlsxSheetRows(body)
	}
	if err != nil {
		return nil, err
	}

	var out []Row
	for i, cells := range rows {
		if i == 0 {
			continue
		}
		if len(cells) <= NPNColumn {
			continue
		}
		npn := strings.TrimSpace(cells[NPNColumn])
		if npn == "" {
			continue
		}
		out = append(out, Row{Line: i + 1, Fields: map[string]string{"npn": npn}})
	}
	return out, nil
}

func xlsxSheetRows(body []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read workbook rows")
	}
	return rows, nil
}

// legacySheetRows reads the first sheet of a BIFF workbook. Missing rows come
// back empty so row positions match the sheet.
func legacySheetRows(body []byte) (rows [][]string, err error) {
	// The BIFF reader panics on truncated records.
	defer func() {
		if rec := recover(); rec != nil {
			rows, err = nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("open legacy workbook: %v", rec))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(body), legacyCharset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "open legacy workbook")
	}
	if wb.NumSheets() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no sheets")
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		last := row.LastCol()
		if last < NPNColumn {
			last = NPNColumn
		}
		cells := make([]string, 0, last+1)
		for c := 0; c <= last; c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// ImportWorkbookNPNs finds or creates a salesman for every NPN in the
// workbook and runs the licensing import for each. A failed import is
// recorded and the walk continues.
func (s *service) ImportWorkbookNPNs(ctx context.Context, r io.Reader) (summary *ImportSummary, err error) {
	defer s.observe(ctx, workbookMode, &summary, &err)

	if s.importer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "licensing import not configured")
	}
	rows, err := ReadWorkbookNPNs(r)
	if err != nil {
		return nil, err
	}

	summary = &ImportSummary{Mode: workbookMode, Rows: len(rows)}
	for _, row := range rows {
		npn := row.Fields["npn"]
		result, err := s.importer.ImportByNPN(ctx, npn)
		if err != nil {
			summary.Failures = append(summary.Failures, Failure{Line: row.Line, NPN: npn, Error: err.Error()})
			continue
		}
		summary.Imported++
		if result.SalesmanCreated {
			summary.Created++
		} else {
			summary.Updated++
		}
	}
	if summary.Rows == 0 {
		summary.warn(fmt.Sprintf("no NPNs found in column %d", NPNColumn+1))
	}
	return summary, nil
}
