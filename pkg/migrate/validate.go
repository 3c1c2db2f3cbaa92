package migrate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

const (
	annotationUp    = "-- +goose Up"
	annotationDown  = "-- +goose Down"
	annotationBegin = "-- +goose StatementBegin"
	annotationEnd   = "-- +goose StatementEnd"
)

// ValidateDir checks every .sql file in dir: filename shape, unique versions,
// both goose sections present in order, and balanced statement blocks. All
// problems are reported together.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var errs error
	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}
		if prev, ok := seen[m[1]]; ok {
			errs = multierr.Append(errs, fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name))
		}
		seen[m[1]] = name

		errs = multierr.Append(errs, validateFile(filepath.Join(dir, name)))
	}
	return errs
}

func validateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	var (
		errs     error
		upLine   int
		downLine int
		open     bool
		lineNo   int
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		switch strings.TrimSpace(scanner.Text()) {
		case annotationUp:
			upLine = lineNo
		case annotationDown:
			downLine = lineNo
		case annotationBegin:
			if open {
				errs = multierr.Append(errs, fmt.Errorf("migration %q line %d: nested StatementBegin", name, lineNo))
			}
			open = true
		case annotationEnd:
			if !open {
				errs = multierr.Append(errs, fmt.Errorf("migration %q line %d: StatementEnd without StatementBegin", name, lineNo))
			}
			open = false
		}
	}
	if err := scanner.Err(); err != nil {
		return multierr.Append(errs, fmt.Errorf("read %q: %w", path, err))
	}

	if upLine == 0 {
		errs = multierr.Append(errs, fmt.Errorf("migration %q missing %q", name, annotationUp))
	}
	if downLine == 0 {
		errs = multierr.Append(errs, fmt.Errorf("migration %q missing %q", name, annotationDown))
	}
	if upLine > 0 && downLine > 0 && downLine < upLine {
		errs = multierr.Append(errs, fmt.Errorf("migration %q: Down section precedes Up", name))
	}
	if open {
		errs = multierr.Append(errs, fmt.Errorf("migration %q: unterminated StatementBegin", name))
	}
	return errs
}
