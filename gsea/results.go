package gsea

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// Result-directory discovery outcomes. Zero matches means the tool still
// needs to run; more than one is an ambiguity the pipeline refuses to
// resolve by guessing.
var (
	ErrNoResults        = errors.New("gsea: no matching result directory")
	ErrAmbiguousResults = errors.New("gsea: multiple matching result directories")
)

// DefaultFDRCutoff filters tool-reported gene sets the same way the internal
// annotation does.
const DefaultFDRCutoff = 0.05

// FindResultDir locates the single result directory the tool produced for
// the given report label under root. GSEA names its output
// "<label>.Gsea.<timestamp>".
func FindResultDir(root, label string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(root, label+".Gsea.*"))
	if err != nil {
		return "", pfx.Err(err)
	}

	var dirs []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return "", pfx.Err(err)
		}
		if info.IsDir() {
			dirs = append(dirs, m)
		}
	}

	switch len(dirs) {
	case 0:
		return "", fmt.Errorf("%w for label %q under %s", ErrNoResults, label, root)
	case 1:
		return dirs[0], nil
	}

	sort.Strings(dirs)
	return "", fmt.Errorf("%w for label %q: %s", ErrAmbiguousResults, label, strings.Join(dirs, ", "))
}

// ReportRow is one gene set from a GSEA per-class report.
type ReportRow struct {
	Name string  `csv:"gene_set"`
	Size int     `csv:"size"`
	ES   float64 `csv:"enrichment_score"`
	NES  float64 `csv:"normalized_enrichment_score"`
	FDR  float64 `csv:"fdr_q_value"`
}

// ReadReport parses the tab-separated per-class report
// (gsea_report_for_<class>_<timestamp>.tsv, .xls in older releases) inside
// the result directory and keeps only rows at or below the FDR cutoff. Set
// names come back case-folded so they compare directly against
// geneset.Collection names.
func ReadReport(dir, class string, fdrCutoff float64) ([]ReportRow, error) {
	path, err := findReportFile(dir, class)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return parseReport(f, fdrCutoff)
}

// findReportFile resolves the per-class report, tolerating both the .tsv and
// legacy .xls suffixes. The same zero/one/many discipline applies as for
// result directories.
func findReportFile(dir, class string) (string, error) {
	var files []string
	for _, pattern := range []string{
		"gsea_report_for_" + class + "_*.tsv",
		"gsea_report_for_" + class + "_*.xls",
	} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return "", pfx.Err(err)
		}
		files = append(files, matches...)
	}

	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: no report for class %q in %s", ErrNoResults, class, dir)
	case 1:
		return files[0], nil
	}

	sort.Strings(files)
	return "", fmt.Errorf("%w: reports for class %q: %s", ErrAmbiguousResults, class, strings.Join(files, ", "))
}

func parseReport(r io.Reader, fdrCutoff float64) ([]ReportRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("report header: %w", err))
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"NAME", "SIZE", "ES", "NES", "FDR Q-VAL"} {
		if _, ok := col[required]; !ok {
			return nil, pfx.Err(fmt.Errorf("report is missing the %q column", required))
		}
	}

	var rows []ReportRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pfx.Err(err)
		}

		row := ReportRow{Name: strings.ToUpper(rec[col["NAME"]])}
		if row.Size, err = strconv.Atoi(rec[col["SIZE"]]); err != nil {
			return nil, pfx.Err(fmt.Errorf("set %q: %w", row.Name, err))
		}
		if row.ES, err = parseReportFloat(rec[col["ES"]]); err != nil {
			return nil, pfx.Err(fmt.Errorf("set %q: %w", row.Name, err))
		}
		if row.NES, err = parseReportFloat(rec[col["NES"]]); err != nil {
			return nil, pfx.Err(fmt.Errorf("set %q: %w", row.Name, err))
		}
		if row.FDR, err = parseReportFloat(rec[col["FDR Q-VAL"]]); err != nil {
			return nil, pfx.Err(fmt.Errorf("set %q: %w", row.Name, err))
		}

		if row.FDR <= fdrCutoff {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// parseReportFloat tolerates the stray "---" GSEA writes for undefined
// statistics, mapping it to NaN; NaN never passes the FDR filter.
func parseReportFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "---" {
		return math.NaN(), nil
	}

	return strconv.ParseFloat(s, 64)
}

// SignificantNames returns the case-folded set names from the rows, sorted.
func SignificantNames(rows []ReportRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	sort.Strings(out)

	return out
}
