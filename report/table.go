// Package report renders the pipeline's human-facing artifacts: TSV tables,
// volcano plots, activity heatmaps, Venn diagrams, signature networks, and
// terminal histograms. Nothing here is part of a programmatic contract.
package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// WriteTSV marshals a slice of annotated row structs to a tab-separated
// file, one report per path.
func WriteTSV(path string, rows interface{}) error {
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})

	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	return pfx.Err(gocsv.Marshal(rows, f))
}
