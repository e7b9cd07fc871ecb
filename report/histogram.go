package report

import (
	"fmt"
	"io"
	"math"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/pfx"
)

// ActivityHistogram prints a terminal histogram of one signature's activity
// values, the quick QC glance before any plotting happens. NaNs are dropped.
func ActivityHistogram(w io.Writer, name string, vals []float64) error {
	finite := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return pfx.Err(fmt.Errorf("signature %q has no finite activities", name))
	}

	fmt.Fprintf(w, "%s (n=%d):\n", name, len(finite))

	hist := histogram.Hist(9, finite)
	return pfx.Err(histogram.Fprint(w, hist, histogram.Linear(40)))
}
