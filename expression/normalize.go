package expression

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/montanaflynn/stats"
)

// DefaultEpsilon keeps normalized values away from the interval boundaries,
// where the downstream logit transform blows up.
const DefaultEpsilon = 1e-4

// NormalizeToReference maps each gene's values onto their empirical quantile
// within the reference compendium's distribution for that same gene. The
// output lies strictly inside (0,1): a value at or below the reference
// minimum lands near 0, at or above the maximum near 1, clamped to
// [eps, 1-eps].
//
// Genes missing from the reference are dropped from the output, and the
// dropped symbols are returned so the caller can report them.
func NormalizeToReference(m, ref *Matrix, eps float64) (*Matrix, []string, error) {
	if eps <= 0 || eps >= 0.5 {
		return nil, nil, pfx.Err(fmt.Errorf("epsilon %v outside (0, 0.5)", eps))
	}

	var genes []string
	var data [][]float64
	var dropped []string

	for i, gene := range m.Genes {
		refRow, err := ref.Row(gene)
		if err != nil {
			dropped = append(dropped, gene)
			continue
		}

		sorted := append([]float64{}, refRow...)
		sort.Float64s(sorted)

		out := make([]float64, m.NSamples())
		for j, v := range m.Data[i] {
			if math.IsNaN(v) {
				return nil, nil, pfx.Err(fmt.Errorf("gene %q, sample %q: NaN input value", gene, m.Samples[j]))
			}
			out[j] = clamp(empiricalQuantile(sorted, v), eps, 1-eps)
		}

		genes = append(genes, gene)
		data = append(data, out)
	}

	if len(genes) == 0 {
		return nil, dropped, pfx.Err(fmt.Errorf("no genes shared between the matrix and the reference compendium"))
	}

	norm := &Matrix{Genes: genes, Samples: m.Samples, Data: data}
	if err := norm.CheckUnitOpen(); err != nil {
		return nil, dropped, err
	}

	return norm, dropped, nil
}

// empiricalQuantile returns the fraction of the sorted reference values that
// fall strictly below v, plus half the ties, which is the mid-rank
// convention.
func empiricalQuantile(sorted []float64, v float64) float64 {
	lo := sort.SearchFloat64s(sorted, v)
	hi := sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })

	return (float64(lo) + float64(hi)) / (2 * float64(len(sorted)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// SummarizeReference reports the median and interquartile range for each
// gene in the reference compendium, for QC logging before normalization.
func SummarizeReference(ref *Matrix) (map[string][2]float64, error) {
	out := make(map[string][2]float64, ref.NGenes())

	for i, gene := range ref.Genes {
		med, err := stats.Median(ref.Data[i])
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("gene %q: %w", gene, err))
		}
		iqr, err := stats.InterQuartileRange(ref.Data[i])
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("gene %q: %w", gene, err))
		}

		out[gene] = [2]float64{med, iqr}
	}

	return out, nil
}
