// Package diffact runs two-group differential-activity tests over a
// signatures-by-samples activity matrix and corrects the resulting p-values
// for multiple testing.
package diffact

import (
	"math"

	"github.com/sigscreen/sigscreen/expression"
)

// Result is one signature's differential test outcome. Results are produced
// fresh by each Test invocation and never mutated afterward.
type Result struct {
	ID         string  `csv:"signature"`
	EffectSize float64 `csv:"effect_size"`
	T          float64 `csv:"t_statistic"`
	DF         float64 `csv:"degrees_of_freedom"`
	P          float64 `csv:"p_value"`
	AdjP       float64 `csv:"adjusted_p_value"`
	N1         int     `csv:"n_class1"`
	N2         int     `csv:"n_class2"`
}

// Tester compares one row of values between the two phenotype classes. It
// is the seam behind which alternate test backends can be swapped without
// touching the selection logic downstream.
type Tester interface {
	Test(id string, values []float64, ph expression.Phenotype) (Result, error)
}

// TestMatrix applies the tester to every row of the activity matrix and
// fills in Benjamini-Hochberg adjusted p-values. The phenotype is validated
// against the matrix before any statistic is computed; misalignment aborts
// the run.
func TestMatrix(t Tester, acts *expression.Matrix, ph expression.Phenotype) ([]Result, error) {
	if err := ph.Validate(acts); err != nil {
		return nil, err
	}

	results := make([]Result, 0, acts.NGenes())
	for i, id := range acts.Genes {
		res, err := t.Test(id, acts.Data[i], ph)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	pvals := make([]float64, len(results))
	for i, r := range results {
		pvals[i] = r.P
	}
	adj := AdjustBH(pvals)
	for i := range results {
		results[i].AdjP = adj[i]
	}

	return results, nil
}

// TestRow is a convenience for testing a single derived vector (such as a
// marginal activity) outside of a full matrix sweep. No multiple-testing
// adjustment is applied; AdjP is copied from P.
func TestRow(t Tester, id string, values []float64, ph expression.Phenotype) (Result, error) {
	res, err := t.Test(id, values, ph)
	if err != nil {
		return Result{}, err
	}
	res.AdjP = res.P

	return res, nil
}

// splitByClass partitions values by phenotype class, dropping NaNs so that
// unscoreable signatures degrade to an empty group rather than poisoning the
// statistics.
func splitByClass(values []float64, ph expression.Phenotype) (g1, g2 []float64) {
	first, second := ph.ClassColumns()

	for _, i := range first {
		if !math.IsNaN(values[i]) {
			g1 = append(g1, values[i])
		}
	}
	for _, i := range second {
		if !math.IsNaN(values[i]) {
			g2 = append(g2, values[i])
		}
	}

	return g1, g2
}
