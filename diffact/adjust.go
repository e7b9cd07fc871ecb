package diffact

import "sort"

// AdjustBH applies the Benjamini-Hochberg step-up correction, returning the
// adjusted p-values in the input order. Matches R's p.adjust(method="BH").
func AdjustBH(pvals []float64) []float64 {
	n := len(pvals)
	if n == 0 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return pvals[idx[i]] < pvals[idx[j]]
	})

	adj := make([]float64, n)
	minP := 1.0
	for i := n - 1; i >= 0; i-- {
		orig := idx[i]
		a := pvals[orig] * float64(n) / float64(i+1)
		if a > 1 {
			a = 1
		}
		if a < minP {
			minP = a
		} else {
			a = minP
		}
		adj[orig] = a
	}

	return adj
}
