// Package selection chooses the interesting signatures from a differential
// test table: first by Pareto dominance over effect size and significance,
// then by eliminating signatures whose significance collapses once a
// correlated partner's shared genes are removed.
package selection

import (
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
)

// Candidate is one signature's position in the two-objective space:
// magnitude of effect (maximize) and corrected p-value (minimize).
type Candidate struct {
	ID     string  `csv:"signature"`
	Effect float64 `csv:"effect_size"`
	AdjP   float64 `csv:"adjusted_p_value"`
}

// dominates reports whether a dominates b: at least as large in |effect|,
// at least as small in corrected p, and strictly better in one of the two.
func dominates(a, b Candidate) bool {
	ae, be := math.Abs(a.Effect), math.Abs(b.Effect)
	if ae < be || a.AdjP > b.AdjP {
		return false
	}

	return ae > be || a.AdjP < b.AdjP
}

// ParetoFronts partitions the finite candidates into dominance layers: layer
// k holds the candidates that are non-dominated once layers 1..k-1 are
// removed. At most nFronts layers are materialized; whatever remains after
// the last requested layer is discarded from the partition but was still
// considered during dominance checks.
//
// Candidates with NaN or infinite statistics are never ranked; they are
// returned in excluded so the caller can report them. Within each layer,
// candidates are ordered by ID, which makes the output independent of input
// order. Duplicate IDs are an error.
func ParetoFronts(cands []Candidate, nFronts int) (fronts [][]Candidate, excluded []Candidate, err error) {
	if nFronts < 1 {
		return nil, nil, pfx.Err(fmt.Errorf("nFronts must be at least 1, got %d", nFronts))
	}

	seen := make(map[string]bool, len(cands))
	var pool []Candidate
	for _, c := range cands {
		if seen[c.ID] {
			return nil, nil, pfx.Err(fmt.Errorf("duplicate candidate %q", c.ID))
		}
		seen[c.ID] = true

		if !finite(c) {
			excluded = append(excluded, c)
			continue
		}
		pool = append(pool, c)
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	sort.Slice(excluded, func(i, j int) bool { return excluded[i].ID < excluded[j].ID })

	for layer := 0; layer < nFronts && len(pool) > 0; layer++ {
		var front, rest []Candidate

		for i, c := range pool {
			dominated := false
			for j, other := range pool {
				if i == j {
					continue
				}
				if dominates(other, c) {
					dominated = true
					break
				}
			}

			if dominated {
				rest = append(rest, c)
			} else {
				front = append(front, c)
			}
		}

		fronts = append(fronts, front)
		pool = rest
	}

	return fronts, excluded, nil
}

// SelectFronts returns the IDs in the union of dominance layers 1..nFronts,
// ordered by ID and free of duplicates.
func SelectFronts(cands []Candidate, nFronts int) (ids []string, excluded []Candidate, err error) {
	fronts, excluded, err := ParetoFronts(cands, nFronts)
	if err != nil {
		return nil, nil, err
	}

	for _, front := range fronts {
		for _, c := range front {
			ids = append(ids, c.ID)
		}
	}
	sort.Strings(ids)

	return ids, excluded, nil
}

func finite(c Candidate) bool {
	for _, v := range []float64{c.Effect, c.AdjP} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
