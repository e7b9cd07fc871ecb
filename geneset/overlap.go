package geneset

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
	fet "github.com/glycerine/golang-fisher-exact"

	"github.com/sigscreen/sigscreen/diffact"
	"github.com/sigscreen/sigscreen/sigmodel"
)

// OverlapResult reports how strongly one signature's gene membership
// overlaps one pathway gene set.
type OverlapResult struct {
	Signature string  `csv:"signature"`
	SetName   string  `csv:"gene_set"`
	Shared    int     `csv:"shared_genes"`
	SigOnly   int     `csv:"signature_only"`
	SetOnly   int     `csv:"set_only"`
	OddsRatio float64 `csv:"odds_ratio"`
	P         float64 `csv:"p_value"`
	AdjP      float64 `csv:"adjusted_p_value"`
}

// Overlap tests the signature's genes against one gene set with Fisher's
// exact test over the 2x2 membership table. universe is the total number of
// genes eligible to appear in either set (typically the scored matrix's gene
// count).
func Overlap(sig sigmodel.Signature, set GeneSet, universe int) (OverlapResult, error) {
	inSig := make(map[string]bool, len(sig.Genes))
	for _, gw := range sig.Genes {
		inSig[gw.Gene] = true
	}
	inSet := make(map[string]bool, len(set.Genes))
	for _, g := range set.Genes {
		inSet[g] = true
	}

	out := OverlapResult{Signature: sig.Name, SetName: set.Name}
	for g := range inSig {
		if inSet[g] {
			out.Shared++
		}
	}
	out.SigOnly = len(inSig) - out.Shared
	out.SetOnly = len(inSet) - out.Shared

	neither := universe - out.Shared - out.SigOnly - out.SetOnly
	if neither < 0 {
		return out, pfx.Err(fmt.Errorf("universe %d smaller than the union of %q and %q", universe, sig.Name, set.Name))
	}

	// FisherExactTest nomenclature:
	//   n11 n12 | shared   signature-only
	//   n21 n22 | set-only neither
	_, _, _, twop := fet.FisherExactTest(out.Shared, out.SigOnly, out.SetOnly, neither)
	out.P = twop

	if out.SigOnly > 0 && out.SetOnly > 0 {
		out.OddsRatio = float64(out.Shared) * float64(neither) /
			(float64(out.SigOnly) * float64(out.SetOnly))
	}

	return out, nil
}

// AnnotateAll tests every (signature, set) pair and applies
// Benjamini-Hochberg correction across the whole table. Rows come back
// sorted by ascending adjusted p, ties broken by signature then set name.
func AnnotateAll(sigs []sigmodel.Signature, col *Collection, universe int) ([]OverlapResult, error) {
	var results []OverlapResult

	for _, sig := range sigs {
		for _, set := range col.Sets {
			res, err := Overlap(sig, set, universe)
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}
	}

	pvals := make([]float64, len(results))
	for i, r := range results {
		pvals[i] = r.P
	}
	adj := diffact.AdjustBH(pvals)
	for i := range results {
		results[i].AdjP = adj[i]
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].AdjP != results[j].AdjP {
			return results[i].AdjP < results[j].AdjP
		}
		if results[i].Signature != results[j].Signature {
			return results[i].Signature < results[j].Signature
		}
		return results[i].SetName < results[j].SetName
	})

	return results, nil
}
