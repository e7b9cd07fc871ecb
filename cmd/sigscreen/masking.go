package main

import (
	"github.com/sigscreen/sigscreen/diffact"
	"github.com/sigscreen/sigscreen/expression"
	"github.com/sigscreen/sigscreen/report"
	"github.com/sigscreen/sigscreen/selection"
	"github.com/sigscreen/sigscreen/sigmodel"
)

// buildMaskMatrix fills the pairwise masking table for the selected
// signatures. The diagonal carries each signature's adjusted p from the main
// differential test; off-diagonal cells re-test each signature after
// removing the genes it shares with one partner, with Benjamini-Hochberg
// correction pooled across all marginal tests.
func buildMaskMatrix(model *sigmodel.Model, m *expression.Matrix, ph expression.Phenotype, selected []string, byID map[string]diffact.Result) (*selection.MaskMatrix, error) {
	mm := selection.NewMaskMatrix()
	for _, id := range selected {
		mm.Set(id, id, byID[id].AdjP)
	}

	type cell struct {
		sig, removed string
	}

	var cells []cell
	var raw []float64
	tester := diffact.WelchTester{}
	for _, a := range selected {
		for _, b := range selected {
			if a == b {
				continue
			}

			vals, err := sigmodel.MarginalActivity(model, m, a, b)
			if err != nil {
				return nil, err
			}
			res, err := diffact.TestRow(tester, a, vals, ph)
			if err != nil {
				return nil, err
			}

			cells = append(cells, cell{sig: a, removed: b})
			raw = append(raw, res.P)
		}
	}

	for i, adj := range diffact.AdjustBH(raw) {
		mm.Set(cells[i].sig, cells[i].removed, adj)
	}

	return mm, nil
}

type maskRow struct {
	Signature string  `csv:"signature"`
	Removed   string  `csv:"removed_partner"`
	AdjP      float64 `csv:"adjusted_p_value"`
}

func writeMaskMatrix(path string, mm *selection.MaskMatrix) error {
	var rows []maskRow
	for _, sig := range mm.IDs() {
		for _, removed := range mm.IDs() {
			p, ok := mm.Get(sig, removed)
			if !ok {
				continue
			}
			rows = append(rows, maskRow{Signature: sig, Removed: removed, AdjP: p})
		}
	}

	return report.WriteTSV(path, rows)
}

type eliminationRow struct {
	Signature string `csv:"signature"`
	Status    string `csv:"status"`
	MaskedBy  string `csv:"masked_by"`
}

func writeElimination(path string, elim selection.Elimination) error {
	var rows []eliminationRow
	for _, id := range elim.Retained {
		rows = append(rows, eliminationRow{Signature: id, Status: "retained"})
	}
	for _, id := range elim.Dropped {
		rows = append(rows, eliminationRow{Signature: id, Status: "dropped", MaskedBy: elim.MaskedBy[id]})
	}

	return report.WriteTSV(path, rows)
}
