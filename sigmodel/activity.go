package sigmodel

import (
	"fmt"
	"math"

	"github.com/carbocation/pfx"

	"github.com/sigscreen/sigscreen/expression"
)

// Activities projects a normalized expression matrix onto the model,
// producing a signatures-by-samples activity matrix. The activity of a
// signature in a sample is the weight-normalized sum of logit-transformed
// expression over the signature's genes, which is only defined when the
// matrix lies strictly inside (0,1); Activities refuses matrices that do
// not.
//
// Genes absent from the matrix are skipped. A signature with no usable genes
// scores NaN across all samples; those signature names are returned so the
// caller can report them instead of silently ranking on NaN.
func Activities(model *Model, m *expression.Matrix) (*expression.Matrix, []string, error) {
	if err := m.CheckUnitOpen(); err != nil {
		return nil, nil, err
	}

	acts := expression.NewMatrix(model.Names(), m.Samples)
	var unscored []string

	for i, sig := range model.Signatures {
		row, ok := scoreSignature(sig, m, nil)
		if !ok {
			unscored = append(unscored, sig.Name)
		}
		acts.Data[i] = row
	}

	return acts, unscored, nil
}

// MarginalActivity recomputes signature a's activity after removing the
// genes it shares with signature b. This is the transient quantity that
// drives redundancy elimination: if a's differential significance collapses
// without b's shared genes, a adds nothing over b.
func MarginalActivity(model *Model, m *expression.Matrix, a, b string) ([]float64, error) {
	if err := m.CheckUnitOpen(); err != nil {
		return nil, err
	}

	sigA, ok := model.Signature(a)
	if !ok {
		return nil, pfx.Err(fmt.Errorf("signature %q is not in the model", a))
	}
	sigB, ok := model.Signature(b)
	if !ok {
		return nil, pfx.Err(fmt.Errorf("signature %q is not in the model", b))
	}

	exclude := make(map[string]bool)
	for _, g := range sigA.SharedGenes(sigB) {
		exclude[g] = true
	}

	row, ok := scoreSignature(sigA, m, exclude)
	if !ok {
		// Every informative gene was shared: the marginal signature is empty
		// and its activity is NaN everywhere, which the differential tester
		// reports as non-significant.
		return row, nil
	}

	return row, nil
}

// scoreSignature computes one signature's activity across all samples,
// skipping excluded genes and genes missing from the matrix. ok is false
// when no gene contributed.
func scoreSignature(sig Signature, m *expression.Matrix, exclude map[string]bool) ([]float64, bool) {
	row := make([]float64, m.NSamples())
	var weightSum float64

	for _, gw := range sig.Genes {
		if exclude[gw.Gene] {
			continue
		}

		vals, err := m.Row(gw.Gene)
		if err != nil {
			continue
		}

		w := math.Abs(gw.Weight)
		sign := 1.0
		if gw.Weight < 0 {
			sign = -1
		}
		weightSum += w

		for j, v := range vals {
			row[j] += sign * w * math.Log(v/(1-v))
		}
	}

	if weightSum == 0 {
		for j := range row {
			row[j] = math.NaN()
		}
		return row, false
	}

	for j := range row {
		row[j] /= weightSum
	}

	return row, true
}
