// Package expression loads and normalizes gene expression matrices and the
// phenotype labels that accompany them.
package expression

import (
	"fmt"
	"math"

	"github.com/carbocation/pfx"
)

// Matrix is a genes-by-samples expression table. Rows correspond to Genes and
// columns to Samples. After loading, a Matrix is treated as immutable input
// to the downstream stages; derived matrices are always fresh allocations.
type Matrix struct {
	Genes   []string
	Samples []string
	Data    [][]float64

	geneIndex map[string]int
}

// NewMatrix allocates a Matrix with the given row and column labels and a
// zeroed data block.
func NewMatrix(genes, samples []string) *Matrix {
	data := make([][]float64, len(genes))
	for i := range data {
		data[i] = make([]float64, len(samples))
	}

	return &Matrix{Genes: genes, Samples: samples, Data: data}
}

// GeneRow returns the row index for a gene symbol.
func (m *Matrix) GeneRow(gene string) (int, bool) {
	if m.geneIndex == nil {
		m.geneIndex = make(map[string]int, len(m.Genes))
		for i, g := range m.Genes {
			m.geneIndex[g] = i
		}
	}

	row, ok := m.geneIndex[gene]
	return row, ok
}

// NGenes returns the number of rows.
func (m *Matrix) NGenes() int { return len(m.Genes) }

// NSamples returns the number of columns.
func (m *Matrix) NSamples() int { return len(m.Samples) }

// Row returns the named gene's values across all samples, or an error if the
// gene is absent.
func (m *Matrix) Row(gene string) ([]float64, error) {
	i, ok := m.GeneRow(gene)
	if !ok {
		return nil, pfx.Err(fmt.Errorf("gene %q is not present in the matrix", gene))
	}

	return m.Data[i], nil
}

// SubsetGenes returns a new matrix containing only the named rows, in the
// given order. Data rows are shared, not copied, in keeping with the
// immutable-after-load convention.
func (m *Matrix) SubsetGenes(names []string) (*Matrix, error) {
	out := &Matrix{Genes: names, Samples: m.Samples}

	for _, name := range names {
		row, err := m.Row(name)
		if err != nil {
			return nil, err
		}
		out.Data = append(out.Data, row)
	}

	return out, nil
}

// CheckShape verifies that every row has exactly one value per sample.
func (m *Matrix) CheckShape() error {
	if len(m.Data) != len(m.Genes) {
		return pfx.Err(fmt.Errorf("matrix has %d gene labels but %d data rows", len(m.Genes), len(m.Data)))
	}

	for i, row := range m.Data {
		if len(row) != len(m.Samples) {
			return pfx.Err(fmt.Errorf("gene %q has %d values but the matrix has %d samples", m.Genes[i], len(row), len(m.Samples)))
		}
	}

	return nil
}

// CheckUnitOpen verifies that every value lies strictly inside (0,1). The
// logit transform in the activity scorer is undefined at the boundaries, so
// scoring refuses matrices that fail this check.
func (m *Matrix) CheckUnitOpen() error {
	for i, row := range m.Data {
		for j, v := range row {
			if math.IsNaN(v) || v <= 0 || v >= 1 {
				return pfx.Err(fmt.Errorf("value %v for gene %q, sample %q is outside the open unit interval", v, m.Genes[i], m.Samples[j]))
			}
		}
	}

	return nil
}
