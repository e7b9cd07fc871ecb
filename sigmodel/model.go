// Package sigmodel represents a pretrained gene-signature model and scores
// signature activities against normalized expression matrices.
package sigmodel

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	sigscreen "github.com/sigscreen/sigscreen"
)

// GeneWeight is one weighted gene membership within a signature.
type GeneWeight struct {
	Gene   string
	Weight float64
}

// Signature is a named, weighted gene set from the pretrained model.
type Signature struct {
	Name  string
	Genes []GeneWeight
}

// GeneSymbols returns the member gene symbols in model order.
func (s Signature) GeneSymbols() []string {
	out := make([]string, len(s.Genes))
	for i, gw := range s.Genes {
		out[i] = gw.Gene
	}

	return out
}

// SharedGenes returns the gene symbols present in both signatures, sorted.
func (s Signature) SharedGenes(other Signature) []string {
	mine := make(map[string]bool, len(s.Genes))
	for _, gw := range s.Genes {
		mine[gw.Gene] = true
	}

	var shared []string
	for _, gw := range other.Genes {
		if mine[gw.Gene] {
			shared = append(shared, gw.Gene)
		}
	}
	sort.Strings(shared)

	return shared
}

// Model is an externally trained mapping from genes to weighted signature
// memberships. It is read-only: nothing in this pipeline mutates a Model
// after loading.
type Model struct {
	Signatures []Signature

	byName map[string]int
}

// Signature returns the named signature from the model.
func (m *Model) Signature(name string) (Signature, bool) {
	if m.byName == nil {
		m.byName = make(map[string]int, len(m.Signatures))
		for i, s := range m.Signatures {
			m.byName[s.Name] = i
		}
	}

	i, ok := m.byName[name]
	if !ok {
		return Signature{}, false
	}

	return m.Signatures[i], true
}

// Names returns the signature names in model order.
func (m *Model) Names() []string {
	out := make([]string, len(m.Signatures))
	for i, s := range m.Signatures {
		out[i] = s.Name
	}

	return out
}

// modelRow is the on-disk layout of a model file: one weighted gene
// membership per line, tab-separated.
type modelRow struct {
	Signature string  `csv:"signature"`
	Gene      string  `csv:"gene"`
	Weight    float64 `csv:"weight"`
}

// ReadModel loads a model from a tab-separated file with a
// signature/gene/weight header. Signature order follows first appearance in
// the file.
func ReadModel(path string) (*Model, error) {
	rc, err := sigscreen.OpenMaybeCompressed(sigscreen.ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	return ParseModel(rc)
}

// ParseModel consumes model content from a reader.
func ParseModel(r io.Reader) (*Model, error) {
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(in)
		cr.Comma = '\t'
		cr.LazyQuotes = true
		return cr
	})

	var rows []*modelRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	model := &Model{}
	index := make(map[string]int)

	for _, row := range rows {
		if row.Signature == "" || row.Gene == "" {
			return nil, pfx.Err(fmt.Errorf("model row with empty signature or gene: %+v", *row))
		}

		i, ok := index[row.Signature]
		if !ok {
			i = len(model.Signatures)
			index[row.Signature] = i
			model.Signatures = append(model.Signatures, Signature{Name: row.Signature})
		}

		model.Signatures[i].Genes = append(model.Signatures[i].Genes, GeneWeight{Gene: row.Gene, Weight: row.Weight})
	}

	if len(model.Signatures) == 0 {
		return nil, pfx.Err(fmt.Errorf("model file contains no signatures"))
	}

	return model, nil
}
