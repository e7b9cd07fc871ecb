package expression

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"

	sigscreen "github.com/sigscreen/sigscreen"
)

// ReadGCT parses a GCT 1.2 file (optionally gzip/zip/xz compressed): a
// version line, a dimensions line, then a header row of
// Name/Description/sample names followed by one row per gene.
func ReadGCT(path string) (*Matrix, error) {
	rc, err := sigscreen.OpenMaybeCompressed(sigscreen.ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	return ParseGCT(rc)
}

// ParseGCT consumes GCT 1.2 content from a reader.
func ParseGCT(r io.Reader) (*Matrix, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	version, err := cr.Read()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("GCT version line: %w", err))
	}
	if len(version) < 1 || !strings.HasPrefix(version[0], "#1.") {
		return nil, pfx.Err(fmt.Errorf("unrecognized GCT version %q", strings.Join(version, "\t")))
	}

	dims, err := cr.Read()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("GCT dimensions line: %w", err))
	}
	if len(dims) < 2 {
		return nil, pfx.Err(fmt.Errorf("GCT dimensions line has %d fields, expected 2", len(dims)))
	}
	nGenes, err := strconv.Atoi(dims[0])
	if err != nil {
		return nil, pfx.Err(err)
	}
	nSamples, err := strconv.Atoi(dims[1])
	if err != nil {
		return nil, pfx.Err(err)
	}

	header, err := cr.Read()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("GCT header line: %w", err))
	}
	if len(header) != nSamples+2 {
		return nil, pfx.Err(fmt.Errorf("GCT header has %d fields but the dimensions line promises %d samples", len(header), nSamples))
	}

	samples := make([]string, nSamples)
	copy(samples, header[2:])

	genes := make([]string, 0, nGenes)
	data := make([][]float64, 0, nGenes)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pfx.Err(err)
		}
		if len(row) != nSamples+2 {
			return nil, pfx.Err(fmt.Errorf("gene row %q has %d fields, expected %d", row[0], len(row), nSamples+2))
		}

		vals := make([]float64, nSamples)
		for j, field := range row[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("gene %q, sample %q: %w", row[0], samples[j], err))
			}
			vals[j] = v
		}

		genes = append(genes, row[0])
		data = append(data, vals)
	}

	if len(genes) != nGenes {
		return nil, pfx.Err(fmt.Errorf("GCT promises %d genes but contains %d", nGenes, len(genes)))
	}

	m := &Matrix{Genes: genes, Samples: samples, Data: data}
	return m, m.CheckShape()
}

// WriteGCT emits the matrix in GCT 1.2 format. Descriptions are written as
// "na", which every downstream consumer tolerates.
func WriteGCT(w io.Writer, m *Matrix) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "#1.2")
	fmt.Fprintf(bw, "%d\t%d\n", m.NGenes(), m.NSamples())
	fmt.Fprintf(bw, "Name\tDescription\t%s\n", strings.Join(m.Samples, "\t"))

	for i, gene := range m.Genes {
		fields := make([]string, 0, m.NSamples()+2)
		fields = append(fields, gene, "na")
		for _, v := range m.Data[i] {
			fields = append(fields, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, "\t")); err != nil {
			return pfx.Err(err)
		}
	}

	return pfx.Err(bw.Flush())
}

// ReadTable reads a delimited gene-by-sample table whose first column holds
// gene identifiers and whose first row holds sample names. The delimiter is
// sniffed rather than assumed.
func ReadTable(path string) (*Matrix, error) {
	rc, err := sigscreen.OpenMaybeCompressed(sigscreen.ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := sigscreen.DetermineDelimiter(strings.NewReader(string(content)))

	cr := csv.NewReader(strings.NewReader(string(content)))
	cr.Comma = delim
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, pfx.Err(err)
	}
	if len(header) < 2 {
		return nil, pfx.Err(fmt.Errorf("table header has %d fields; need a gene column plus at least one sample", len(header)))
	}

	samples := make([]string, len(header)-1)
	copy(samples, header[1:])

	var genes []string
	var data [][]float64

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pfx.Err(err)
		}
		if len(row) != len(samples)+1 {
			return nil, pfx.Err(fmt.Errorf("row %q has %d fields, expected %d", row[0], len(row), len(samples)+1))
		}

		vals := make([]float64, len(samples))
		for j, field := range row[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("gene %q, sample %q: %w", row[0], samples[j], err))
			}
			vals[j] = v
		}

		genes = append(genes, row[0])
		data = append(data, vals)
	}

	m := &Matrix{Genes: genes, Samples: samples, Data: data}
	return m, m.CheckShape()
}
