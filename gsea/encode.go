package gsea

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/sigscreen/sigscreen/expression"
	"github.com/sigscreen/sigscreen/geneset"
)

// WriteCLS emits the categorical phenotype file GSEA expects: a counts
// header (samples, classes, 1), a class-name line prefixed with '#', and the
// space-separated per-sample assignments.
func WriteCLS(w io.Writer, ph expression.Phenotype) error {
	if len(ph.Classes) != 2 {
		return pfx.Err(fmt.Errorf("CLS output requires exactly 2 classes, got %d", len(ph.Classes)))
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d %d 1\n", len(ph.Labels), len(ph.Classes))
	fmt.Fprintf(bw, "# %s\n", strings.Join(ph.Classes, " "))
	fmt.Fprintln(bw, strings.Join(ph.Labels, " "))

	return pfx.Err(bw.Flush())
}

// ParseCLS reads a CLS file back into a Phenotype. Used to verify our own
// encoding and to adopt phenotype files written by other tools.
func ParseCLS(r io.Reader) (expression.Phenotype, error) {
	scanner := bufio.NewScanner(r)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return expression.Phenotype{}, pfx.Err(err)
	}
	if len(lines) < 3 {
		return expression.Phenotype{}, pfx.Err(fmt.Errorf("CLS input has %d lines, expected 3", len(lines)))
	}

	counts := strings.Fields(lines[0])
	if len(counts) != 3 {
		return expression.Phenotype{}, pfx.Err(fmt.Errorf("CLS counts line %q malformed", lines[0]))
	}
	nSamples, err := strconv.Atoi(counts[0])
	if err != nil {
		return expression.Phenotype{}, pfx.Err(err)
	}

	labels := strings.Fields(lines[2])
	if len(labels) != nSamples {
		return expression.Phenotype{}, pfx.Err(fmt.Errorf("CLS promises %d samples but assigns %d labels", nSamples, len(labels)))
	}

	return expression.NewPhenotype(labels), nil
}

// WriteExpressionTXT emits the tab-separated expression format GSEA reads: a
// NAME/DESCRIPTION header followed by one row per gene.
func WriteExpressionTXT(w io.Writer, m *expression.Matrix) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "NAME\tDESCRIPTION\t%s\n", strings.Join(m.Samples, "\t"))
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

// WriteInputs serializes the three bridge files into the working directory
// and returns their paths: expression.txt, phenotype.cls, genesets.gmt.
func WriteInputs(wd *WorkDir, m *expression.Matrix, ph expression.Phenotype, col *geneset.Collection) (expr, cls, gmt string, err error) {
	type step struct {
		name  string
		write func(io.Writer) error
	}

	steps := []step{
		{"expression.txt", func(w io.Writer) error { return WriteExpressionTXT(w, m) }},
		{"phenotype.cls", func(w io.Writer) error { return WriteCLS(w, ph) }},
		{"genesets.gmt", func(w io.Writer) error { return geneset.WriteGMT(w, col) }},
	}

	paths := make([]string, len(steps))
	for i, s := range steps {
		f, err := wd.Create(s.name)
		if err != nil {
			return "", "", "", err
		}
		werr := s.write(f)
		cerr := f.Close()
		if werr != nil {
			return "", "", "", werr
		}
		if cerr != nil {
			return "", "", "", pfx.Err(cerr)
		}
		paths[i] = wd.File(s.name)
	}

	return paths[0], paths[1], paths[2], nil
}
