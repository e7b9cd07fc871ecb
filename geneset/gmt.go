// Package geneset reads pathway gene set databases in GMT format and
// annotates signatures against them by gene overlap.
package geneset

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/carbocation/pfx"

	sigscreen "github.com/sigscreen/sigscreen"
)

// GeneSet is one named pathway or ontology term.
type GeneSet struct {
	Name        string
	Description string
	Genes       []string
}

// Collection preserves gene sets in file order. Set-name lookups are
// case-folded because the external enrichment tool upper-cases set names in
// its reports, while curated databases mix cases freely.
type Collection struct {
	Sets []GeneSet

	folded map[string]int
}

// ReadGMT loads a GMT file: one set per line, tab-separated, with the set
// name in column one, a description in column two, and member genes after.
func ReadGMT(path string) (*Collection, error) {
	rc, err := sigscreen.OpenMaybeCompressed(sigscreen.ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	return ParseGMT(rc)
}

// ParseGMT consumes GMT content from a reader.
func ParseGMT(r io.Reader) (*Collection, error) {
	col := &Collection{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, pfx.Err(fmt.Errorf("GMT line %d has %d fields; need name, description, and at least one gene", lineNo, len(fields)))
		}

		set := GeneSet{Name: fields[0], Description: fields[1]}
		for _, g := range fields[2:] {
			if g != "" {
				set.Genes = append(set.Genes, g)
			}
		}
		if len(set.Genes) == 0 {
			return nil, pfx.Err(fmt.Errorf("GMT line %d (%q) lists no genes", lineNo, set.Name))
		}

		col.Sets = append(col.Sets, set)
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	if len(col.Sets) == 0 {
		return nil, pfx.Err(fmt.Errorf("GMT input contains no gene sets"))
	}

	return col, nil
}

// WriteGMT emits the collection in GMT format. Empty descriptions are
// written as "na" so that strict consumers always see three columns.
func WriteGMT(w io.Writer, col *Collection) error {
	bw := bufio.NewWriter(w)

	for _, set := range col.Sets {
		desc := set.Description
		if desc == "" {
			desc = "na"
		}
		fields := append([]string{set.Name, desc}, set.Genes...)
		if _, err := fmt.Fprintln(bw, strings.Join(fields, "\t")); err != nil {
			return pfx.Err(err)
		}
	}

	return pfx.Err(bw.Flush())
}

// FilterSize returns a new collection containing only sets whose gene count
// lies within [min, max].
func (c *Collection) FilterSize(min, max int) *Collection {
	out := &Collection{}
	for _, set := range c.Sets {
		if n := len(set.Genes); n >= min && n <= max {
			out.Sets = append(out.Sets, set)
		}
	}

	return out
}

// Lookup finds a set by case-folded name.
func (c *Collection) Lookup(name string) (GeneSet, bool) {
	if c.folded == nil {
		c.folded = make(map[string]int, len(c.Sets))
		for i, set := range c.Sets {
			c.folded[strings.ToUpper(set.Name)] = i
		}
	}

	i, ok := c.folded[strings.ToUpper(name)]
	if !ok {
		return GeneSet{}, false
	}

	return c.Sets[i], true
}

// Names returns case-folded set names, sorted, for set-level comparison with
// external tool output.
func (c *Collection) Names() []string {
	out := make([]string, len(c.Sets))
	for i, set := range c.Sets {
		out[i] = strings.ToUpper(set.Name)
	}
	sort.Strings(out)

	return out
}

// Membership returns a case-folded set name -> gene set mapping for
// round-trip comparisons.
func (c *Collection) Membership() map[string][]string {
	out := make(map[string][]string, len(c.Sets))
	for _, set := range c.Sets {
		genes := append([]string{}, set.Genes...)
		sort.Strings(genes)
		out[strings.ToUpper(set.Name)] = genes
	}

	return out
}
