package expression

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/carbocation/pfx"

	sigscreen "github.com/sigscreen/sigscreen"
)

// Phenotype is the ordered list of class labels, one per sample column,
// supplied alongside an expression matrix. Class order is first-seen.
type Phenotype struct {
	Labels  []string
	Classes []string
}

// NewPhenotype builds a Phenotype from ordered labels.
func NewPhenotype(labels []string) Phenotype {
	ph := Phenotype{Labels: labels}

	seen := make(map[string]bool)
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			ph.Classes = append(ph.Classes, l)
		}
	}

	return ph
}

// ReadPhenotype parses labels from a file containing either one label per
// line or a single comma-separated line.
func ReadPhenotype(path string) (Phenotype, error) {
	rc, err := sigscreen.OpenMaybeCompressed(sigscreen.ExpandHome(path))
	if err != nil {
		return Phenotype{}, pfx.Err(err)
	}
	defer rc.Close()

	var labels []string
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.Contains(line, ",") {
			for _, field := range strings.Split(line, ",") {
				labels = append(labels, strings.TrimSpace(field))
			}
			continue
		}

		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return Phenotype{}, pfx.Err(err)
	}

	if len(labels) == 0 {
		return Phenotype{}, pfx.Err(fmt.Errorf("phenotype file %q contains no labels", path))
	}

	return NewPhenotype(labels), nil
}

// Validate confirms that the labels align one-to-one with the matrix sample
// columns and describe exactly two classes. Misalignment here would silently
// scramble every downstream statistic, so it is fatal before any
// computation runs.
func (ph Phenotype) Validate(m *Matrix) error {
	if len(ph.Labels) != m.NSamples() {
		return pfx.Err(fmt.Errorf("phenotype has %d labels but the matrix has %d samples", len(ph.Labels), m.NSamples()))
	}

	if len(ph.Classes) != 2 {
		return pfx.Err(fmt.Errorf("phenotype describes %d classes (%s); exactly 2 are required", len(ph.Classes), strings.Join(ph.Classes, ", ")))
	}

	return nil
}

// ClassColumns returns the column indices belonging to each of the two
// classes, in class order.
func (ph Phenotype) ClassColumns() (first, second []int) {
	for i, l := range ph.Labels {
		if l == ph.Classes[0] {
			first = append(first, i)
		} else {
			second = append(second, i)
		}
	}

	return first, second
}

// Counts returns the number of samples per class, in class order.
func (ph Phenotype) Counts() []int {
	counts := make([]int, len(ph.Classes))
	for _, l := range ph.Labels {
		for ci, c := range ph.Classes {
			if l == c {
				counts[ci]++
				break
			}
		}
	}

	return counts
}
