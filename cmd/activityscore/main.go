// Activityscore computes per-sample signature activity scores from a
// pretrained model and an expression matrix, optionally normalizing the
// matrix against a reference compendium first. Output is GCT so the scores
// feed directly into downstream tools.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/sigscreen/sigscreen/buildinfo"
	"github.com/sigscreen/sigscreen/expression"
	"github.com/sigscreen/sigscreen/report"
	"github.com/sigscreen/sigscreen/sigmodel"
)

func main() {
	buildinfo.Print()

	var (
		expressionFile string
		referenceFile  string
		modelFile      string
		outFile        string
		printHist      bool
	)

	flag.StringVar(&expressionFile, "expression", "", "Expression matrix: GCT 1.2 (*.gct[.gz]) or a delimited genes-by-samples table.")
	flag.StringVar(&referenceFile, "reference", "", "Optional reference compendium; when set, the matrix is quantile-normalized against it before scoring.")
	flag.StringVar(&modelFile, "model", "", "Pretrained signature model: tab-separated signature/gene/weight with a header.")
	flag.StringVar(&outFile, "out", "", "Output GCT path. Defaults to stdout.")
	flag.BoolVar(&printHist, "hist", false, "Print a text histogram of each signature's activity distribution to stderr.")
	flag.Parse()

	if expressionFile == "" || modelFile == "" {
		flag.PrintDefaults()
		return
	}

	m, err := loadExpression(expressionFile)
	if err != nil {
		log.Fatalln(err)
	}

	if referenceFile != "" {
		ref, err := loadExpression(referenceFile)
		if err != nil {
			log.Fatalln(err)
		}

		var dropped []string
		m, dropped, err = expression.NormalizeToReference(m, ref, expression.DefaultEpsilon)
		if err != nil {
			log.Fatalln(err)
		}
		if len(dropped) > 0 {
			log.Printf("Dropped %d genes absent from the reference", len(dropped))
		}
	} else if err := m.CheckUnitOpen(); err != nil {
		log.Fatalln(err)
	}

	model, err := sigmodel.ReadModel(modelFile)
	if err != nil {
		log.Fatalln(err)
	}

	acts, unscored, err := sigmodel.Activities(model, m)
	if err != nil {
		log.Fatalln(err)
	}
	if len(unscored) > 0 {
		log.Printf("%d signatures had no scoreable genes: %s", len(unscored), strings.Join(unscored, ", "))
	}

	if printHist {
		for _, name := range acts.Genes {
			vals, err := acts.Row(name)
			if err != nil {
				log.Fatalln(err)
			}
			if err := report.ActivityHistogram(os.Stderr, name, vals); err != nil {
				log.Fatalln(err)
			}
		}
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			log.Fatalln(err)
		}
		defer f.Close()
		out = f
	}

	if err := expression.WriteGCT(out, acts); err != nil {
		log.Fatalln(err)
	}
}

// loadExpression dispatches on the file extension, tolerating a trailing
// compression suffix.
func loadExpression(path string) (*expression.Matrix, error) {
	base := strings.ToLower(path)
	for _, suffix := range []string{".gz", ".xz", ".zip", ".bz2"} {
		base = strings.TrimSuffix(base, suffix)
	}
	if strings.HasSuffix(base, ".gct") {
		return expression.ReadGCT(path)
	}

	return expression.ReadTable(path)
}
