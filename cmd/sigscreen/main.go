// Sigscreen runs the full signature screening pipeline over one experiment:
// it loads and normalizes an expression matrix against a reference
// compendium, scores per-sample signature activities from a pretrained
// model, tests for differential activity between the two phenotype classes,
// selects interesting signatures by Pareto dominance, eliminates redundant
// signatures via masking analysis, annotates the survivors against a gene
// set database, and compares the findings with an external GSEA run.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sigscreen/sigscreen/buildinfo"
)

func main() {
	buildinfo.Print()

	var (
		expressionFile string
		referenceFile  string
		phenotypeFile  string
		modelFile      string
		gmtFile        string
		outDir         string
		gseaJar        string
		javaPath       string
		gseaDir        string
		label          string
		nFronts        int
		cutoff         float64
		minSetSize     int
		maxSetSize     int
		minShared      int
		permutations   int
		gseaTimeout    time.Duration
		keepWorkDir    bool
	)

	flag.StringVar(&expressionFile, "expression", "", "Expression matrix: GCT 1.2 (*.gct[.gz]) or a delimited genes-by-samples table.")
	flag.StringVar(&referenceFile, "reference", "", "Reference expression compendium used for quantile normalization, same formats as --expression.")
	flag.StringVar(&phenotypeFile, "phenotype", "", "Phenotype labels, one per sample column, one per line (or a single comma-separated line).")
	flag.StringVar(&modelFile, "model", "", "Pretrained signature model: tab-separated signature/gene/weight with a header.")
	flag.StringVar(&gmtFile, "genesets", "", "Gene set database in GMT format for pathway annotation.")
	flag.StringVar(&outDir, "out", "sigscreen_out", "Directory for tables and plots; created if absent.")
	flag.StringVar(&gseaJar, "gseajar", "", "Optional path to gsea.jar. When unset, the GSEA comparison only runs against a cached result directory.")
	flag.StringVar(&javaPath, "java", "java", "Path to the java executable used to launch GSEA.")
	flag.StringVar(&gseaDir, "gseadir", "", "Working directory for the GSEA bridge. Defaults to <out>/gsea.")
	flag.StringVar(&label, "label", "sigscreen", "Report label passed to GSEA; also used to locate cached results.")
	flag.IntVar(&nFronts, "fronts", 3, "Number of Pareto dominance layers to keep during selection.")
	flag.Float64Var(&cutoff, "cutoff", 0.05, "Adjusted p-value cutoff used for masking, annotation, and the GSEA comparison.")
	flag.IntVar(&minSetSize, "minset", 15, "Minimum gene set size retained from the gene set database.")
	flag.IntVar(&maxSetSize, "maxset", 500, "Maximum gene set size retained from the gene set database.")
	flag.IntVar(&minShared, "minshared", 3, "Minimum shared gene count for a signature network edge.")
	flag.IntVar(&permutations, "nperm", 1000, "Phenotype permutations requested from GSEA.")
	flag.DurationVar(&gseaTimeout, "gseatimeout", 30*time.Minute, "Hard deadline for the GSEA subprocess.")
	flag.BoolVar(&keepWorkDir, "keepworkdir", true, "Keep the GSEA bridge working directory after the run.")
	flag.Parse()

	if expressionFile == "" || referenceFile == "" || phenotypeFile == "" || modelFile == "" || gmtFile == "" {
		flag.PrintDefaults()
		return
	}

	if gseaDir == "" {
		gseaDir = filepath.Join(outDir, "gsea")
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalln(err)
	}

	cfg := pipelineConfig{
		ExpressionFile: expressionFile,
		ReferenceFile:  referenceFile,
		PhenotypeFile:  phenotypeFile,
		ModelFile:      modelFile,
		GMTFile:        gmtFile,
		OutDir:         outDir,
		GSEAJar:        gseaJar,
		Java:           javaPath,
		GSEADir:        gseaDir,
		Label:          label,
		NFronts:        nFronts,
		Cutoff:         cutoff,
		MinSetSize:     minSetSize,
		MaxSetSize:     maxSetSize,
		MinShared:      minShared,
		Permutations:   permutations,
		GSEATimeout:    gseaTimeout,
		KeepWorkDir:    keepWorkDir,
	}

	if err := runPipeline(cfg); err != nil {
		log.Fatalln(err)
	}
}
