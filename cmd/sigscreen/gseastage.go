package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sigscreen/sigscreen/expression"
	"github.com/sigscreen/sigscreen/geneset"
	"github.com/sigscreen/sigscreen/gsea"
	"github.com/sigscreen/sigscreen/report"
)

// gseaStage compares the internal annotation against an external GSEA run.
// A single cached result directory is reused as-is; when none exists the
// tool is launched (if a jar was provided); more than one match is an
// ambiguity the pipeline refuses to resolve by guessing.
func gseaStage(cfg pipelineConfig, m *expression.Matrix, ph expression.Phenotype, col *geneset.Collection, internalNames []string) error {
	wd, err := gsea.NewWorkDir(cfg.GSEADir)
	if err != nil {
		return err
	}
	if !cfg.KeepWorkDir {
		defer wd.Cleanup()
	}

	dir, err := gsea.FindResultDir(wd.Path, cfg.Label)
	switch {
	case err == nil:
		log.Printf("Reusing cached GSEA results in %s", dir)
	case errors.Is(err, gsea.ErrNoResults):
		if cfg.GSEAJar == "" {
			log.Println("No cached GSEA results and no --gseajar given; skipping the GSEA comparison")
			return nil
		}
		dir, err = launchGSEA(cfg, wd, m, ph, col)
		if err != nil {
			return err
		}
	default:
		return err
	}

	toolNames, err := toolSignificantNames(dir, ph, cfg.Cutoff)
	if err != nil {
		return err
	}

	counts, err := report.Venn(filepath.Join(cfg.OutDir, "venn.png"), "internal", "GSEA", internalNames, toolNames)
	if err != nil {
		return err
	}
	log.Printf("Internal vs GSEA: %d internal-only, %d shared, %d GSEA-only",
		counts.LeftOnly, counts.Shared, counts.RightOnly)
	if shared := report.SharedMembers(internalNames, toolNames); len(shared) > 0 {
		log.Printf("Gene sets found by both approaches: %s", strings.Join(shared, ", "))
	}

	return writeComparison(filepath.Join(cfg.OutDir, "comparison.tsv"), internalNames, toolNames)
}

func launchGSEA(cfg pipelineConfig, wd *gsea.WorkDir, m *expression.Matrix, ph expression.Phenotype, col *geneset.Collection) (string, error) {
	expr, cls, gmt, err := gsea.WriteInputs(wd, m, ph, col)
	if err != nil {
		return "", err
	}

	runner := gsea.Runner{Java: cfg.Java, JarPath: cfg.GSEAJar, Timeout: cfg.GSEATimeout}
	runCfg := gsea.Config{
		ExpressionPath: expr,
		CLSPath:        cls,
		GMTPath:        gmt,
		OutDir:         wd.Path,
		Label:          cfg.Label,
		Permutations:   cfg.Permutations,
	}

	log.Printf("Launching GSEA (%d permutations, timeout %s)", cfg.Permutations, cfg.GSEATimeout)
	if err := runner.Run(context.Background(), runCfg); err != nil {
		return "", err
	}

	dir, err := gsea.FindResultDir(wd.Path, cfg.Label)
	if err != nil {
		return "", fmt.Errorf("gsea finished but its result directory could not be resolved: %w", err)
	}
	log.Printf("GSEA results in %s", dir)

	return dir, nil
}

// toolSignificantNames unions the FDR-passing gene sets from both per-class
// reports.
func toolSignificantNames(dir string, ph expression.Phenotype, cutoff float64) ([]string, error) {
	seen := make(map[string]bool)
	for _, class := range ph.Classes {
		rows, err := gsea.ReadReport(dir, class, cutoff)
		if err != nil {
			return nil, err
		}
		log.Printf("GSEA reports %d sets enriched in %s at FDR <= %g", len(rows), class, cutoff)
		for _, name := range gsea.SignificantNames(rows) {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

type comparisonRow struct {
	SetName  string `csv:"gene_set"`
	Internal bool   `csv:"internal_significant"`
	External bool   `csv:"gsea_significant"`
}

func writeComparison(path string, internalNames, toolNames []string) error {
	internal := make(map[string]bool, len(internalNames))
	for _, name := range internalNames {
		internal[name] = true
	}
	external := make(map[string]bool, len(toolNames))
	for _, name := range toolNames {
		external[name] = true
	}

	union := make(map[string]bool, len(internal)+len(external))
	for name := range internal {
		union[name] = true
	}
	for name := range external {
		union[name] = true
	}

	var rows []comparisonRow
	for name := range union {
		rows = append(rows, comparisonRow{SetName: name, Internal: internal[name], External: external[name]})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SetName < rows[j].SetName })

	return report.WriteTSV(path, rows)
}
