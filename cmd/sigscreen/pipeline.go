package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/carbocation/pfx"

	"github.com/sigscreen/sigscreen/diffact"
	"github.com/sigscreen/sigscreen/expression"
	"github.com/sigscreen/sigscreen/geneset"
	"github.com/sigscreen/sigscreen/report"
	"github.com/sigscreen/sigscreen/selection"
	"github.com/sigscreen/sigscreen/sigmodel"
)

type pipelineConfig struct {
	ExpressionFile string
	ReferenceFile  string
	PhenotypeFile  string
	ModelFile      string
	GMTFile        string
	OutDir         string
	GSEAJar        string
	Java           string
	GSEADir        string
	Label          string
	NFronts        int
	Cutoff         float64
	MinSetSize     int
	MaxSetSize     int
	MinShared      int
	Permutations   int
	GSEATimeout    time.Duration
	KeepWorkDir    bool
}

func runPipeline(cfg pipelineConfig) error {
	started := time.Now()

	// Stage 1: load inputs.
	log.Printf("Loading expression matrix from %s", cfg.ExpressionFile)
	m, err := loadExpression(cfg.ExpressionFile)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d genes x %d samples", m.NGenes(), m.NSamples())

	log.Printf("Loading reference compendium from %s", cfg.ReferenceFile)
	ref, err := loadExpression(cfg.ReferenceFile)
	if err != nil {
		return err
	}
	log.Printf("Loaded reference with %d genes x %d samples", ref.NGenes(), ref.NSamples())

	// A gene with no spread in the reference pins every normalized value to
	// the same quantile, so flag those before normalization.
	summary, err := expression.SummarizeReference(ref)
	if err != nil {
		return err
	}
	flat := 0
	for _, medIQR := range summary {
		if medIQR[1] == 0 {
			flat++
		}
	}
	if flat > 0 {
		log.Printf("%d of %d reference genes have zero interquartile range", flat, len(summary))
	}

	ph, err := expression.ReadPhenotype(cfg.PhenotypeFile)
	if err != nil {
		return err
	}
	if err := ph.Validate(m); err != nil {
		return err
	}
	counts := ph.Counts()
	log.Printf("Phenotype: %s (n=%d) vs %s (n=%d)", ph.Classes[0], counts[0], ph.Classes[1], counts[1])

	// Stage 2: quantile-normalize against the reference.
	normalized, droppedGenes, err := expression.NormalizeToReference(m, ref, expression.DefaultEpsilon)
	if err != nil {
		return err
	}
	if len(droppedGenes) > 0 {
		log.Printf("Dropped %d genes absent from the reference (e.g. %s)", len(droppedGenes), droppedGenes[0])
	}
	log.Printf("Normalized matrix: %d genes x %d samples", normalized.NGenes(), normalized.NSamples())

	// Stage 3: score signature activities from the pretrained model.
	model, err := sigmodel.ReadModel(cfg.ModelFile)
	if err != nil {
		return err
	}
	log.Printf("Model holds %d signatures", len(model.Signatures))

	acts, unscored, err := sigmodel.Activities(model, normalized)
	if err != nil {
		return err
	}
	if len(unscored) > 0 {
		log.Printf("%d signatures had no scoreable genes: %s", len(unscored), strings.Join(unscored, ", "))
	}

	if err := writeActivities(cfg.OutDir, acts); err != nil {
		return err
	}

	// Stage 4: differential activity between the two classes.
	results, err := diffact.TestMatrix(diffact.WelchTester{}, acts, ph)
	if err != nil {
		return err
	}
	if err := report.WriteTSV(filepath.Join(cfg.OutDir, "differential_activity.tsv"), results); err != nil {
		return err
	}
	if err := report.Volcano(filepath.Join(cfg.OutDir, "volcano.png"), results, cfg.Cutoff); err != nil {
		return err
	}
	log.Printf("Tested %d signatures for differential activity", len(results))

	// Stage 5: Pareto selection over effect size and significance.
	cands := make([]selection.Candidate, 0, len(results))
	byID := make(map[string]diffact.Result, len(results))
	for _, res := range results {
		cands = append(cands, selection.Candidate{ID: res.ID, Effect: res.EffectSize, AdjP: res.AdjP})
		byID[res.ID] = res
	}
	selected, excluded, err := selection.SelectFronts(cands, cfg.NFronts)
	if err != nil {
		return err
	}
	if len(excluded) > 0 {
		log.Printf("Excluded %d signatures with non-finite statistics from selection", len(excluded))
	}
	log.Printf("Pareto selection kept %d of %d signatures across %d fronts", len(selected), len(cands), cfg.NFronts)
	if len(selected) == 0 {
		return fmt.Errorf("nothing selected; lower --fronts or inspect %s", filepath.Join(cfg.OutDir, "differential_activity.tsv"))
	}

	// Stage 6: masking analysis over the selected signatures.
	mm, err := buildMaskMatrix(model, normalized, ph, selected, byID)
	if err != nil {
		return err
	}
	if err := writeMaskMatrix(filepath.Join(cfg.OutDir, "masking.tsv"), mm); err != nil {
		return err
	}

	for _, group := range mm.MutualGroups(cfg.Cutoff) {
		log.Printf("Mutual masking group: %s", strings.Join(group, ", "))
	}

	elim, err := selection.Eliminate(mm, cfg.Cutoff)
	if err != nil {
		return err
	}
	log.Printf("Masking retained %d signatures, dropped %d", len(elim.Retained), len(elim.Dropped))
	if err := writeElimination(filepath.Join(cfg.OutDir, "elimination.tsv"), elim); err != nil {
		return err
	}

	if err := writeHistograms(cfg.OutDir, acts, elim.Retained); err != nil {
		return err
	}

	// Stage 7: plots for the retained set.
	retainedActs, err := acts.SubsetGenes(elim.Retained)
	if err != nil {
		return err
	}
	if err := report.Heatmap(filepath.Join(cfg.OutDir, "heatmap.png"), retainedActs, ph); err != nil {
		return err
	}
	if err := report.Network(filepath.Join(cfg.OutDir, "network.png"), model, elim.Retained, cfg.MinShared); err != nil {
		return err
	}

	// Stage 8: pathway annotation of the retained signatures.
	col, err := geneset.ReadGMT(cfg.GMTFile)
	if err != nil {
		return err
	}
	filtered := col.FilterSize(cfg.MinSetSize, cfg.MaxSetSize)
	log.Printf("Gene set database: %d sets, %d within size window [%d, %d]",
		len(col.Names()), len(filtered.Names()), cfg.MinSetSize, cfg.MaxSetSize)

	var retainedSigs []sigmodel.Signature
	for _, name := range elim.Retained {
		sig, ok := model.Signature(name)
		if !ok {
			return pfx.Err(fmt.Errorf("retained signature %q missing from model", name))
		}
		retainedSigs = append(retainedSigs, sig)
	}

	annotation, err := geneset.AnnotateAll(retainedSigs, filtered, normalized.NGenes())
	if err != nil {
		return err
	}
	if err := report.WriteTSV(filepath.Join(cfg.OutDir, "annotation.tsv"), annotation); err != nil {
		return err
	}
	internalNames := significantSetNames(annotation, cfg.Cutoff)
	log.Printf("Annotation found %d gene sets enriched at adjusted p <= %g", len(internalNames), cfg.Cutoff)

	// Stage 9: external GSEA run and comparison.
	if err := gseaStage(cfg, normalized, ph, filtered, internalNames); err != nil {
		return err
	}

	log.Printf("Pipeline finished in %s; outputs under %s", time.Since(started).Round(time.Millisecond), cfg.OutDir)

	return nil
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

func writeActivities(outDir string, acts *expression.Matrix) error {
	f, err := os.Create(filepath.Join(outDir, "activities.gct"))
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	return expression.WriteGCT(f, acts)
}

// writeHistograms prints one text histogram per retained signature's
// activity distribution, the quick-look the case study printed to the
// console.
func writeHistograms(outDir string, acts *expression.Matrix, retained []string) error {
	f, err := os.Create(filepath.Join(outDir, "activity_histograms.txt"))
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	for _, name := range retained {
		vals, err := acts.Row(name)
		if err != nil {
			return err
		}
		if err := report.ActivityHistogram(f, name, vals); err != nil {
			return err
		}
		fmt.Fprintln(f)
	}

	return nil
}

// significantSetNames returns the enriched gene set names, case-folded the
// same way the GSEA report parser folds them so the two lists compare
// directly.
func significantSetNames(annotation []geneset.OverlapResult, cutoff float64) []string {
	seen := make(map[string]bool)
	for _, res := range annotation {
		if res.AdjP <= cutoff {
			seen[strings.ToUpper(res.SetName)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
