package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sigscreen/sigscreen/geneset"
	"github.com/sigscreen/sigscreen/report"
)

func TestSignificantSetNamesCaseFolding(t *testing.T) {
	// GMT databases carry mixed-case set names while the GSEA reports come
	// back upper-cased; both sides of the comparison must fold the same way.
	annotation := []geneset.OverlapResult{
		{Signature: "SIG_A", SetName: "Apoptosis_Pathway", AdjP: 0.01},
		{Signature: "SIG_A", SetName: "Cell_Cycle", AdjP: 0.5},
		{Signature: "SIG_B", SetName: "APOPTOSIS_PATHWAY", AdjP: 0.02},
	}

	names := significantSetNames(annotation, 0.05)
	assert.Equal(t, []string{"APOPTOSIS_PATHWAY"}, names)

	counts := report.CountVenn(names, []string{"APOPTOSIS_PATHWAY"})
	assert.Equal(t, report.VennCounts{LeftOnly: 0, Shared: 1, RightOnly: 0}, counts)
}
