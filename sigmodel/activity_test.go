package sigmodel

import (
	"math"
	"strings"
	"testing"

	"github.com/sigscreen/sigscreen/expression"
)

const testModelTSV = "signature\tgene\tweight\n" +
	"EGFR_UP\tEGFR\t2\n" +
	"EGFR_UP\tMYC\t1\n" +
	"SHARED_SIG\tMYC\t1\n" +
	"SHARED_SIG\tTP53\t1\n" +
	"GHOST\tNOSUCHGENE\t1\n"

func testMatrix() *expression.Matrix {
	m := expression.NewMatrix([]string{"EGFR", "MYC", "TP53"}, []string{"S1", "S2"})
	m.Data[0] = []float64{0.5, 0.9}
	m.Data[1] = []float64{0.5, 0.5}
	m.Data[2] = []float64{0.1, 0.5}
	return m
}

func TestParseModel(t *testing.T) {
	model, err := ParseModel(strings.NewReader(testModelTSV))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := len(model.Signatures), 3; got != want {
		t.Fatalf("signatures: got %d, want %d", got, want)
	}
	if model.Signatures[0].Name != "EGFR_UP" {
		t.Errorf("first signature: got %q, want EGFR_UP", model.Signatures[0].Name)
	}

	sig, ok := model.Signature("SHARED_SIG")
	if !ok || len(sig.Genes) != 2 {
		t.Fatalf("SHARED_SIG lookup failed: ok=%v sig=%+v", ok, sig)
	}
}

func TestActivities(t *testing.T) {
	model, err := ParseModel(strings.NewReader(testModelTSV))
	if err != nil {
		t.Fatal(err)
	}

	acts, unscored, err := Activities(model, testMatrix())
	if err != nil {
		t.Fatal(err)
	}

	if len(unscored) != 1 || unscored[0] != "GHOST" {
		t.Errorf("unscored: got %v, want [GHOST]", unscored)
	}

	// In S1 both EGFR and MYC sit at 0.5, where logit is exactly 0.
	if got := acts.Data[0][0]; got != 0 {
		t.Errorf("EGFR_UP S1: got %v, want 0", got)
	}

	// In S2, EGFR_UP = (2*logit(0.9) + 1*logit(0.5)) / 3.
	want := 2 * math.Log(0.9/0.1) / 3
	if got := acts.Data[0][1]; math.Abs(got-want) > 1e-12 {
		t.Errorf("EGFR_UP S2: got %v, want %v", got, want)
	}

	// GHOST scores NaN everywhere.
	if !math.IsNaN(acts.Data[2][0]) {
		t.Errorf("GHOST S1: got %v, want NaN", acts.Data[2][0])
	}
}

func TestActivitiesRejectsUnnormalized(t *testing.T) {
	model, err := ParseModel(strings.NewReader(testModelTSV))
	if err != nil {
		t.Fatal(err)
	}

	m := expression.NewMatrix([]string{"EGFR"}, []string{"S1"})
	m.Data[0] = []float64{1.5}

	if _, _, err := Activities(model, m); err == nil {
		t.Error("expected error for values outside (0,1)")
	}
}

func TestMarginalActivity(t *testing.T) {
	model, err := ParseModel(strings.NewReader(testModelTSV))
	if err != nil {
		t.Fatal(err)
	}
	m := testMatrix()

	// EGFR_UP shares only MYC with SHARED_SIG, so the marginal activity is
	// EGFR alone: logit(expression of EGFR).
	marginal, err := MarginalActivity(model, m, "EGFR_UP", "SHARED_SIG")
	if err != nil {
		t.Fatal(err)
	}

	want := math.Log(0.9 / 0.1)
	if got := marginal[1]; math.Abs(got-want) > 1e-12 {
		t.Errorf("marginal EGFR_UP S2: got %v, want %v", got, want)
	}

	// Removing a signature's own genes leaves nothing: NaN activity.
	selfMarginal, err := MarginalActivity(model, m, "SHARED_SIG", "SHARED_SIG")
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(selfMarginal[0]) {
		t.Errorf("self-marginal: got %v, want NaN", selfMarginal[0])
	}
}

func TestSharedGenes(t *testing.T) {
	model, err := ParseModel(strings.NewReader(testModelTSV))
	if err != nil {
		t.Fatal(err)
	}

	a, _ := model.Signature("EGFR_UP")
	b, _ := model.Signature("SHARED_SIG")

	shared := a.SharedGenes(b)
	if len(shared) != 1 || shared[0] != "MYC" {
		t.Errorf("shared genes: got %v, want [MYC]", shared)
	}
}
