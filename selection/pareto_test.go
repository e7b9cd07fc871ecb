package selection

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
)

func testCandidates() []Candidate {
	return []Candidate{
		{ID: "SIG_A", Effect: 2.0, AdjP: 0.001}, // dominates everything: layer 1
		{ID: "SIG_B", Effect: -1.5, AdjP: 0.01},
		{ID: "SIG_C", Effect: 1.0, AdjP: 0.002},
		{ID: "SIG_D", Effect: 0.5, AdjP: 0.04},
		{ID: "SIG_E", Effect: 0.2, AdjP: 0.5},
		{ID: "SIG_F", Effect: math.NaN(), AdjP: 0.01},
		{ID: "SIG_G", Effect: 1.0, AdjP: math.Inf(1)},
	}
}

func TestParetoFrontsPartition(t *testing.T) {
	cands := testCandidates()

	fronts, excluded, err := ParetoFronts(cands, len(cands))
	if err != nil {
		t.Fatal(err)
	}

	if len(excluded) != 2 {
		t.Fatalf("excluded: got %v, want SIG_F and SIG_G", excluded)
	}

	// Layers must partition the finite candidates exactly.
	seen := make(map[string]int)
	total := 0
	for _, front := range fronts {
		for _, c := range front {
			seen[c.ID]++
			total++
		}
	}
	if total != 5 {
		t.Errorf("partition covers %d candidates, want 5", total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("candidate %s appears in %d layers", id, n)
		}
	}

	// SIG_A dominates all finite candidates, so layer 1 is exactly {SIG_A}.
	if len(fronts[0]) != 1 || fronts[0][0].ID != "SIG_A" {
		t.Errorf("layer 1: got %v, want [SIG_A]", fronts[0])
	}
}

func TestSelectFrontsMonotonic(t *testing.T) {
	cands := testCandidates()

	prev := 0
	for n := 1; n <= len(cands); n++ {
		ids, _, err := SelectFronts(cands, n)
		if err != nil {
			t.Fatal(err)
		}
		if len(ids) < prev {
			t.Errorf("selection shrank from %d to %d at nFronts=%d", prev, len(ids), n)
		}
		prev = len(ids)
	}
}

func TestSelectFrontsShuffleDeterminism(t *testing.T) {
	cands := testCandidates()

	want, _, err := SelectFronts(cands, 2)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 25; trial++ {
		shuffled := append([]Candidate{}, cands...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got, _, err := SelectFronts(shuffled, 2)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d changed the selection: got %v, want %v", trial, got, want)
		}
	}
}

func TestParetoTiedCandidatesShareALayer(t *testing.T) {
	cands := []Candidate{
		{ID: "Y", Effect: 1, AdjP: 0.01},
		{ID: "X", Effect: -1, AdjP: 0.01},
	}

	fronts, _, err := ParetoFronts(cands, 2)
	if err != nil {
		t.Fatal(err)
	}

	if len(fronts[0]) != 2 {
		t.Fatalf("tied candidates split across layers: %v", fronts)
	}
	if fronts[0][0].ID != "X" || fronts[0][1].ID != "Y" {
		t.Errorf("layer not ID-ordered: %v", fronts[0])
	}
}

func TestParetoRejectsBadInput(t *testing.T) {
	if _, _, err := ParetoFronts([]Candidate{{ID: "A"}}, 0); err == nil {
		t.Error("expected error for nFronts=0")
	}

	dup := []Candidate{{ID: "A", Effect: 1, AdjP: 0.1}, {ID: "A", Effect: 2, AdjP: 0.2}}
	if _, _, err := ParetoFronts(dup, 1); err == nil {
		t.Error("expected error for duplicate IDs")
	}
}
